package tree

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agenttree/definition"
	"github.com/hupe1980/agenttree/node"
)

// Build turns a definition into an initialized node graph with exactly one
// root. Every failure is a *definition.ImportError.
func Build(def *definition.Definition, reg *node.Registry, deps node.Dependencies) (*node.RootNode, map[int]node.Node, error) {
	if err := def.Validate(); err != nil {
		return nil, nil, err
	}

	if reg == nil {
		reg = node.DefaultRegistry()
	}

	nodes := make(map[int]node.Node, len(def.Nodes))

	var root *node.RootNode

	for _, nd := range def.Nodes {
		n, err := reg.New(nd.Type, deps)
		if err != nil {
			return nil, nil, definition.NewImportError(definition.ErrBadType, nd.ID, err)
		}

		if err := n.Init(nd.ID, nd.AllParameters()); err != nil {
			return nil, nil, definition.NewImportError(definition.ErrInit, nd.ID, err)
		}

		if r, ok := n.(*node.RootNode); ok {
			if root != nil {
				return nil, nil, definition.NewImportError(definition.ErrMultipleRoots, nd.ID,
					fmt.Errorf("root %d already defined", root.ID()))
			}
			root = r
		}

		nodes[nd.ID] = n
	}

	if root == nil {
		return nil, nil, definition.NewImportError(definition.ErrNoRoot, 0, nil)
	}

	for _, nd := range def.Nodes {
		parent := nodes[nd.ID]
		for _, cid := range nd.Children {
			if cid == root.ID() {
				return nil, nil, definition.NewImportError(definition.ErrMalformed, nd.ID,
					errors.New("root node used as a child"))
			}
			parent.AddChild(nodes[cid])
		}
	}

	reached := make(map[int]bool, len(nodes))
	var walk func(n node.Node)
	walk = func(n node.Node) {
		reached[n.ID()] = true
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)

	for _, nd := range def.Nodes {
		if !reached[nd.ID] {
			return nil, nil, definition.NewImportError(definition.ErrUnreachable, nd.ID, nil)
		}
	}

	return root, nodes, nil
}
