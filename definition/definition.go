package definition

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/hupe1980/agenttree/core"
)

// Definition is a behavior tree described as data.
type Definition struct {
	Name  string           `toml:"name" yaml:"name"`
	Nodes []NodeDefinition `toml:"node" yaml:"nodes"`
}

// NodeDefinition describes one node. Parameters keep their order and may
// repeat; Params is a convenience map appended after them in key order.
type NodeDefinition struct {
	ID         int               `toml:"id" yaml:"id"`
	Type       string            `toml:"type" yaml:"type"`
	Parameters []Parameter       `toml:"parameter" yaml:"parameters"`
	Params     map[string]string `toml:"params" yaml:"params"`
	Children   []int             `toml:"children" yaml:"children"`
}

// Parameter is a named raw parameter value.
type Parameter struct {
	Name  string `toml:"name" yaml:"name"`
	Value string `toml:"value" yaml:"value"`
}

// AllParameters returns Parameters followed by Params sorted by key.
func (n NodeDefinition) AllParameters() []core.Parameter {
	out := make([]core.Parameter, 0, len(n.Parameters)+len(n.Params))
	for _, p := range n.Parameters {
		out = append(out, core.Parameter{Name: p.Name, Value: p.Value})
	}

	keys := make([]string, 0, len(n.Params))
	for k := range n.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, core.Parameter{Name: k, Value: n.Params[k]})
	}

	return out
}

// Node returns the definition with the given id.
func (d *Definition) Node(id int) (NodeDefinition, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeDefinition{}, false
}

// Validate checks ids, types, parameter blocks and the child graph. It
// rejects a node listed as child of two parents (or twice by one parent) and
// any cycle. It does not know which types exist or which node is the root.
func (d *Definition) Validate() error {
	if d == nil || len(d.Nodes) == 0 {
		return NewImportError(ErrNoRoot, 0, errors.New("definition has no nodes"))
	}

	ids := make(map[int]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID <= 0 {
			return NewImportError(ErrBadID, n.ID, fmt.Errorf("id must be positive, got %d", n.ID))
		}
		if ids[n.ID] {
			return NewImportError(ErrDuplicateID, n.ID, nil)
		}
		ids[n.ID] = true

		if n.Type == "" {
			return NewImportError(ErrMissingType, n.ID, nil)
		}
		for i, p := range n.Parameters {
			if p.Name == "" {
				return NewImportError(ErrMalformed, n.ID, fmt.Errorf("parameter %d has no name", i))
			}
		}
	}

	parent := make(map[int]int, len(d.Nodes))
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			if !ids[c] {
				return NewImportError(ErrUnknownChild, n.ID, fmt.Errorf("child %d", c))
			}
			if p, ok := parent[c]; ok {
				return NewImportError(ErrMultipleParents, c, fmt.Errorf("parents %d and %d", p, n.ID))
			}
			parent[c] = n.ID
		}
	}

	// With at most one parent per node, a cycle exists iff walking up from
	// some node returns to it.
	for id := range ids {
		seen := []int{id}
		for p, ok := parent[id]; ok; p, ok = parent[p] {
			if slices.Contains(seen, p) {
				return NewImportError(ErrCycle, p, nil)
			}
			seen = append(seen, p)
		}
	}

	return nil
}
