package node

import (
	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// RootNode is the single entry point of a tree. It runs every child in order
// regardless of outcome and always completes with Success. A child that never
// finishes stalls the root indefinitely.
type RootNode struct {
	BaseNode
}

// NewRootNode creates a root node.
func NewRootNode(deps Dependencies) *RootNode {
	return &RootNode{BaseNode: NewBaseNode(TypeRoot, deps.Logger)}
}

// Run implements scheduler.Runner.
func (n *RootNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		for _, child := range n.Children() {
			if !n.delegate(yield, child, bb, core.NewResultCell()) {
				return false
			}
		}

		n.ResetChildren()
		cell.Set(core.Success)

		return true
	})
}
