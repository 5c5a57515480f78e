package node

import (
	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// SelectionNode runs its children in order and stops at the first Success.
// It fails only if every child fails; an empty selection fails.
type SelectionNode struct {
	BaseNode
}

// NewSelectionNode creates a selection node.
func NewSelectionNode(deps Dependencies) *SelectionNode {
	return &SelectionNode{BaseNode: NewBaseNode(TypeSelection, deps.Logger)}
}

// Run implements scheduler.Runner.
func (n *SelectionNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		result := core.Failure

		for _, child := range n.Children() {
			childCell := core.NewResultCell()
			if !n.delegate(yield, child, bb, childCell) {
				return false
			}
			if childCell.Get() == core.Success {
				result = core.Success
				break
			}
		}

		n.ResetChildren()
		cell.Set(result)

		return true
	})
}
