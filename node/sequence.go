package node

import (
	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// SequenceNode runs its children in order and stops at the first Failure.
// It succeeds only if every child succeeds; an empty sequence succeeds.
type SequenceNode struct {
	BaseNode
}

// NewSequenceNode creates a sequence node.
func NewSequenceNode(deps Dependencies) *SequenceNode {
	return &SequenceNode{BaseNode: NewBaseNode(TypeSequence, deps.Logger)}
}

// Run implements scheduler.Runner.
func (n *SequenceNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		result := core.Success

		for _, child := range n.Children() {
			childCell := core.NewResultCell()
			if !n.delegate(yield, child, bb, childCell) {
				return false
			}
			if childCell.Get() == core.Failure {
				result = core.Failure
				break
			}
		}

		n.ResetChildren()
		cell.Set(result)

		return true
	})
}
