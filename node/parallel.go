package node

import (
	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// ParallelNode dispatches all children at once onto the scheduler's worker
// pool and joins once every child has executed. Failure dominates: the node
// fails if any child failed, regardless of completion order.
type ParallelNode struct {
	BaseNode
}

// NewParallelNode creates a parallel node.
func NewParallelNode(deps Dependencies) *ParallelNode {
	return &ParallelNode{BaseNode: NewBaseNode(TypeParallel, deps.Logger)}
}

// Run implements scheduler.Runner.
func (n *ParallelNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		children := n.Children()

		cells := make([]*core.ResultCell, len(children))
		branches := make([]scheduler.Branch, len(children))
		for i, child := range children {
			cells[i] = core.NewResultCell()
			branches[i] = scheduler.Branch{Runner: child, Cell: cells[i]}
		}

		if len(children) > 0 {
			n.logger.Debug("Fanning out", "node_type", n.typeName, "node_id", n.ID(), "branches", len(children))

			if !yield(scheduler.BranchFanOut{Blackboard: bb, Branches: branches}) {
				return false
			}

			joined := func() bool {
				for i, child := range children {
					if !cells[i].Done() || !child.Executed() {
						return false
					}
				}
				return true
			}

			if !yield(scheduler.Await{Until: joined}) {
				return false
			}
		}

		result := core.Success
		for _, c := range cells {
			if c.Get() == core.Failure {
				result = core.Failure
				break
			}
		}

		n.ResetChildren()
		cell.Set(result)

		return true
	})
}
