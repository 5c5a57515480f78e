package scheduler

import (
	"time"

	"github.com/hupe1980/agenttree/core"
)

// Computation is a resumable sequence of suspension points: a node run or any
// other cooperative task. Each yielded Instruction tells the scheduler what to
// do before the computation is resumed. A computation is finite per run; the
// scheduler drops it once it stops yielding.
type Computation func(yield func(Instruction) bool)

// Runner produces a fresh Computation for one run. Behavior nodes implement it.
type Runner interface {
	Run(bb *core.Blackboard, cell *core.ResultCell) Computation
}

// scheduledMarker is implemented by runners that track whether a parent has
// handed them to the scheduler.
type scheduledMarker interface {
	MarkScheduled()
}

// Instruction is a directive yielded by a computation. The set of variants is
// closed: Continue, Delegate, Sleep, BranchFanOut and Await.
type Instruction interface {
	instruction()
}

// Continue yields control; the computation is resumed on the next tick.
type Continue struct{}

// Delegate enqueues the runner's computation. The new computation is first
// advanced on the next tick, never in the current pass.
type Delegate struct {
	Runner     Runner
	Blackboard *core.Blackboard
	Cell       *core.ResultCell
}

// Sleep takes the computation out of the active set and re-enqueues it once
// at least Duration has elapsed. The tick loop is never blocked.
type Sleep struct {
	Duration time.Duration
}

// Branch pairs a runner with the cell its run reports into.
type Branch struct {
	Runner Runner
	Cell   *core.ResultCell
}

// BranchFanOut dispatches every branch onto the worker pool; each worker
// enqueues its branch's computation independently. The yielding computation
// stays active and is resumed on the next tick.
type BranchFanOut struct {
	Blackboard *core.Blackboard
	Branches   []Branch
}

// Await parks the computation until Until reports true. The predicate is
// evaluated at the start of the computation's slot on every following tick;
// the computation is resumed in the same slot once it holds.
type Await struct {
	Until func() bool
}

func (Continue) instruction()     {}
func (Delegate) instruction()     {}
func (Sleep) instruction()        {}
func (BranchFanOut) instruction() {}
func (Await) instruction()        {}
