package node

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/logging"
	"github.com/hupe1980/agenttree/scheduler"
)

// BaseNode bundles identity, children and lifecycle flags shared by every
// node. Embed it in concrete nodes and supply a Run method. Flags are atomic
// because fan-out workers mark nodes scheduled off the tick goroutine.
type BaseNode struct {
	typeName string
	logger   logging.Logger

	mu       sync.Mutex
	id       int
	children []Node

	initialized atomic.Bool
	scheduled   atomic.Bool
	running     atomic.Bool
	executed    atomic.Bool
}

// NewBaseNode creates a BaseNode with a provisional id from NextID.
func NewBaseNode(typeName string, logger logging.Logger) BaseNode {
	return BaseNode{
		typeName: typeName,
		id:       NextID(),
		logger:   logging.OrNoOp(logger),
	}
}

// ID returns the node id.
func (b *BaseNode) ID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// Type returns the registered type name.
func (b *BaseNode) Type() string { return b.typeName }

// Init initializes a node that accepts no parameters.
func (b *BaseNode) Init(id int, params []core.Parameter) error {
	return b.initialize(id, func() error {
		return bindParams(params, nil)
	})
}

// initialize runs parse and, if it succeeds, adopts id and marks the node
// initialized. A second call fails without touching any state.
func (b *BaseNode) initialize(id int, parse func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized.Load() {
		return fmt.Errorf("%s %d: %w", b.typeName, b.id, ErrAlreadyInitialized)
	}

	if parse != nil {
		if err := parse(); err != nil {
			return fmt.Errorf("%s %d: %w", b.typeName, id, err)
		}
	}

	b.id = id
	reserveID(id)
	b.initialized.Store(true)

	return nil
}

// AddChild appends a child. Children are owned exclusively by one parent.
func (b *BaseNode) AddChild(child Node) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.children = append(b.children, child)
}

// Children returns a copy of the ordered children.
func (b *BaseNode) Children() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

// Initialized reports whether Init succeeded.
func (b *BaseNode) Initialized() bool { return b.initialized.Load() }

// Scheduled reports whether a parent has handed the node to the scheduler
// since its flags were last reset.
func (b *BaseNode) Scheduled() bool { return b.scheduled.Load() }

// Executed reports whether the current run has completed.
func (b *BaseNode) Executed() bool { return b.executed.Load() }

// State derives the lifecycle state from the flags.
func (b *BaseNode) State() State {
	switch {
	case b.executed.Load():
		return StateExecuted
	case b.running.Load():
		return StateRunning
	case b.scheduled.Load():
		return StateScheduled
	case b.initialized.Load():
		return StateInitialized
	default:
		return StateCreated
	}
}

// MarkScheduled is called by the scheduler when the node's run is enqueued.
func (b *BaseNode) MarkScheduled() { b.scheduled.Store(true) }

// ResetFlags clears executed and scheduled. Only the parent calls it.
func (b *BaseNode) ResetFlags() {
	b.executed.Store(false)
	b.scheduled.Store(false)
}

// ResetChildren clears the flags of every direct child.
func (b *BaseNode) ResetChildren() {
	for _, c := range b.Children() {
		c.ResetFlags()
	}
}

// body is the node specific part of a run. It returns false when the
// consumer stopped the computation before it completed.
type body func(yield func(scheduler.Instruction) bool) bool

// computation wraps body with the run contract: the node is running while
// body executes, and on completion the cell is never left Running and the
// node is marked executed. An abandoned run marks nothing.
func (b *BaseNode) computation(cell *core.ResultCell, run body) scheduler.Computation {
	return func(yield func(scheduler.Instruction) bool) {
		start := time.Now()
		steps := 0

		b.running.Store(true)
		defer b.running.Store(false)

		completed := run(func(in scheduler.Instruction) bool {
			steps++
			return yield(in)
		})
		if !completed {
			return
		}

		if !cell.Done() {
			b.logger.Warn("Node finished without a result, reporting Failure", "node_type", b.typeName, "node_id", b.ID())
			cell.Set(core.Failure)
		}

		b.executed.Store(true)
		b.logRun(cell.Get(), steps, time.Since(start))
	}
}

// delegate hands child to the scheduler and waits until it has executed.
func (b *BaseNode) delegate(yield func(scheduler.Instruction) bool, child Node, bb *core.Blackboard, cell *core.ResultCell) bool {
	b.logger.Debug("Delegating to child", "node_type", b.typeName, "node_id", b.ID(), "child", child.ID())

	if !yield(scheduler.Delegate{Runner: child, Blackboard: bb, Cell: cell}) {
		return false
	}

	return yield(scheduler.Await{Until: child.Executed})
}

func (b *BaseNode) logRun(status core.Status, steps int, dur time.Duration) {
	type runLogger interface {
		LogNodeRun(nodeType string, id int, status string, ticks int, dur time.Duration)
	}

	if rl, ok := b.logger.(runLogger); ok {
		rl.LogNodeRun(b.typeName, b.ID(), status.String(), steps, dur)
		return
	}

	b.logger.Debug("Node run completed", "node_type", b.typeName, "node_id", b.ID(), "status", status.String(), "steps", steps)
}
