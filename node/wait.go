package node

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// WaitNode sleeps for a fixed duration and then succeeds. The tick loop is
// not blocked while it sleeps.
type WaitNode struct {
	BaseNode

	duration time.Duration
}

// NewWaitNode creates a wait node.
func NewWaitNode(deps Dependencies) *WaitNode {
	return &WaitNode{BaseNode: NewBaseNode(TypeWait, deps.Logger)}
}

// Init parses seconds, which must be positive.
func (n *WaitNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var raw string
		if err := bindParams(params, binder{"seconds": stringParam(&raw)}); err != nil {
			return err
		}
		if err := requireParam("seconds", raw); err != nil {
			return err
		}

		seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidParameter, "seconds", err)
		}
		if seconds <= 0 {
			return fmt.Errorf("%w %q: must be positive", ErrInvalidParameter, "seconds")
		}

		n.duration = time.Duration(seconds * float64(time.Second))

		return nil
	})
}

// Duration returns the configured sleep.
func (n *WaitNode) Duration() time.Duration { return n.duration }

// Run implements scheduler.Runner.
func (n *WaitNode) Run(_ *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		if !yield(scheduler.Sleep{Duration: n.duration}) {
			return false
		}
		cell.Set(core.Success)
		return true
	})
}
