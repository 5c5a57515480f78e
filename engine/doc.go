// Package engine hosts named behavior trees and drives their ticks.
//
// The Engine is the coordination point between tick sources (a game loop, a
// test, a periodic ticker) and the trees that model agents. It owns the
// registered trees, shares one fan-out worker pool between them and isolates
// scheduler faults per tree.
//
// # Core Responsibilities
//
// Tree Management:
//   - Thread-safe registry keyed by agent name
//   - Replacement of a tree under an existing name
//   - Closing every tree on shutdown
//
// Tick Driving:
//   - Tick performs one pass over all trees in registration order
//   - Run drives each tree with a go-behaviortree ticker grouped in a Manager
//   - Node exposes a single tree as a go-behaviortree node for custom drivers
//
// Fault Handling:
//   - A scheduler fault halts the faulting tree; later passes skip it
//   - With Config.StopOnFault the first fault ends the pass (Tick) or stops
//     every ticker (Run)
//   - Faults are returned joined with errors.Join and logged with a stack
//
// # Callbacks
//
// Lifecycle callbacks run on the ticking goroutine:
//
//	before_tick      before a tree is ticked
//	after_tick       after a tick without fault
//	on_run_complete  after a tick that completed a root run
//	on_fault         after a tree was halted
//
// A callback error halts the tree like a fault does. The
// BlackboardValidationCallback uses this to enforce blackboard invariants.
//
// # Configuration
//
// Config may be set in code or loaded from TOML with LoadConfig:
//
//	workers = 4
//	tick_interval = "50ms"
//	stop_on_fault = false
//
// # Usage
//
//	e := engine.New()
//	defer e.Close()
//
//	t, err := tree.FromDefinition(def, nil, deps, func(o *tree.Options) {
//	    o.Pool = e.Pool()
//	})
//	if err != nil {
//	    return err
//	}
//	if err := e.Register("guard", t); err != nil {
//	    return err
//	}
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
//	defer cancel()
//	return e.Run(ctx)
package engine
