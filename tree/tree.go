// Package tree owns an executable behavior tree: the root node, the
// blackboard shared by all nodes and the scheduler that advances them.
//
// A tick driver calls OnTick once per frame. When no run is in flight a
// cycle is enqueued that delegates the root, waits for it to execute and then
// re-arms the tree. The scheduler is ticked on every call.
package tree

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/definition"
	"github.com/hupe1980/agenttree/logging"
	"github.com/hupe1980/agenttree/node"
	"github.com/hupe1980/agenttree/scheduler"
)

// Options configures a Tree.
type Options struct {
	// Name identifies the tree in logs.
	Name string
	// Blackboard is used instead of a fresh one when set.
	Blackboard *core.Blackboard
	// Workers bounds the fan-out workers of the tree's scheduler.
	Workers int
	// Pool shares fan-out workers with other trees. Overrides Workers.
	Pool *scheduler.Pool
	// Logger receives tree and scheduler logs.
	Logger logging.Logger
}

// Tree drives one root-run cycle at a time.
type Tree struct {
	id     string
	name   string
	root   *node.RootNode
	nodes  map[int]node.Node
	bb     *core.Blackboard
	sched  *scheduler.Scheduler
	logger logging.Logger

	mu       sync.Mutex
	inFlight bool
	runs     uint64
}

// New creates a tree around an initialized root.
func New(root *node.RootNode, optFns ...func(o *Options)) *Tree {
	opts := Options{Workers: scheduler.DefaultWorkers}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)
	schedLogger := logger
	if tl, ok := logger.(*logging.TreeLogger); ok {
		logger = tl.WithComponent("tree").WithTree(opts.Name)
		schedLogger = tl.WithComponent("scheduler").WithTree(opts.Name)
	}

	bb := opts.Blackboard
	if bb == nil {
		bb = core.NewBlackboard()
	}

	sched := scheduler.New(func(o *scheduler.Options) {
		o.Workers = opts.Workers
		o.Pool = opts.Pool
		o.Logger = schedLogger
	})

	return &Tree{
		id:     uuid.NewString(),
		name:   opts.Name,
		root:   root,
		nodes:  map[int]node.Node{root.ID(): root},
		bb:     bb,
		sched:  sched,
		logger: logger,
	}
}

// FromDefinition builds the node graph from def and wraps it in a Tree.
// The tree name defaults to the definition name.
func FromDefinition(def *definition.Definition, reg *node.Registry, deps node.Dependencies, optFns ...func(o *Options)) (*Tree, error) {
	root, nodes, err := Build(def, reg, deps)
	if err != nil {
		return nil, err
	}

	fns := append([]func(o *Options){func(o *Options) { o.Name = def.Name }}, optFns...)
	t := New(root, fns...)
	t.nodes = nodes

	return t, nil
}

// OnTick starts a root run if none is in flight and ticks the scheduler.
// A scheduler fault is returned unchanged.
func (t *Tree) OnTick() error {
	t.mu.Lock()
	if !t.inFlight {
		t.inFlight = t.sched.Enqueue(t.cycle())
	}
	t.mu.Unlock()

	return t.sched.Tick()
}

// cycle delegates one root run, waits for it and re-arms the tree. A cycle
// stopped by Close leaves the guard set, so no further run is started.
func (t *Tree) cycle() scheduler.Computation {
	return func(yield func(scheduler.Instruction) bool) {
		if !yield(scheduler.Delegate{Runner: t.root, Blackboard: t.bb, Cell: core.NewResultCell()}) {
			return
		}
		if !yield(scheduler.Await{Until: t.root.Executed}) {
			return
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		t.root.ResetFlags()
		t.inFlight = false
		t.runs++
		t.logger.Debug("Root run completed", "runs", t.runs)
	}
}

// Running reports whether a root run is in progress.
func (t *Tree) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Runs returns the number of completed root runs.
func (t *Tree) Runs() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

// ID returns the unique instance id.
func (t *Tree) ID() string { return t.id }

// Name returns the configured name.
func (t *Tree) Name() string { return t.name }

// Root returns the root node.
func (t *Tree) Root() *node.RootNode { return t.root }

// Node returns the node with the given id.
func (t *Tree) Node(id int) (node.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Blackboard returns the blackboard shared by all runs.
func (t *Tree) Blackboard() *core.Blackboard { return t.bb }

// Stats returns the scheduler counters.
func (t *Tree) Stats() scheduler.Stats { return t.sched.Stats() }

// Close stops the scheduler. In-flight computations are abandoned.
func (t *Tree) Close() error {
	return t.sched.Close()
}
