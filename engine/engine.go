package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/hupe1980/agenttree/logging"
	"github.com/hupe1980/agenttree/scheduler"
	"github.com/hupe1980/agenttree/tree"
)

var (
	// ErrTreeNotFound is returned for names that were never registered.
	ErrTreeNotFound = errors.New("tree not found")

	// ErrInvalidTree is returned by Register for an empty name or nil tree.
	ErrInvalidTree = errors.New("invalid tree registration")
)

// Options configures an Engine instance using the functional options pattern.
//
// Example:
//
//	e := engine.New(func(o *engine.Options) {
//	    o.Config.TickInterval = 20 * time.Millisecond
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	})
type Options struct {
	// Config contains operational parameters for the engine behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Pool is the fan-out worker pool offered to trees. Defaults to a pool
	// of Config.Workers workers.
	Pool *scheduler.Pool

	// Callbacks are registered on the engine's CallbackManager.
	Callbacks []Callback

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger
}

type entry struct {
	name   string
	tree   *tree.Tree
	halted bool
	err    error
}

// Engine hosts a set of named behavior trees and drives their ticks.
//
// Core Responsibilities:
//   - Tree Registry: thread-safe registration and lookup by agent name
//   - Tick Driving: manual passes (Tick) or periodic tickers (Run)
//   - Fault Isolation: a faulting tree is halted; with StopOnFault every tree stops
//   - Resource Sharing: one fan-out worker pool for all trees
//
// Trees are ticked in registration order. Tick and Run must not be used at
// the same time on one engine.
type Engine struct {
	config    Config
	pool      *scheduler.Pool
	callbacks *CallbackManager
	logger    logging.Logger

	mu    sync.RWMutex
	trees map[string]*entry
	order []string
}

// New creates a new Engine with DefaultConfig unless overridden.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	pool := opts.Pool
	if pool == nil {
		pool = scheduler.NewPool(opts.Config.Workers)
	}

	logger := logging.OrNoOp(opts.Logger)
	if tl, ok := logger.(*logging.TreeLogger); ok {
		logger = tl.WithComponent("engine")
	}

	callbacks := NewCallbackManager()
	for _, cb := range opts.Callbacks {
		callbacks.RegisterCallback(cb)
	}

	return &Engine{
		config:    opts.Config,
		pool:      pool,
		callbacks: callbacks,
		logger:    logger,
		trees:     make(map[string]*entry),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Pool returns the worker pool trees of this engine should share.
func (e *Engine) Pool() *scheduler.Pool { return e.pool }

// RegisterCallback adds a lifecycle callback.
func (e *Engine) RegisterCallback(cb Callback) {
	e.callbacks.RegisterCallback(cb)
}

// Register adds a tree under the given agent name. A tree already registered
// under that name is closed and replaced, keeping its position in the tick
// order. The engine owns registered trees and closes them in Close.
func (e *Engine) Register(name string, t *tree.Tree) error {
	if name == "" || t == nil {
		return ErrInvalidTree
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.trees[name]; ok {
		e.logger.Warn("Replacing registered tree", "agent", name, "old", old.tree.ID(), "new", t.ID())
		_ = old.tree.Close()
	} else {
		e.order = append(e.order, name)
	}

	e.trees[name] = &entry{name: name, tree: t}
	e.logger.Debug("Tree registered", "agent", name, "tree", t.ID())

	return nil
}

// Tree returns the tree registered under name.
func (e *Engine) Tree(name string) (*tree.Tree, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ent, ok := e.trees[name]
	if !ok {
		return nil, false
	}
	return ent.tree, true
}

// Names returns the registered agent names in tick order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Halted reports whether the named tree was halted by a fault, and the fault.
func (e *Engine) Halted(name string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ent, ok := e.trees[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrTreeNotFound, name)
	}
	return ent.halted, ent.err
}

// Tick performs one tick on every tree that is not halted, in registration
// order. Faults are joined. With StopOnFault the pass ends at the first one.
func (e *Engine) Tick() error {
	ctx := context.Background()

	var errs []error
	for _, ent := range e.active() {
		if err := e.tickTree(ctx, ent); err != nil {
			errs = append(errs, err)
			if e.config.StopOnFault {
				break
			}
		}
	}

	return errors.Join(errs...)
}

// Node adapts the named tree to a go-behaviortree node. Every tick of the
// node ticks the tree once and reports Success on the tick that completed a
// root run, Running otherwise. A halted or faulting tree reports Failure;
// with StopOnFault the fault is also returned as the tick error.
func (e *Engine) Node(name string) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		e.mu.RLock()
		ent, ok := e.trees[name]
		halted := ok && ent.halted
		e.mu.RUnlock()

		if !ok {
			return bt.Failure, fmt.Errorf("%w: %q", ErrTreeNotFound, name)
		}
		if halted {
			return bt.Failure, nil
		}

		before := ent.tree.Runs()
		if err := e.tickTree(context.Background(), ent); err != nil {
			if e.config.StopOnFault {
				return bt.Failure, err
			}
			return bt.Failure, nil
		}

		if ent.tree.Runs() > before {
			return bt.Success, nil
		}
		return bt.Running, nil
	})
}

// Run ticks every registered tree on its own ticker at Config.TickInterval
// until ctx is done, every tree has halted, or (with StopOnFault) any tree
// faults. It returns the joined faults of the trees it drove.
func (e *Engine) Run(ctx context.Context) error {
	ents := e.active()
	if len(ents) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := bt.NewManager()
	tickers := make([]bt.Ticker, 0, len(ents))

	for _, ent := range ents {
		ticker := bt.NewTickerStopOnFailure(runCtx, e.config.tickInterval(), e.Node(ent.name))
		if err := manager.Add(ticker); err != nil {
			ticker.Stop()
			manager.Stop()
			return fmt.Errorf("add ticker for %q: %w", ent.name, err)
		}
		tickers = append(tickers, ticker)
	}

	finished := make(chan struct{})
	go func() {
		for _, t := range tickers {
			<-t.Done()
		}
		close(finished)
	}()

	e.logger.Info("Engine running", "trees", len(ents), "tick_interval", e.config.tickInterval(), "stop_on_fault", e.config.StopOnFault)

	select {
	case <-ctx.Done():
	case <-manager.Done():
	case <-finished:
	}

	cancel()
	manager.Stop()
	<-manager.Done()

	var errs []error
	e.mu.RLock()
	for _, ent := range ents {
		if ent.err != nil {
			errs = append(errs, ent.err)
		}
	}
	e.mu.RUnlock()

	if len(errs) == 0 {
		if err := manager.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	e.logger.Info("Engine stopped", "faults", len(errs))

	return errors.Join(errs...)
}

// Close closes every registered tree.
func (e *Engine) Close() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var errs []error
	for _, name := range e.order {
		if err := e.trees[name].tree.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tree %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) active() []*entry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*entry, 0, len(e.order))
	for _, name := range e.order {
		if ent := e.trees[name]; !ent.halted {
			out = append(out, ent)
		}
	}
	return out
}

func (e *Engine) tickTree(ctx context.Context, ent *entry) error {
	cc := &CallbackContext{TreeName: ent.name, Tree: ent.tree, Runs: ent.tree.Runs()}

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeTick, cc); err != nil {
		return e.halt(ctx, ent, fmt.Errorf("before tick: %w", err))
	}

	before := cc.Runs
	if err := ent.tree.OnTick(); err != nil {
		return e.halt(ctx, ent, err)
	}

	cc.Runs = ent.tree.Runs()
	if cc.Runs > before {
		if err := e.callbacks.ExecuteCallbacks(ctx, CallbackOnRunComplete, cc); err != nil {
			return e.halt(ctx, ent, fmt.Errorf("run complete: %w", err))
		}
	}

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterTick, cc); err != nil {
		return e.halt(ctx, ent, fmt.Errorf("after tick: %w", err))
	}

	return nil
}

func (e *Engine) halt(ctx context.Context, ent *entry, cause error) error {
	err := fmt.Errorf("tree %q: %w", ent.name, cause)

	e.mu.Lock()
	ent.halted = true
	ent.err = err
	e.mu.Unlock()

	if tl, ok := e.logger.(*logging.TreeLogger); ok {
		tl.WithTree(ent.tree.ID()).ErrorWithStack(err, "Tree halted")
	} else {
		e.logger.Error("Tree halted", "agent", ent.name, "error", err.Error())
	}

	_ = e.callbacks.ExecuteCallbacks(ctx, CallbackOnFault, &CallbackContext{
		TreeName: ent.name,
		Tree:     ent.tree,
		Runs:     ent.tree.Runs(),
		Err:      err,
	})

	return err
}
