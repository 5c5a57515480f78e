package scheduler

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/logging"
)

var (
	// ErrFault is wrapped by every FaultError.
	ErrFault = errors.New("computation faulted")

	// ErrClosed is returned by Tick after Close.
	ErrClosed = errors.New("scheduler closed")

	// ErrTickBudget is returned by TickUntil when the condition is not met in time.
	ErrTickBudget = errors.New("tick budget exhausted")
)

// FaultError reports a computation that panicked while being advanced. The
// computation has already been removed from the scheduler.
type FaultError struct {
	Task  uint64
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("computation %d faulted: %v", e.Task, e.Value)
}

// Unwrap exposes ErrFault and, if the panic value was an error, that error.
func (e *FaultError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrFault, err}
	}
	return []error{ErrFault}
}

// Options configures a Scheduler.
type Options struct {
	// Workers bounds concurrent fan-out dispatch. Ignored when Pool is set.
	Workers int
	// Pool is an optional worker pool shared with other schedulers.
	Pool *Pool
	// Logger receives tick accounting and fault reports.
	Logger logging.Logger
}

// DefaultOptions is used as the base for New.
var DefaultOptions = Options{
	Workers: DefaultWorkers,
}

// Stats is a point-in-time view of the scheduler.
type Stats struct {
	Ticks    uint64
	Active   int
	Sleeping int
	Waiting  int
}

type task struct {
	id    uint64
	next  func() (Instruction, bool)
	stop  func()
	until func() bool
}

// Scheduler advances enqueued computations in round-robin fashion, one step
// per computation per Tick. Computations enqueued during a tick are first
// advanced on the next one.
type Scheduler struct {
	mu       sync.Mutex
	tasks    []*task
	sleeping map[*task]*time.Timer
	closed   bool

	tickMu  sync.Mutex
	ticks   atomic.Uint64
	nextID  atomic.Uint64
	pool    *Pool
	workers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  logging.Logger
}

// New creates a Scheduler.
func New(optFns ...func(o *Options)) *Scheduler {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	pool := opts.Pool
	if pool == nil {
		pool = NewPool(opts.Workers)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		sleeping: make(map[*task]*time.Timer),
		pool:     pool,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Enqueue appends a computation to the active set. It reports false if the
// scheduler is closed. Safe to call from any goroutine.
func (s *Scheduler) Enqueue(c Computation) bool {
	next, stop := iter.Pull(iter.Seq[Instruction](c))
	t := &task{id: s.nextID.Add(1), next: next, stop: stop}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		stop()
		return false
	}
	s.tasks = append(s.tasks, t)
	return true
}

// Submit marks the runner as scheduled and enqueues its computation.
func (s *Scheduler) Submit(r Runner, bb *core.Blackboard, cell *core.ResultCell) bool {
	if m, ok := r.(scheduledMarker); ok {
		m.MarkScheduled()
	}
	return s.Enqueue(r.Run(bb, cell))
}

// Tick performs one pass over the computations active when the tick started.
// Each is advanced exactly once unless it is parked on an unsatisfied Await.
// A computation that panics is removed and the pass stops with a *FaultError.
func (s *Scheduler) Tick() error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	batch := slices.Clone(s.tasks)
	s.mu.Unlock()

	start := time.Now()
	tick := s.ticks.Add(1)
	advanced := 0

	var finished []*task

	for _, t := range batch {
		if t.until != nil {
			if !t.until() {
				continue
			}
			s.setUntil(t, nil)
		}

		inst, ok, err := s.advance(t)
		advanced++

		if err != nil {
			s.remove(append(finished, t)...)
			s.logger.Error("Computation faulted", "tick", tick, "task", t.id, "error", err.Error())
			s.logTick(tick, advanced, start, err)
			return err
		}

		if !ok {
			finished = append(finished, t)
			continue
		}

		s.dispatch(t, inst)
	}

	s.remove(finished...)
	s.logTick(tick, advanced, start, nil)

	return nil
}

// TickUntil ticks until done reports true, checking before every tick. It
// returns the number of ticks performed.
func (s *Scheduler) TickUntil(done func() bool, maxTicks int) (int, error) {
	for n := 0; n < maxTicks; n++ {
		if done() {
			return n, nil
		}
		if err := s.Tick(); err != nil {
			return n + 1, err
		}
	}
	if done() {
		return maxTicks, nil
	}
	return maxTicks, ErrTickBudget
}

// Idle reports whether no computation is active or sleeping.
func (s *Scheduler) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) == 0 && len(s.sleeping) == 0
}

// Stats returns counters for the current state.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	waiting := 0
	for _, t := range s.tasks {
		if t.until != nil {
			waiting++
		}
	}

	return Stats{
		Ticks:    s.ticks.Load(),
		Active:   len(s.tasks),
		Sleeping: len(s.sleeping),
		Waiting:  waiting,
	}
}

// Close stops pending timers, cancels queued fan-out work, waits for running
// workers and stops every remaining computation. Close is idempotent.
func (s *Scheduler) Close() error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()

	pending := s.tasks
	s.tasks = nil
	for t, timer := range s.sleeping {
		timer.Stop()
		pending = append(pending, t)
	}
	clear(s.sleeping)
	s.mu.Unlock()

	s.workers.Wait()

	for _, t := range pending {
		t.stop()
	}

	return nil
}

func (s *Scheduler) advance(t *task) (inst Instruction, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Task: t.id, Value: r, Stack: debug.Stack()}
		}
	}()

	inst, ok = t.next()

	return inst, ok, nil
}

func (s *Scheduler) dispatch(t *task, inst Instruction) {
	switch in := inst.(type) {
	case nil, Continue:
	case Delegate:
		s.Submit(in.Runner, in.Blackboard, in.Cell)
	case Sleep:
		s.sleep(t, in.Duration)
	case BranchFanOut:
		for _, b := range in.Branches {
			s.pool.Go(s.ctx, &s.workers, func() {
				s.Submit(b.Runner, in.Blackboard, b.Cell)
			})
		}
	case Await:
		s.setUntil(t, in.Until)
	default:
		s.logger.Warn("Unknown instruction ignored", "task", t.id, "instruction", fmt.Sprintf("%T", inst))
	}
}

func (s *Scheduler) sleep(t *task, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.DeleteFunc(s.tasks, func(x *task) bool { return x == t })
	s.sleeping[t] = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.sleeping[t]; !ok {
			return
		}
		delete(s.sleeping, t)
		s.tasks = append(s.tasks, t)
	})
}

func (s *Scheduler) setUntil(t *task, until func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.until = until
}

func (s *Scheduler) remove(ts ...*task) {
	if len(ts) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.DeleteFunc(s.tasks, func(x *task) bool { return slices.Contains(ts, x) })
}

func (s *Scheduler) logTick(tick uint64, advanced int, start time.Time, err error) {
	type tickLogger interface {
		LogTick(tick uint64, advanced, active int, dur time.Duration, err error)
	}

	if tl, ok := s.logger.(tickLogger); ok {
		s.mu.Lock()
		active := len(s.tasks)
		s.mu.Unlock()
		tl.LogTick(tick, advanced, active, time.Since(start), err)
	}
}
