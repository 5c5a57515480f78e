package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttree/core"
)

// recorder collects labels from computations advanced on the tick goroutine.
type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.seen = append(r.seen, s)
	r.mu.Unlock()
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.seen
	r.seen = nil
	return out
}

// steps yields Continue between the given labels.
func steps(rec *recorder, labels ...string) Computation {
	return func(yield func(Instruction) bool) {
		for i, l := range labels {
			rec.add(l)
			if i < len(labels)-1 && !yield(Continue{}) {
				return
			}
		}
	}
}

type funcRunner struct {
	scheduled atomic.Bool
	fn        func(bb *core.Blackboard, cell *core.ResultCell) Computation
}

func (f *funcRunner) Run(bb *core.Blackboard, cell *core.ResultCell) Computation {
	return f.fn(bb, cell)
}

func (f *funcRunner) MarkScheduled() { f.scheduled.Store(true) }

func succeed() *funcRunner {
	return &funcRunner{fn: func(_ *core.Blackboard, cell *core.ResultCell) Computation {
		return func(func(Instruction) bool) { cell.Set(core.Success) }
	}}
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(bb *core.Blackboard, cell *core.ResultCell) Computation {
	args := m.Called(bb, cell)
	return args.Get(0).(Computation)
}

func TestScheduler_RoundRobinOrder(t *testing.T) {
	s := New()
	defer s.Close()

	rec := &recorder{}
	s.Enqueue(steps(rec, "a1", "a2"))
	s.Enqueue(steps(rec, "b1", "b2", "b3"))

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"a1", "b1"}, rec.take())

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"a2", "b2"}, rec.take())
	assert.Equal(t, 1, s.Stats().Active)

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"b3"}, rec.take())
	assert.True(t, s.Idle())
}

func TestScheduler_EnqueuedDuringTickWaitsForNextTick(t *testing.T) {
	s := New()
	defer s.Close()

	rec := &recorder{}
	s.Enqueue(func(yield func(Instruction) bool) {
		rec.add("parent")
		s.Enqueue(steps(rec, "child"))
		yield(Continue{})
	})

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"parent"}, rec.take())

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"child"}, rec.take())
}

func TestScheduler_Delegate(t *testing.T) {
	s := New()
	defer s.Close()

	child := succeed()
	cell := core.NewResultCell()
	bb := core.NewBlackboard()

	s.Enqueue(func(yield func(Instruction) bool) {
		if !yield(Delegate{Runner: child, Blackboard: bb, Cell: cell}) {
			return
		}
	})

	require.NoError(t, s.Tick())
	assert.True(t, child.scheduled.Load())
	assert.Equal(t, core.Running, cell.Get())

	require.NoError(t, s.Tick())
	assert.Equal(t, core.Success, cell.Get())
}

func TestScheduler_DelegatePassesBlackboardAndCell(t *testing.T) {
	s := New()
	defer s.Close()

	bb := core.NewBlackboard()
	cell := core.NewResultCell()

	r := &mockRunner{}
	r.On("Run", bb, cell).Return(Computation(func(func(Instruction) bool) { cell.Set(core.Failure) })).Once()

	s.Enqueue(func(yield func(Instruction) bool) {
		yield(Delegate{Runner: r, Blackboard: bb, Cell: cell})
	})

	_, err := s.TickUntil(cell.Done, 5)
	require.NoError(t, err)
	assert.Equal(t, core.Failure, cell.Get())
	r.AssertExpectations(t)
}

func TestScheduler_Sleep(t *testing.T) {
	s := New()
	defer s.Close()

	rec := &recorder{}
	s.Enqueue(func(yield func(Instruction) bool) {
		rec.add("before")
		if !yield(Sleep{Duration: 20 * time.Millisecond}) {
			return
		}
		rec.add("after")
	})

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"before"}, rec.take())
	assert.Equal(t, 1, s.Stats().Sleeping)
	assert.Equal(t, 0, s.Stats().Active)

	require.NoError(t, s.Tick())
	assert.Empty(t, rec.take())

	require.Eventually(t, func() bool { return s.Stats().Active == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"after"}, rec.take())
}

func TestScheduler_BranchFanOut(t *testing.T) {
	s := New(func(o *Options) { o.Workers = 2 })
	defer s.Close()

	runners := []*funcRunner{succeed(), succeed(), succeed()}
	cells := make([]*core.ResultCell, len(runners))
	branches := make([]Branch, len(runners))
	for i, r := range runners {
		cells[i] = core.NewResultCell()
		branches[i] = Branch{Runner: r, Cell: cells[i]}
	}

	allDone := func() bool {
		for _, c := range cells {
			if !c.Done() {
				return false
			}
		}
		return true
	}

	s.Enqueue(func(yield func(Instruction) bool) {
		if !yield(BranchFanOut{Blackboard: core.NewBlackboard(), Branches: branches}) {
			return
		}
		yield(Await{Until: allDone})
	})

	require.NoError(t, s.Tick())

	require.Eventually(t, func() bool {
		_ = s.Tick()
		return allDone()
	}, time.Second, time.Millisecond)

	for _, r := range runners {
		assert.True(t, r.scheduled.Load())
	}
}

func TestScheduler_AwaitParksUntilConditionHolds(t *testing.T) {
	s := New()
	defer s.Close()

	var ready atomic.Bool
	rec := &recorder{}

	s.Enqueue(func(yield func(Instruction) bool) {
		if !yield(Await{Until: ready.Load}) {
			return
		}
		rec.add("resumed")
	})

	require.NoError(t, s.Tick())
	require.NoError(t, s.Tick())
	assert.Equal(t, 1, s.Stats().Waiting)
	assert.Empty(t, rec.take())

	ready.Store(true)
	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"resumed"}, rec.take())
	assert.True(t, s.Idle())
}

func TestScheduler_FaultRemovesComputationAndStopsPass(t *testing.T) {
	s := New()
	defer s.Close()

	rec := &recorder{}
	boom := errors.New("boom")

	s.Enqueue(func(yield func(Instruction) bool) {
		panic(boom)
	})
	s.Enqueue(steps(rec, "x1", "x2"))

	err := s.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFault)
	assert.ErrorIs(t, err, boom)

	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.NotEmpty(t, fe.Stack)

	assert.Empty(t, rec.take())
	assert.Equal(t, 1, s.Stats().Active)

	require.NoError(t, s.Tick())
	assert.Equal(t, []string{"x1"}, rec.take())
}

func TestScheduler_FaultAlsoRemovesFinishedComputations(t *testing.T) {
	s := New()
	defer s.Close()

	rec := &recorder{}

	s.Enqueue(steps(rec, "done"))
	s.Enqueue(func(yield func(Instruction) bool) {
		panic("boom")
	})

	err := s.Tick()
	require.ErrorIs(t, err, ErrFault)
	assert.Equal(t, []string{"done"}, rec.take())

	assert.Equal(t, 0, s.Stats().Active)
	assert.True(t, s.Idle())
}

func TestScheduler_TickUntilBudget(t *testing.T) {
	s := New()
	defer s.Close()

	n, err := s.TickUntil(func() bool { return false }, 3)
	assert.ErrorIs(t, err, ErrTickBudget)
	assert.Equal(t, 3, n)
	assert.EqualValues(t, 3, s.Stats().Ticks)
}

func TestScheduler_CloseStopsComputations(t *testing.T) {
	s := New()

	var stopped atomic.Bool
	s.Enqueue(func(yield func(Instruction) bool) {
		for yield(Continue{}) {
		}
		stopped.Store(true)
	})
	s.Enqueue(func(yield func(Instruction) bool) {
		yield(Sleep{Duration: time.Hour})
	})

	require.NoError(t, s.Tick())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, stopped.Load())
	assert.True(t, s.Idle())
	assert.ErrorIs(t, s.Tick(), ErrClosed)
	assert.False(t, s.Enqueue(steps(&recorder{}, "late")))
}

func TestPool_SharedBetweenSchedulers(t *testing.T) {
	pool := NewPool(1)
	assert.Equal(t, 1, pool.Size())
	assert.Equal(t, DefaultWorkers, NewPool(0).Size())

	a := New(func(o *Options) { o.Pool = pool })
	b := New(func(o *Options) { o.Pool = pool })
	defer a.Close()
	defer b.Close()

	ca, cb := core.NewResultCell(), core.NewResultCell()
	a.Enqueue(func(yield func(Instruction) bool) {
		yield(BranchFanOut{Branches: []Branch{{Runner: succeed(), Cell: ca}}})
	})
	b.Enqueue(func(yield func(Instruction) bool) {
		yield(BranchFanOut{Branches: []Branch{{Runner: succeed(), Cell: cb}}})
	})

	require.NoError(t, a.Tick())
	require.NoError(t, b.Tick())

	require.Eventually(t, func() bool {
		_ = a.Tick()
		_ = b.Tick()
		return ca.Done() && cb.Done()
	}, time.Second, time.Millisecond)
}
