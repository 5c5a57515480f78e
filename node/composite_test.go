package node

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

func TestSequenceNode(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		log := &runLog{}
		a := newScripted(t, log, core.Success, 0)
		b := newScripted(t, log, core.Success, 3)
		c := newScripted(t, log, core.Success, 1)
		seq := withChildren(t, NewSequenceNode(Dependencies{}), a, b, c)

		assert.Equal(t, core.Success, execute(t, seq, core.NewBlackboard()))
		assert.Equal(t, []int{a.ID(), b.ID(), c.ID()}, log.all())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		log := &runLog{}
		a := newScripted(t, log, core.Success, 0)
		b := newScripted(t, log, core.Failure, 2)
		c := newScripted(t, log, core.Success, 0)
		seq := withChildren(t, NewSequenceNode(Dependencies{}), a, b, c)

		assert.Equal(t, core.Failure, execute(t, seq, core.NewBlackboard()))
		assert.Equal(t, []int{a.ID(), b.ID()}, log.all())
		assert.False(t, c.Scheduled())
	})

	t.Run("empty succeeds", func(t *testing.T) {
		seq := withChildren(t, NewSequenceNode(Dependencies{}))
		assert.Equal(t, core.Success, execute(t, seq, core.NewBlackboard()))
	})

	t.Run("children reset after run", func(t *testing.T) {
		a := newScripted(t, nil, core.Success, 0)
		seq := withChildren(t, NewSequenceNode(Dependencies{}), a)

		execute(t, seq, core.NewBlackboard())
		assert.True(t, seq.Executed())
		assert.False(t, a.Executed())
		assert.False(t, a.Scheduled())
	})
}

func TestSelectionNode(t *testing.T) {
	t.Run("stops at first success", func(t *testing.T) {
		log := &runLog{}
		a := newScripted(t, log, core.Failure, 1)
		b := newScripted(t, log, core.Success, 0)
		c := newScripted(t, log, core.Success, 0)
		sel := withChildren(t, NewSelectionNode(Dependencies{}), a, b, c)

		assert.Equal(t, core.Success, execute(t, sel, core.NewBlackboard()))
		assert.Equal(t, []int{a.ID(), b.ID()}, log.all())
	})

	t.Run("fails when all fail", func(t *testing.T) {
		log := &runLog{}
		a := newScripted(t, log, core.Failure, 0)
		b := newScripted(t, log, core.Failure, 2)
		sel := withChildren(t, NewSelectionNode(Dependencies{}), a, b)

		assert.Equal(t, core.Failure, execute(t, sel, core.NewBlackboard()))
		assert.Equal(t, []int{a.ID(), b.ID()}, log.all())
	})

	t.Run("empty fails", func(t *testing.T) {
		sel := withChildren(t, NewSelectionNode(Dependencies{}))
		assert.Equal(t, core.Failure, execute(t, sel, core.NewBlackboard()))
	})
}

func TestParallelNode_AggregateIndependentOfCompletionOrder(t *testing.T) {
	cases := []struct {
		results []core.Status
		steps   []int
		want    core.Status
	}{
		{[]core.Status{core.Success, core.Success, core.Success}, []int{0, 3, 1}, core.Success},
		{[]core.Status{core.Success, core.Failure, core.Success}, []int{4, 0, 2}, core.Failure},
		{[]core.Status{core.Success, core.Failure, core.Success}, []int{0, 5, 2}, core.Failure},
		{[]core.Status{core.Failure, core.Failure}, []int{2, 1}, core.Failure},
		{[]core.Status{core.Success, core.Success, core.Failure}, []int{0, 0, 6}, core.Failure},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			children := make([]Node, len(tc.results))
			for j := range tc.results {
				children[j] = newScripted(t, nil, tc.results[j], tc.steps[j])
			}
			par := withChildren(t, NewParallelNode(Dependencies{}), children...)

			assert.Equal(t, tc.want, execute(t, par, core.NewBlackboard()))
			for _, c := range children {
				assert.False(t, c.Executed(), "children are reset after the join")
			}
		})
	}
}

func TestParallelNode_WaitsForEveryChild(t *testing.T) {
	fast := newScripted(t, nil, core.Failure, 0)
	stuck := newScripted(t, nil, core.Running, 0)
	par := withChildren(t, NewParallelNode(Dependencies{}), fast, stuck)

	s := scheduler.New()
	defer s.Close()

	cell := core.NewResultCell()
	s.Submit(par, core.NewBlackboard(), cell)

	require.Eventually(t, func() bool {
		_ = s.Tick()
		return fast.Executed() && stuck.State() == StateRunning
	}, 2*time.Second, time.Millisecond)

	for i := 0; i < 50; i++ {
		require.NoError(t, s.Tick())
	}

	assert.False(t, par.Executed())
	assert.Equal(t, core.Running, cell.Get())
}

func TestParallelNode_Empty(t *testing.T) {
	par := withChildren(t, NewParallelNode(Dependencies{}))
	assert.Equal(t, core.Success, execute(t, par, core.NewBlackboard()))
}

func TestRootNode_RunsEveryChild(t *testing.T) {
	log := &runLog{}
	a := newScripted(t, log, core.Failure, 0)
	b := newScripted(t, log, core.Success, 2)
	c := newScripted(t, log, core.Failure, 1)
	root := withChildren(t, NewRootNode(Dependencies{}), a, b, c)

	assert.Equal(t, core.Success, execute(t, root, core.NewBlackboard()))
	assert.Equal(t, []int{a.ID(), b.ID(), c.ID()}, log.all())
	assert.False(t, a.Executed())
	assert.False(t, c.Scheduled())
}

func TestRootNode_StuckChildStallsForever(t *testing.T) {
	log := &runLog{}
	first := newScripted(t, log, core.Success, 0)
	stuck := newScripted(t, log, core.Running, 0)
	third := newScripted(t, log, core.Success, 0)
	root := withChildren(t, NewRootNode(Dependencies{}), first, stuck, third)

	s := scheduler.New()
	defer s.Close()

	cell := core.NewResultCell()
	s.Submit(root, core.NewBlackboard(), cell)

	for i := 0; i < 200; i++ {
		require.NoError(t, s.Tick())
	}

	assert.False(t, root.Executed())
	assert.Equal(t, core.Running, cell.Get())
	assert.Equal(t, []int{first.ID(), stuck.ID()}, log.all())
	assert.False(t, third.Scheduled())
	assert.Equal(t, StateRunning, stuck.State())
}

func TestNestedComposites(t *testing.T) {
	log := &runLog{}
	inner := withChildren(t, NewSelectionNode(Dependencies{}),
		newScripted(t, log, core.Failure, 0),
		newScripted(t, log, core.Success, 1),
	)
	par := withChildren(t, NewParallelNode(Dependencies{}),
		newScripted(t, log, core.Success, 2),
		inner,
	)
	seq := withChildren(t, NewSequenceNode(Dependencies{}), par, newScripted(t, log, core.Success, 0))

	assert.Equal(t, core.Success, execute(t, seq, core.NewBlackboard()))
	assert.Len(t, log.all(), 4)
}
