package node

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// runLog records the ids of nodes in the order their runs started.
type runLog struct {
	mu  sync.Mutex
	ids []int
}

func (l *runLog) add(id int) {
	l.mu.Lock()
	l.ids = append(l.ids, id)
	l.mu.Unlock()
}

func (l *runLog) all() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int(nil), l.ids...)
}

// scriptedNode is a leaf that yields Continue steps times and then reports
// result. A Running result never completes.
type scriptedNode struct {
	BaseNode
	log    *runLog
	result core.Status
	steps  int
}

func newScripted(t *testing.T, log *runLog, result core.Status, steps int) *scriptedNode {
	t.Helper()
	n := &scriptedNode{BaseNode: NewBaseNode("Scripted", nil), log: log, result: result, steps: steps}
	require.NoError(t, n.Init(NextID(), nil))
	return n
}

func (n *scriptedNode) Run(_ *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		if n.log != nil {
			n.log.add(n.ID())
		}

		if n.result == core.Running {
			for yield(scheduler.Continue{}) {
			}
			return false
		}

		for i := 0; i < n.steps; i++ {
			if !yield(scheduler.Continue{}) {
				return false
			}
		}

		cell.Set(n.result)

		return true
	})
}

// forgetfulNode completes without ever setting its cell.
type forgetfulNode struct {
	BaseNode
}

func (n *forgetfulNode) Run(_ *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool { return true })
}

func withChildren[T Node](t *testing.T, parent T, children ...Node) T {
	t.Helper()
	require.NoError(t, parent.Init(NextID(), nil))
	for _, c := range children {
		parent.AddChild(c)
	}
	return parent
}

// execute submits n on a fresh scheduler and ticks until it has executed.
func execute(t *testing.T, n Node, bb *core.Blackboard) core.Status {
	t.Helper()

	s := scheduler.New()
	t.Cleanup(func() { _ = s.Close() })

	cell := core.NewResultCell()
	s.Submit(n, bb, cell)

	var tickErr error
	require.Eventually(t, func() bool {
		if err := s.Tick(); err != nil {
			tickErr = err
			return true
		}
		return n.Executed()
	}, 2*time.Second, time.Millisecond)
	require.NoError(t, tickErr)

	return cell.Get()
}

// executeCounting runs a node that never fans out and returns the ticks it took.
func executeCounting(t *testing.T, n Node, bb *core.Blackboard) (core.Status, int) {
	t.Helper()

	s := scheduler.New()
	t.Cleanup(func() { _ = s.Close() })

	cell := core.NewResultCell()
	s.Submit(n, bb, cell)

	ticks, err := s.TickUntil(n.Executed, 1000)
	require.NoError(t, err)

	return cell.Get(), ticks
}

func TestBaseNode_StateTransitions(t *testing.T) {
	n := &scriptedNode{BaseNode: NewBaseNode("Scripted", nil), result: core.Success, steps: 1}
	assert.Equal(t, StateCreated, n.State())

	require.NoError(t, n.Init(NextID(), nil))
	assert.Equal(t, StateInitialized, n.State())

	s := scheduler.New()
	defer s.Close()

	cell := core.NewResultCell()
	s.Submit(n, core.NewBlackboard(), cell)
	assert.Equal(t, StateScheduled, n.State())

	require.NoError(t, s.Tick())
	assert.Equal(t, StateRunning, n.State())

	require.NoError(t, s.Tick())
	assert.Equal(t, StateExecuted, n.State())
	assert.Equal(t, core.Success, cell.Get())

	n.ResetFlags()
	assert.Equal(t, StateInitialized, n.State())
	assert.False(t, n.Scheduled())
	assert.False(t, n.Executed())
}

func TestBaseNode_ForgottenResultBecomesFailure(t *testing.T) {
	n := &forgetfulNode{BaseNode: NewBaseNode("Forgetful", nil)}
	require.NoError(t, n.Init(NextID(), nil))

	assert.Equal(t, core.Failure, execute(t, n, core.NewBlackboard()))
	assert.True(t, n.Executed())
}

func TestBaseNode_AbandonedRunIsNotExecuted(t *testing.T) {
	n := newScripted(t, nil, core.Success, 5)

	s := scheduler.New()
	s.Submit(n, core.NewBlackboard(), core.NewResultCell())
	require.NoError(t, s.Tick())
	require.NoError(t, s.Close())

	assert.False(t, n.Executed())
	assert.Equal(t, StateScheduled, n.State())
}

func TestBaseNode_InitTwiceFailsAndKeepsState(t *testing.T) {
	n := NewConditionNode(Dependencies{})
	require.NoError(t, n.Init(500, core.Params("varName1", "a", "varName2", "b", "comparisonType", "LessThan")))

	err := n.Init(501, core.Params("varName1", "x", "varName2", "y"))
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	assert.Equal(t, 500, n.ID())
	assert.Equal(t, "a", n.varName1)
	assert.Equal(t, EqualTo|LessThan, n.comparison)
	assert.True(t, n.Initialized())
}

func TestBaseNode_InitAdvancesIDGenerator(t *testing.T) {
	n := NewSequenceNode(Dependencies{})
	big := NextID() + 1000

	require.NoError(t, n.Init(big, nil))
	assert.Equal(t, big, n.ID())
	assert.Greater(t, NextID(), big)

	fresh := NewSelectionNode(Dependencies{})
	assert.Greater(t, fresh.ID(), big)
}

func TestBaseNode_CompositeRejectsParameters(t *testing.T) {
	n := NewSequenceNode(Dependencies{})
	err := n.Init(NextID(), core.Params("foo", "bar"))
	require.ErrorIs(t, err, ErrUnknownParameter)
	assert.False(t, n.Initialized())

	require.NoError(t, n.Init(NextID(), nil))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, name := range []string{"Condition", "ConditionNode", "GetGameObjectPosNode", "SensorStoreNode", "Wait"} {
		assert.True(t, r.Has(name), name)
	}

	n, err := r.New("GetGameObjectPosNode", Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, TypeGetPosition, n.Type())
	assert.IsType(t, &GetPositionNode{}, n)

	root, err := r.New("Root", Dependencies{})
	require.NoError(t, err)
	assert.True(t, IsRoot(root))

	_, err = r.New("Teleport", Dependencies{})
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Len(t, r.Types(), 12)
	assert.Contains(t, r.Types(), TypeExpression)
}
