package tree

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/definition"
	"github.com/hupe1980/agenttree/internal/testutil"
	"github.com/hupe1980/agenttree/node"
	"github.com/hupe1980/agenttree/scheduler"
)

func hpDefinition() *definition.Definition {
	return testutil.NewDefinitionBuilder("hp").
		Node(1, "Root", 2).
		Node(2, "Sequence", 3, 4).
		Node(3, "SetValue").Params("varName", "hp", "valueType", "int", "value", "10").
		Node(4, "Condition").Params("varName1", "hp", "useValue", "true", "valueType", "int", "value", "5", "comparisonType", "GreaterThan").
		Build()
}

func TestBuild(t *testing.T) {
	root, nodes, err := Build(hpDefinition(), nil, node.Dependencies{})
	require.NoError(t, err)

	assert.Equal(t, 1, root.ID())
	assert.Len(t, nodes, 4)

	children := root.Children()
	require.Len(t, children, 1)
	assert.Equal(t, node.TypeSequence, children[0].Type())

	seq := children[0].Children()
	require.Len(t, seq, 2)
	assert.Equal(t, 3, seq[0].ID())
	assert.Equal(t, 4, seq[1].ID())

	for _, n := range nodes {
		assert.True(t, n.Initialized())
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name string
		def  *definition.Definition
		kind error
	}{
		{
			name: "unknown type",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root", 2).Node(2, "Teleport").Build(),
			kind: definition.ErrBadType,
		},
		{
			name: "init failure",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root", 2).Node(2, "SetValue").Param("varName", "hp").Build(),
			kind: definition.ErrInit,
		},
		{
			name: "multiple roots",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root").Node(2, "RootNode").Build(),
			kind: definition.ErrMultipleRoots,
		},
		{
			name: "no root",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Sequence").Build(),
			kind: definition.ErrNoRoot,
		},
		{
			name: "root as child",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root").Node(2, "Sequence", 1).Build(),
			kind: definition.ErrMalformed,
		},
		{
			name: "unreachable",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root").Node(2, "Sequence").Build(),
			kind: definition.ErrUnreachable,
		},
		{
			name: "duplicate id",
			def:  testutil.NewDefinitionBuilder("x").Node(1, "Root").Node(1, "Sequence").Build(),
			kind: definition.ErrDuplicateID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Build(tc.def, node.DefaultRegistry(), node.Dependencies{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var ie *definition.ImportError
			assert.True(t, errors.As(err, &ie))
		})
	}

	_, _, err := Build(testutil.NewDefinitionBuilder("x").Node(1, "Root", 2).Node(2, "SetValue").Param("varName", "hp").Build(), nil, node.Dependencies{})
	assert.ErrorIs(t, err, node.ErrMissingParameter)
}

func TestTree_OnTickCompletesRuns(t *testing.T) {
	tr, err := FromDefinition(hpDefinition(), nil, node.Dependencies{})
	require.NoError(t, err)
	defer tr.Close()

	assert.Equal(t, "hp", tr.Name())
	assert.NotEmpty(t, tr.ID())

	for tr.Runs() < 3 {
		require.NoError(t, tr.OnTick())
		require.Less(t, tr.Stats().Ticks, uint64(100))
	}

	v, ok := tr.Blackboard().Get("hp")
	require.True(t, ok)
	assert.True(t, v.Equal(core.Int(10)))

	n, ok := tr.Node(4)
	require.True(t, ok)
	assert.Equal(t, node.TypeCondition, n.Type())
}

func TestTree_NoReentrantStart(t *testing.T) {
	def := testutil.NewDefinitionBuilder("slow").
		Node(1, "Root", 2).
		Node(2, "Wait").Param("seconds", "0.05").
		Build()

	tr, err := FromDefinition(def, nil, node.Dependencies{})
	require.NoError(t, err)
	defer tr.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, tr.OnTick())
		st := tr.Stats()
		assert.LessOrEqual(t, st.Active+st.Sleeping, 3)
	}

	assert.True(t, tr.Running())
	assert.Zero(t, tr.Runs())

	require.Eventually(t, func() bool {
		_ = tr.OnTick()
		return tr.Runs() == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestTree_BlackboardPersistsAcrossRuns(t *testing.T) {
	bb := testutil.NewBlackboardBuilder().String("target", "door").Int("hp", 3).Build()

	def := testutil.NewDefinitionBuilder("persist").
		Node(1, "Root", 2).
		Node(2, "UnsetValue").Param("varName", "target").
		Build()

	tr, err := FromDefinition(def, nil, node.Dependencies{}, func(o *Options) { o.Blackboard = bb })
	require.NoError(t, err)
	defer tr.Close()

	for tr.Runs() < 2 {
		require.NoError(t, tr.OnTick())
	}

	assert.False(t, bb.Has("target"))
	assert.True(t, bb.Has("hp"))
	assert.Same(t, bb, tr.Blackboard())
}

type panicNode struct {
	node.BaseNode
}

func (n *panicNode) Run(*core.Blackboard, *core.ResultCell) scheduler.Computation {
	return func(func(scheduler.Instruction) bool) { panic("sensor on fire") }
}

func TestTree_FaultPropagates(t *testing.T) {
	reg := node.DefaultRegistry()
	reg.Register("Panic", func(d node.Dependencies) node.Node {
		return &panicNode{BaseNode: node.NewBaseNode("Panic", d.Logger)}
	})

	def := testutil.NewDefinitionBuilder("faulty").Node(1, "Root", 2).Node(2, "Panic").Build()

	tr, err := FromDefinition(def, reg, node.Dependencies{})
	require.NoError(t, err)
	defer tr.Close()

	var tickErr error
	for i := 0; i < 10 && tickErr == nil; i++ {
		tickErr = tr.OnTick()
	}

	require.Error(t, tickErr)
	assert.ErrorIs(t, tickErr, scheduler.ErrFault)
}

func TestTree_CloseStopsTicking(t *testing.T) {
	tr, err := FromDefinition(hpDefinition(), nil, node.Dependencies{})
	require.NoError(t, err)

	require.NoError(t, tr.OnTick())
	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.OnTick(), scheduler.ErrClosed)
}
