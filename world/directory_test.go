package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttree/core"
)

func TestDirectory(t *testing.T) {
	d := NewDirectory()

	require.NoError(t, d.Add("tower", core.Vec3{X: 1, Y: 2, Z: 3}))
	require.NoError(t, d.Add("gate", core.Vec3{}))
	assert.ErrorIs(t, d.Add("tower", core.Vec3{}), ErrEntityExists)

	pos, ok := d.FindPosition("tower")
	require.True(t, ok)
	assert.Equal(t, core.Vec3{X: 1, Y: 2, Z: 3}, pos)

	require.NoError(t, d.Move("tower", core.Vec3{X: 9}))
	pos, _ = d.FindPosition("tower")
	assert.Equal(t, core.Vec3{X: 9}, pos)
	assert.ErrorIs(t, d.Move("ghost", core.Vec3{}), ErrEntityNotFound)

	assert.Equal(t, []string{"gate", "tower"}, d.Names())

	assert.True(t, d.Remove("gate"))
	assert.False(t, d.Remove("gate"))
	_, ok = d.FindPosition("gate")
	assert.False(t, ok)
}
