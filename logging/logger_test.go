package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*TreeLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func TestTreeLogger_ContextAttrs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	l.WithComponent("scheduler").WithTree("guard").WithNode("Sequence", 7).Info("child done", "child", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "child done", entry["msg"])
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "guard", entry["tree"])
	assert.Equal(t, "Sequence", entry["node_type"])
	assert.EqualValues(t, 7, entry["node_id"])
	assert.EqualValues(t, 3, entry["child"])
}

func TestTreeLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.LogTick(1, 2, 3, time.Millisecond, nil)
	assert.Zero(t, buf.Len())

	l.LogTick(2, 1, 1, time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "Tick failed")
}

func TestTreeLogger_WithDoesNotMutateParent(t *testing.T) {
	base, buf := newBufferLogger(LogLevelInfo)
	_ = base.WithAttr("k", "v")

	base.Info("plain")
	assert.NotContains(t, buf.String(), `"k"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLevel("whatever"))
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l, _ := newBufferLogger(LogLevelInfo)
	assert.Same(t, l, OrNoOp(l))
}
