package testutil

import (
	"github.com/hupe1980/agenttree/core"
)

// BlackboardBuilder helps construct pre-populated blackboards for tests.
// Example:
//
//	bb := NewBlackboardBuilder().Int("hp", 10).String("target", "door").Build()
type BlackboardBuilder struct {
	values map[string]core.Value
}

// NewBlackboardBuilder creates an empty builder.
func NewBlackboardBuilder() *BlackboardBuilder {
	return &BlackboardBuilder{values: map[string]core.Value{}}
}

// Set stores an arbitrary value (chainable).
func (b *BlackboardBuilder) Set(key string, v core.Value) *BlackboardBuilder {
	b.values[key] = v
	return b
}

// Int stores an int value (chainable).
func (b *BlackboardBuilder) Int(key string, i int64) *BlackboardBuilder { return b.Set(key, core.Int(i)) }

// Float stores a float value (chainable).
func (b *BlackboardBuilder) Float(key string, f float64) *BlackboardBuilder {
	return b.Set(key, core.Float(f))
}

// String stores a string value (chainable).
func (b *BlackboardBuilder) String(key, s string) *BlackboardBuilder {
	return b.Set(key, core.String(s))
}

// Bool stores a bool value (chainable).
func (b *BlackboardBuilder) Bool(key string, v bool) *BlackboardBuilder {
	return b.Set(key, core.Bool(v))
}

// Build returns a new blackboard holding the values.
func (b *BlackboardBuilder) Build() *core.Blackboard {
	bb := core.NewBlackboard()
	for k, v := range b.values {
		bb.Set(k, v)
	}
	return bb
}
