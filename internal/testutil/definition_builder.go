package testutil

import (
	"github.com/hupe1980/agenttree/definition"
)

// DefinitionBuilder helps construct tree definitions with fluent chaining.
// Example:
//
//	def := NewDefinitionBuilder("guard").
//		Node(1, "Root", 2).
//		Node(2, "SetValue").Param("varName", "hp").Param("valueType", "int").Param("value", "10").
//		Build()
//
// Param applies to the most recently added node.
type DefinitionBuilder struct {
	name  string
	nodes []definition.NodeDefinition
}

// NewDefinitionBuilder creates a builder for a definition with the given name.
func NewDefinitionBuilder(name string) *DefinitionBuilder {
	return &DefinitionBuilder{name: name}
}

// Node appends a node with the given id, type and children (chainable).
func (b *DefinitionBuilder) Node(id int, typ string, children ...int) *DefinitionBuilder {
	b.nodes = append(b.nodes, definition.NodeDefinition{ID: id, Type: typ, Children: children})
	return b
}

// Param appends a parameter to the last node (chainable).
func (b *DefinitionBuilder) Param(name, value string) *DefinitionBuilder {
	if len(b.nodes) == 0 {
		return b
	}
	last := &b.nodes[len(b.nodes)-1]
	last.Parameters = append(last.Parameters, definition.Parameter{Name: name, Value: value})
	return b
}

// Params appends name/value pairs to the last node (chainable).
func (b *DefinitionBuilder) Params(pairs ...string) *DefinitionBuilder {
	for i := 0; i+1 < len(pairs); i += 2 {
		b.Param(pairs[i], pairs[i+1])
	}
	return b
}

// Build returns the definition.
func (b *DefinitionBuilder) Build() *definition.Definition {
	nodes := make([]definition.NodeDefinition, len(b.nodes))
	copy(nodes, b.nodes)
	return &definition.Definition{Name: b.name, Nodes: nodes}
}
