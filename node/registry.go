package node

import (
	"fmt"
	"sort"
	"sync"
)

// Registered type names.
const (
	TypeRoot        = "Root"
	TypeSequence    = "Sequence"
	TypeSelection   = "Selection"
	TypeParallel    = "Parallel"
	TypeCondition   = "Condition"
	TypeSetValue    = "SetValue"
	TypeUnsetValue  = "UnsetValue"
	TypeSensorCheck = "SensorCheck"
	TypeSensorStore = "SensorStore"
	TypeGetPosition = "GetPosition"
	TypeWait        = "Wait"
	TypeExpression  = "Expression"
)

// Factory creates an uninitialized node.
type Factory func(deps Dependencies) Node

// Registry maps type names to node factories. Register everything at
// startup; lookups are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
	}
}

// Register adds a factory under typeName and any aliases. A later
// registration under the same name replaces the earlier one.
func (r *Registry) Register(typeName string, f Factory, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[typeName] = f
	for _, a := range aliases {
		r.aliases[a] = typeName
	}
}

// New creates a node of the given type (or alias).
func (r *Registry) New(typeName string, deps Dependencies) (Node, error) {
	r.mu.RLock()
	name := typeName
	if canonical, ok := r.aliases[typeName]; ok {
		name = canonical
	}
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}

	return f(deps), nil
}

// Has reports whether typeName is a registered type or alias.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.factories[typeName]; ok {
		return true
	}
	_, ok := r.aliases[typeName]
	return ok
}

// Types returns the canonical type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with every built-in node type. The
// legacy "...Node" names are accepted as aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(TypeRoot, func(d Dependencies) Node { return NewRootNode(d) }, "RootNode")
	r.Register(TypeSequence, func(d Dependencies) Node { return NewSequenceNode(d) }, "SequenceNode")
	r.Register(TypeSelection, func(d Dependencies) Node { return NewSelectionNode(d) }, "SelectionNode", "Selector")
	r.Register(TypeParallel, func(d Dependencies) Node { return NewParallelNode(d) }, "ParallelNode")
	r.Register(TypeCondition, func(d Dependencies) Node { return NewConditionNode(d) }, "ConditionNode")
	r.Register(TypeSetValue, func(d Dependencies) Node { return NewSetValueNode(d) }, "SetValueNode")
	r.Register(TypeUnsetValue, func(d Dependencies) Node { return NewUnsetValueNode(d) }, "UnsetValueNode")
	r.Register(TypeSensorCheck, func(d Dependencies) Node { return NewSensorCheckNode(d) }, "SensorCheckNode")
	r.Register(TypeSensorStore, func(d Dependencies) Node { return NewSensorStoreNode(d) }, "SensorStoreNode")
	r.Register(TypeGetPosition, func(d Dependencies) Node { return NewGetPositionNode(d) }, "GetGameObjectPosNode", "GetPositionNode")
	r.Register(TypeWait, func(d Dependencies) Node { return NewWaitNode(d) }, "WaitNode")
	r.Register(TypeExpression, func(d Dependencies) Node { return NewExpressionNode(d) }, "ExpressionNode")

	return r
}

// IsRoot reports whether n is a root node.
func IsRoot(n Node) bool {
	_, ok := n.(*RootNode)
	return ok
}
