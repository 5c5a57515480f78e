package node

import (
	"fmt"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// SetValueNode writes a typed literal to the blackboard. The literal is
// parsed on every run; a literal that does not parse makes the run fail.
type SetValueNode struct {
	BaseNode

	varName string
	kind    core.Kind
	literal string
}

// NewSetValueNode creates a set-value node.
func NewSetValueNode(deps Dependencies) *SetValueNode {
	return &SetValueNode{BaseNode: NewBaseNode(TypeSetValue, deps.Logger)}
}

// Init parses varName, valueType and value.
func (n *SetValueNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var varName, valueType, literal string

		err := bindParams(params, binder{
			"varName":   stringParam(&varName),
			"valueType": stringParam(&valueType),
			"value":     stringParam(&literal),
		})
		if err != nil {
			return err
		}

		if err := requireParam("varName", varName); err != nil {
			return err
		}
		if err := requireParam("valueType", valueType); err != nil {
			return err
		}

		kind, err := core.ParseKind(valueType)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidParameter, "valueType", err)
		}

		n.varName, n.kind, n.literal = varName, kind, literal

		return nil
	})
}

// Run implements scheduler.Runner.
func (n *SetValueNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool {
		v, err := core.ParseValue(n.kind, n.literal)
		if err != nil {
			n.logger.Warn("Cannot parse value", "node_id", n.ID(), "var", n.varName, "error", err.Error())
			cell.Set(core.Failure)
			return true
		}

		bb.Set(n.varName, v)
		cell.Set(core.Success)

		return true
	})
}

// UnsetValueNode removes a blackboard entry. It always succeeds.
type UnsetValueNode struct {
	BaseNode

	varName string
}

// NewUnsetValueNode creates an unset-value node.
func NewUnsetValueNode(deps Dependencies) *UnsetValueNode {
	return &UnsetValueNode{BaseNode: NewBaseNode(TypeUnsetValue, deps.Logger)}
}

// Init parses varName.
func (n *UnsetValueNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var varName string
		if err := bindParams(params, binder{"varName": stringParam(&varName)}); err != nil {
			return err
		}
		if err := requireParam("varName", varName); err != nil {
			return err
		}
		n.varName = varName
		return nil
	})
}

// Run implements scheduler.Runner.
func (n *UnsetValueNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool {
		bb.Delete(n.varName)
		cell.Set(core.Success)
		return true
	})
}
