package node

import (
	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// GetPositionNode stores the position of a named entity as a Vector3. It
// fails if the entity cannot be found.
type GetPositionNode struct {
	BaseNode

	world      World
	entityName string
	varName    string
}

// NewGetPositionNode creates a get-position node.
func NewGetPositionNode(deps Dependencies) *GetPositionNode {
	return &GetPositionNode{BaseNode: NewBaseNode(TypeGetPosition, deps.Logger), world: deps.World}
}

// Init parses gameObjectName (or entityName) and varName.
func (n *GetPositionNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var entityName, varName string

		err := bindParams(params, binder{
			"gameObjectName": stringParam(&entityName),
			"entityName":     stringParam(&entityName),
			"varName":        stringParam(&varName),
		})
		if err != nil {
			return err
		}

		if err := requireParam("gameObjectName", entityName); err != nil {
			return err
		}
		if err := requireParam("varName", varName); err != nil {
			return err
		}

		n.entityName, n.varName = entityName, varName

		return nil
	})
}

// Run implements scheduler.Runner.
func (n *GetPositionNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool {
		if n.world == nil {
			cell.Set(core.Failure)
			return true
		}

		pos, ok := n.world.FindPosition(n.entityName)
		if !ok {
			n.logger.Debug("Entity not found", "node_id", n.ID(), "entity", n.entityName)
			cell.Set(core.Failure)
			return true
		}

		bb.Set(n.varName, core.Vector3(pos))
		cell.Set(core.Success)

		return true
	})
}
