package node

import (
	"fmt"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
	"github.com/hupe1980/agenttree/sensing"
)

// DefaultSensedVar is the blackboard key SensorStore writes to by default.
const DefaultSensedVar = "lastSensed_"

// sensorQuery selects either one named sensor or every sensor of a sense.
type sensorQuery struct {
	sensorName string
	checkAll   bool
	sense      sensing.Sense
}

func (q *sensorQuery) binder(extra binder) (binder, *string) {
	var sense string
	b := binder{
		"sensorName": stringParam(&q.sensorName),
		"checkAll":   boolParam(&q.checkAll),
		"sense":      stringParam(&sense),
	}
	for k, v := range extra {
		b[k] = v
	}
	return b, &sense
}

// validate checks the query after binding. The sense is only required (and
// only parsed) when every sensor of a category is queried.
func (q *sensorQuery) validate(sense string) error {
	if !q.checkAll {
		return requireParam("sensorName", q.sensorName)
	}

	if err := requireParam("sense", sense); err != nil {
		return err
	}

	s, err := sensing.ParseSense(sense)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidParameter, "sense", err)
	}
	q.sense = s

	return nil
}

// SensorCheckNode succeeds if any queried sensor detects something. With
// invertResult the outcome is inverted, so an empty category succeeds. A
// missing named sensor always fails.
type SensorCheckNode struct {
	BaseNode

	sensing Sensing
	query   sensorQuery
	invert  bool
}

// NewSensorCheckNode creates a sensor-check node.
func NewSensorCheckNode(deps Dependencies) *SensorCheckNode {
	return &SensorCheckNode{BaseNode: NewBaseNode(TypeSensorCheck, deps.Logger), sensing: deps.Sensing}
}

// Init parses sensorName, checkAll, sense and invertResult.
func (n *SensorCheckNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var (
			q      sensorQuery
			invert bool
		)

		b, sense := q.binder(binder{"invertResult": boolParam(&invert)})
		if err := bindParams(params, b); err != nil {
			return err
		}
		if err := q.validate(*sense); err != nil {
			return err
		}

		n.query, n.invert = q, invert

		return nil
	})
}

// Run implements scheduler.Runner. In category mode each sensor is checked
// in its own tick.
func (n *SensorCheckNode) Run(_ *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		if n.sensing == nil {
			n.logger.Warn("No sensing capability configured", "node_id", n.ID())
			cell.Set(core.Failure)
			return true
		}

		detected := false

		if n.query.checkAll {
			for i, s := range n.sensing.All(n.query.sense) {
				if i > 0 && !yield(scheduler.Continue{}) {
					return false
				}
				if n.sensing.Check(s) {
					detected = true
				}
			}
		} else {
			s, ok := n.sensing.Find(n.query.sensorName)
			if !ok {
				n.logger.Debug("Sensor not found", "node_id", n.ID(), "sensor", n.query.sensorName)
				cell.Set(core.Failure)
				return true
			}
			detected = n.sensing.Check(s)
		}

		if detected != n.invert {
			cell.Set(core.Success)
		} else {
			cell.Set(core.Failure)
		}

		return true
	})
}

// SensorStoreNode stores what the queried sensors sensed in their most
// recent check as a list on the blackboard.
type SensorStoreNode struct {
	BaseNode

	sensing Sensing
	query   sensorQuery
	varName string
}

// NewSensorStoreNode creates a sensor-store node.
func NewSensorStoreNode(deps Dependencies) *SensorStoreNode {
	return &SensorStoreNode{BaseNode: NewBaseNode(TypeSensorStore, deps.Logger), sensing: deps.Sensing}
}

// Init parses sensorName, checkAll, sense and varName.
func (n *SensorStoreNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var q sensorQuery
		varName := DefaultSensedVar

		b, sense := q.binder(binder{"varName": stringParam(&varName)})
		if err := bindParams(params, b); err != nil {
			return err
		}
		if err := q.validate(*sense); err != nil {
			return err
		}
		if err := requireParam("varName", varName); err != nil {
			return err
		}

		n.query, n.varName = q, varName

		return nil
	})
}

// Run implements scheduler.Runner.
func (n *SensorStoreNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(yield func(scheduler.Instruction) bool) bool {
		if n.sensing == nil {
			n.logger.Warn("No sensing capability configured", "node_id", n.ID())
			cell.Set(core.Failure)
			return true
		}

		var sensed []core.Handle

		if n.query.checkAll {
			for i, s := range n.sensing.All(n.query.sense) {
				if i > 0 && !yield(scheduler.Continue{}) {
					return false
				}
				sensed = append(sensed, n.sensing.LastSensed(s)...)
			}
		} else {
			s, ok := n.sensing.Find(n.query.sensorName)
			if !ok {
				n.logger.Debug("Sensor not found", "node_id", n.ID(), "sensor", n.query.sensorName)
				cell.Set(core.Failure)
				return true
			}
			sensed = n.sensing.LastSensed(s)
		}

		bb.Set(n.varName, core.List(sensed...))
		cell.Set(core.Success)

		return true
	})
}
