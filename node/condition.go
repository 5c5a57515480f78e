package node

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// Comparison is a set of comparison operators, combined with OR.
type Comparison uint8

const (
	EqualTo Comparison = 1 << iota
	GreaterThan
	LessThan
)

var comparisonNames = []struct {
	c    Comparison
	name string
}{
	{EqualTo, "EqualTo"},
	{GreaterThan, "GreaterThan"},
	{LessThan, "LessThan"},
}

// ParseComparison parses one or more operator names separated by '|' or ','.
// Names are case-insensitive.
func ParseComparison(s string) (Comparison, error) {
	var out Comparison

	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		found := false
		for _, cn := range comparisonNames {
			if strings.EqualFold(cn.name, part) {
				out |= cn.c
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown comparison %q", part)
		}
	}

	if out == 0 {
		return 0, fmt.Errorf("empty comparison %q", s)
	}

	return out, nil
}

func (c Comparison) String() string {
	var names []string
	for _, cn := range comparisonNames {
		if c&cn.c != 0 {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, "|")
}

// Holds reports whether any selected operator holds for a and b. Ordering is
// only attempted when both values share an ordered kind.
func (c Comparison) Holds(a, b core.Value) bool {
	if c&EqualTo != 0 && a.Equal(b) {
		return true
	}

	if c&(GreaterThan|LessThan) == 0 {
		return false
	}

	cmp, ok := a.Compare(b)
	if !ok {
		return false
	}

	return (c&GreaterThan != 0 && cmp > 0) || (c&LessThan != 0 && cmp < 0)
}

// ConditionNode compares a blackboard value against a second blackboard
// value or a typed literal.
type ConditionNode struct {
	BaseNode

	varName1   string
	varName2   string
	useValue   bool
	literal    core.Value
	comparison Comparison
}

// NewConditionNode creates a condition node.
func NewConditionNode(deps Dependencies) *ConditionNode {
	return &ConditionNode{BaseNode: NewBaseNode(TypeCondition, deps.Logger)}
}

// Init parses varName1, varName2, useValue, valueType, value and
// comparisonType. EqualTo is always set; each comparisonType adds to it, so
// GreaterThan alone holds for greater or equal.
func (n *ConditionNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var (
			varName1, varName2, valueType, value string
			useValue                             bool
		)
		comparison := EqualTo

		err := bindParams(params, binder{
			"varName1":  stringParam(&varName1),
			"varName2":  stringParam(&varName2),
			"useValue":  boolParam(&useValue),
			"valueType": stringParam(&valueType),
			"value":     stringParam(&value),
			"comparisonType": func(v string) error {
				c, err := ParseComparison(v)
				if err != nil {
					return err
				}
				comparison |= c
				return nil
			},
		})
		if err != nil {
			return err
		}

		if err := requireParam("varName1", varName1); err != nil {
			return err
		}

		var literal core.Value
		if useValue {
			if err := requireParam("valueType", valueType); err != nil {
				return err
			}
			literal, err = core.ParseTypedValue(valueType, value)
			if err != nil {
				return fmt.Errorf("%w %q: %w", ErrInvalidParameter, "value", err)
			}
		} else if err := requireParam("varName2", varName2); err != nil {
			return err
		}

		n.varName1, n.varName2 = varName1, varName2
		n.useValue, n.literal = useValue, literal
		n.comparison = comparison

		return nil
	})
}

// Run implements scheduler.Runner.
func (n *ConditionNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool {
		a, ok := bb.Get(n.varName1)
		if !ok {
			cell.Set(core.Failure)
			return true
		}

		b := n.literal
		if !n.useValue {
			if b, ok = bb.Get(n.varName2); !ok {
				cell.Set(core.Failure)
				return true
			}
		}

		if n.comparison.Holds(a, b) {
			cell.Set(core.Success)
		} else {
			cell.Set(core.Failure)
		}

		return true
	})
}
