package node

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hupe1980/agenttree/core"
	"github.com/hupe1980/agenttree/scheduler"
)

// ExpressionNode evaluates a boolean expression over the blackboard. Every
// blackboard key is visible as a variable; unknown variables evaluate to nil.
// The node succeeds if the expression yields true and fails on false or on
// an evaluation error.
type ExpressionNode struct {
	BaseNode

	source  string
	program *vm.Program
}

// NewExpressionNode creates an expression node.
func NewExpressionNode(deps Dependencies) *ExpressionNode {
	return &ExpressionNode{BaseNode: NewBaseNode(TypeExpression, deps.Logger)}
}

// Init compiles the expression parameter.
func (n *ExpressionNode) Init(id int, params []core.Parameter) error {
	return n.initialize(id, func() error {
		var source string
		if err := bindParams(params, binder{"expression": stringParam(&source)}); err != nil {
			return err
		}
		if err := requireParam("expression", source); err != nil {
			return err
		}

		program, err := expr.Compile(source,
			expr.Env(map[string]any{}),
			expr.AsBool(),
			expr.AllowUndefinedVariables(),
		)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidParameter, "expression", err)
		}

		n.source, n.program = source, program

		return nil
	})
}

// Run implements scheduler.Runner.
func (n *ExpressionNode) Run(bb *core.Blackboard, cell *core.ResultCell) scheduler.Computation {
	return n.computation(cell, func(func(scheduler.Instruction) bool) bool {
		snapshot := bb.Snapshot()
		env := make(map[string]any, len(snapshot))
		for k, v := range snapshot {
			env[k] = v.Interface()
		}

		out, err := expr.Run(n.program, env)
		if err != nil {
			n.logger.Warn("Expression evaluation failed", "node_id", n.ID(), "expression", n.source, "error", err.Error())
			cell.Set(core.Failure)
			return true
		}

		if ok, _ := out.(bool); ok {
			cell.Set(core.Success)
		} else {
			cell.Set(core.Failure)
		}

		return true
	})
}
