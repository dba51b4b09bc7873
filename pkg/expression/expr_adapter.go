package expression

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEngine wraps expr-lang/expr with a compiled-program cache, the way
// the engine's original dialect adapter did, so a filter or computed-column
// formula reused across rows of the same table compiles once.
type ExprEngine struct {
	programCache map[string]*vm.Program
}

// NewExprEngine builds an expression engine with an empty program cache.
func NewExprEngine() *ExprEngine {
	return &ExprEngine{programCache: make(map[string]*vm.Program)}
}

// EvaluateBoolean compiles (or reuses) expression and runs it against ctx,
// requiring a boolean result.
func (e *ExprEngine) EvaluateBoolean(expression string, ctx *Context) (bool, error) {
	converted := convertSyntax(expression)
	env := buildEnvironment(ctx)

	program, ok := e.programCache[converted]
	if !ok {
		var err error
		program, err = expr.Compile(converted, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("expression compilation failed: %w", err)
		}
		e.programCache[converted] = program
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("expression execution failed: %w", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not return a boolean, got %T", output)
	}
	return result, nil
}

// EvaluateValue compiles (or reuses) expression and runs it against ctx,
// returning its native result.
func (e *ExprEngine) EvaluateValue(expression string, ctx *Context) (interface{}, error) {
	converted := convertSyntax(expression)
	env := buildEnvironment(ctx)

	program, ok := e.programCache[converted]
	if !ok {
		var err error
		program, err = expr.Compile(converted, expr.Env(env))
		if err != nil {
			return nil, fmt.Errorf("expression compilation failed: %w", err)
		}
		e.programCache[converted] = program
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("expression execution failed: %w", err)
	}
	return output, nil
}

// buildEnvironment flattens the row's columns to top-level identifiers and
// binds the ambient scalar table under "Ambient" (the target of the
// @name -> Ambient["name"] rewrite in convertAmbientRefs).
func buildEnvironment(ctx *Context) map[string]interface{} {
	env := make(map[string]interface{})
	if ctx == nil {
		env["Ambient"] = map[string]interface{}{}
		return env
	}
	for k, v := range ctx.Row {
		env[k] = v
	}
	if ctx.Ambient != nil {
		env["Ambient"] = ctx.Ambient
	} else {
		env["Ambient"] = map[string]interface{}{}
	}
	return env
}
