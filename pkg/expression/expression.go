package expression

import "sync"

// Context is the evaluation environment for one expression: the current
// row's columns, plus the ambient scalar table addressed by @name.
type Context struct {
	Row     map[string]interface{}
	Ambient map[string]interface{}
}

var (
	globalEngine *ExprEngine
	engineOnce   sync.Once
)

func getEngine() *ExprEngine {
	engineOnce.Do(func() {
		globalEngine = NewExprEngine()
	})
	return globalEngine
}

// EvaluateBoolean evaluates expression against ctx and returns a boolean
// result, used for transform's row filter.
func EvaluateBoolean(expression string, ctx *Context) (bool, error) {
	return getEngine().EvaluateBoolean(expression, ctx)
}

// EvaluateValue evaluates expression against ctx and returns its native
// result, used for transform's computed columns.
func EvaluateValue(expression string, ctx *Context) (interface{}, error) {
	return getEngine().EvaluateValue(expression, ctx)
}
