package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type codeExpr struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

type codeConfig struct {
	Expressions []codeExpr `json:"expressions"`
}

// CodeOperator is the engine's escape hatch for logic transform's small
// built-in vocabulary can't express: a list of named formulas evaluated
// against every row, each producing one output column. Unlike transform's
// computed columns, a formula that fails to evaluate fails the whole
// operator (CategoryCodeBadOutput) rather than being silently dropped —
// there is no declarative fallback shape for user-authored logic to fall
// back to.
type CodeOperator struct{}

func (CodeOperator) Kind() types.OperatorKind { return types.OperatorCode }

func (CodeOperator) Validate(node types.Node) error {
	var cfg codeConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.Expressions) == 0 {
		return NewError(CategoryConfigMissing, "code requires at least one expression").WithNode(node.ID)
	}
	return nil
}

func (CodeOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "code requires one input").WithNode(node.ID)
	}
	var cfg codeConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]
	for _, e := range cfg.Expressions {
		withCol, err := applyComputedColumn(t, computedColumn{Name: e.Name, Formula: e.Formula}, ctx.Ambient())
		if err != nil {
			return nil, NewError(CategoryCodeBadOutput, "code: expression %q failed: %s", e.Name, err).WithNode(node.ID)
		}
		t = withCol
	}
	return t, nil
}
