package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type pivotConfig struct {
	Index   []string `json:"index"`
	Columns string   `json:"columns"`
	Values  string   `json:"values"`
	AggFunc string   `json:"aggfunc,omitempty"`
}

// PivotOperator reshapes long data to wide: one row per distinct index
// combination, one column per distinct value of the columns field.
type PivotOperator struct{}

func (PivotOperator) Kind() types.OperatorKind { return types.OperatorPivot }

func (PivotOperator) Validate(node types.Node) error {
	var cfg pivotConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.Index) == 0 || cfg.Columns == "" || cfg.Values == "" {
		return NewError(CategoryConfigMissing, "pivot requires index, columns and values").WithNode(node.ID)
	}
	return nil
}

func (PivotOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "pivot requires one input").WithNode(node.ID)
	}
	var cfg pivotConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	fn, ok := aggFunc(cfg.AggFunc)
	if !ok {
		fn = table.AggSum
	}
	out, err := inputs[0].Pivot(cfg.Index, cfg.Columns, cfg.Values, fn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
