package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type profitTableConfig struct {
	Index      []string `json:"index"`
	PeriodColumn string `json:"period_column"`
	ValueColumn  string `json:"value_column"`
	AggFunc      string `json:"aggfunc,omitempty"`
	ColumnOrder  []string `json:"column_order,omitempty"`
}

// ProfitTableOperator reshapes a long profit_summary result (one row per
// category/period) into the wide one-column-per-period profit table a
// reader would recognize, via the same pivot machinery the pivot operator
// uses. column_order, when given, selects and orders the final period
// columns (e.g. a fixed twelve-month template) instead of every distinct
// period value the input happens to contain.
type ProfitTableOperator struct{}

func (ProfitTableOperator) Kind() types.OperatorKind { return types.OperatorProfitTable }

func (ProfitTableOperator) Validate(node types.Node) error {
	var cfg profitTableConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.Index) == 0 || cfg.PeriodColumn == "" || cfg.ValueColumn == "" {
		return NewError(CategoryConfigMissing, "profit_table requires index, period_column and value_column").WithNode(node.ID)
	}
	return nil
}

func (ProfitTableOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "profit_table requires one input").WithNode(node.ID)
	}
	var cfg profitTableConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	fn, ok := aggFunc(cfg.AggFunc)
	if !ok {
		fn = table.AggSum
	}
	wide, err := inputs[0].Pivot(cfg.Index, cfg.PeriodColumn, cfg.ValueColumn, fn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.ColumnOrder) == 0 {
		return wide, nil
	}
	selection := append(append([]string{}, cfg.Index...), cfg.ColumnOrder...)
	out, err := wide.Select(selection)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
