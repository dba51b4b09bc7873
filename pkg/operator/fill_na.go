package operator

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type fillNAConfig struct {
	Strategy string   `json:"strategy"`
	Columns  []string `json:"columns,omitempty"`
	Value    any      `json:"value,omitempty"`
}

// FillNAOperator resolves absent cells under one of six strategies:
// drop the row, a fixed fill value, forward/backward fill, or the
// column's mean/median (numeric columns only).
type FillNAOperator struct{}

func (FillNAOperator) Kind() types.OperatorKind { return types.OperatorFillNA }

func (FillNAOperator) Validate(node types.Node) error {
	var cfg fillNAConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	switch table.FillStrategy(cfg.Strategy) {
	case table.FillDrop, table.FillValue, table.FillForward, table.FillBackward, table.FillMean, table.FillMedian:
	default:
		return NewError(CategoryConfigMissing, "fill_na: unknown strategy %q", cfg.Strategy).WithNode(node.ID)
	}
	return nil
}

func (FillNAOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "fill_na requires one input").WithNode(node.ID)
	}
	var cfg fillNAConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]

	switch table.FillStrategy(cfg.Strategy) {
	case table.FillDrop:
		return t.DropAbsent(cfg.Columns), nil
	case table.FillValue:
		return t.FillValueAll(cfg.Columns, fillValueCell(cfg.Value))
	case table.FillForward:
		return t.FillForwardFn(cfg.Columns), nil
	case table.FillBackward:
		return t.FillBackwardFn(cfg.Columns), nil
	case table.FillMean:
		return t.FillMeanFn(cfg.Columns)
	case table.FillMedian:
		return t.FillMedianFn(cfg.Columns)
	default:
		return nil, NewError(CategoryConfigMissing, "fill_na: unknown strategy %q", cfg.Strategy).WithNode(node.ID)
	}
}

func fillValueCell(v any) cty.Value {
	switch n := v.(type) {
	case bool:
		return table.BoolVal(n)
	case float64:
		return table.RealVal(n)
	case string:
		return table.TextVal(n)
	default:
		return table.TextVal("")
	}
}
