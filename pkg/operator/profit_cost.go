package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// ProfitCostOperator groups a cost-of-goods detail table by category,
// summing its amount column into the profit statement's cost section.
type ProfitCostOperator struct{}

func (ProfitCostOperator) Kind() types.OperatorKind { return types.OperatorProfitCost }

func (ProfitCostOperator) Validate(node types.Node) error {
	var cfg profitGroupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.CategoryColumn == "" || cfg.AmountColumn == "" {
		return NewError(CategoryConfigMissing, "profit_cost requires category_column and amount_column").WithNode(node.ID)
	}
	return nil
}

func (ProfitCostOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	return runProfitGroup(node, inputs, "profit_cost")
}
