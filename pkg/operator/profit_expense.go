package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// ProfitExpenseOperator groups an operating-expense detail table by
// category, summing its amount column into the profit statement's
// expense section.
type ProfitExpenseOperator struct{}

func (ProfitExpenseOperator) Kind() types.OperatorKind { return types.OperatorProfitExpense }

func (ProfitExpenseOperator) Validate(node types.Node) error {
	var cfg profitGroupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.CategoryColumn == "" || cfg.AmountColumn == "" {
		return NewError(CategoryConfigMissing, "profit_expense requires category_column and amount_column").WithNode(node.ID)
	}
	return nil
}

func (ProfitExpenseOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	return runProfitGroup(node, inputs, "profit_expense")
}
