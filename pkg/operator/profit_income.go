package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// profitGroupConfig is the shared shape of profit_income/profit_cost/
// profit_expense: group a detail table's amount column by category, the
// profit-table family's common "one category, one summed amount" step.
type profitGroupConfig struct {
	CategoryColumn string `json:"category_column"`
	AmountColumn   string `json:"amount_column"`
	CategoryAlias  string `json:"category_alias,omitempty"`
	AmountAlias    string `json:"amount_alias,omitempty"`
}

func (cfg profitGroupConfig) categoryAlias() string {
	if cfg.CategoryAlias != "" {
		return cfg.CategoryAlias
	}
	return "项目"
}

func (cfg profitGroupConfig) amountAlias() string {
	if cfg.AmountAlias != "" {
		return cfg.AmountAlias
	}
	return "金额"
}

func runProfitGroup(node types.Node, inputs []*table.Table, kindName string) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "%s requires one input", kindName).WithNode(node.ID)
	}
	var cfg profitGroupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.CategoryColumn == "" || cfg.AmountColumn == "" {
		return nil, NewError(CategoryConfigMissing, "%s requires category_column and amount_column", kindName).WithNode(node.ID)
	}
	out, err := inputs[0].SumBy([]string{cfg.CategoryColumn}, cfg.AmountColumn, cfg.amountAlias())
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.CategoryColumn != cfg.categoryAlias() {
		out = out.Rename(map[string]string{cfg.CategoryColumn: cfg.categoryAlias()})
	}
	return out, nil
}

// ProfitIncomeOperator groups a revenue detail table by category, summing
// its amount column into the profit statement's income section.
type ProfitIncomeOperator struct{}

func (ProfitIncomeOperator) Kind() types.OperatorKind { return types.OperatorProfitIncome }

func (ProfitIncomeOperator) Validate(node types.Node) error {
	var cfg profitGroupConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.CategoryColumn == "" || cfg.AmountColumn == "" {
		return NewError(CategoryConfigMissing, "profit_income requires category_column and amount_column").WithNode(node.ID)
	}
	return nil
}

func (ProfitIncomeOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	return runProfitGroup(node, inputs, "profit_income")
}
