package operator

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type profitSummaryConfig struct {
	CategoryColumn string `json:"category_column,omitempty"`
	AmountColumn   string `json:"amount_column,omitempty"`
}

func (cfg profitSummaryConfig) categoryColumn() string {
	if cfg.CategoryColumn != "" {
		return cfg.CategoryColumn
	}
	return "项目"
}

func (cfg profitSummaryConfig) amountColumn() string {
	if cfg.AmountColumn != "" {
		return cfg.AmountColumn
	}
	return "金额"
}

const profitSortColumn = "__profit_section_order__"

// ProfitSummaryOperator assembles the income/cost/expense sections (its
// three inputs, in that order) into one profit statement: each section's
// category rows, a subtotal row per section, and a final "四、利润"
// row equal to income minus cost minus expense.
type ProfitSummaryOperator struct{}

func (ProfitSummaryOperator) Kind() types.OperatorKind { return types.OperatorProfitSummary }

func (ProfitSummaryOperator) Validate(node types.Node) error {
	var cfg profitSummaryConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (ProfitSummaryOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) != 3 {
		return nil, NewError(CategoryArity, "profit_summary requires exactly three inputs (income, cost, expense), got %d", len(inputs)).WithNode(node.ID)
	}
	var cfg profitSummaryConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	category, amount := cfg.categoryColumn(), cfg.amountColumn()

	income, cost, expense := inputs[0], inputs[1], inputs[2]

	var sections []string
	var items []string
	var amounts []float64
	var orders []float64

	incomeTotal, err := appendSection(income, category, amount, "一、收入", 1, &sections, &items, &amounts, &orders)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	costTotal, err := appendSection(cost, category, amount, "二、成本", 2, &sections, &items, &amounts, &orders)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	expenseTotal, err := appendSection(expense, category, amount, "三、费用", 3, &sections, &items, &amounts, &orders)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}

	sections = append(sections, "一、收入")
	items = append(items, "小计")
	amounts = append(amounts, incomeTotal)
	orders = append(orders, 1.5)

	sections = append(sections, "二、成本")
	items = append(items, "小计")
	amounts = append(amounts, costTotal)
	orders = append(orders, 2.5)

	sections = append(sections, "三、费用")
	items = append(items, "小计")
	amounts = append(amounts, expenseTotal)
	orders = append(orders, 3.5)

	sections = append(sections, "四、利润")
	items = append(items, "")
	amounts = append(amounts, incomeTotal-costTotal-expenseTotal)
	orders = append(orders, 4)

	n := len(sections)
	sectionVals := make([]cty.Value, n)
	itemVals := make([]cty.Value, n)
	amountVals := make([]cty.Value, n)
	orderVals := make([]cty.Value, n)
	for i := range sections {
		sectionVals[i] = table.TextVal(sections[i])
		itemVals[i] = table.TextVal(items[i])
		amountVals[i] = table.RealVal(amounts[i])
		orderVals[i] = table.RealVal(orders[i])
	}

	t, err := table.New(
		table.Column{Name: "分类", Kind: table.KindText, Values: sectionVals},
		table.Column{Name: category, Kind: table.KindText, Values: itemVals},
		table.Column{Name: amount, Kind: table.KindReal, Values: amountVals},
		table.Column{Name: profitSortColumn, Kind: table.KindReal, Values: orderVals},
	)
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	sorted, err := t.SortBy(profitSortColumn, true)
	if err != nil {
		return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
	}
	return sorted.Drop([]string{profitSortColumn}), nil
}

func appendSection(t *table.Table, categoryCol, amountCol, label string, order float64, sections, items *[]string, amounts *[]float64, orders *[]float64) (float64, error) {
	catColumn, ok := t.Column(categoryCol)
	if !ok {
		return 0, nil
	}
	amtColumn, ok := t.Column(amountCol)
	if !ok {
		return 0, nil
	}
	var total float64
	for i := 0; i < t.RowCount(); i++ {
		name, _ := table.AsString(catColumn.Values[i])
		f, _ := table.AsFloat(amtColumn.Values[i])
		*sections = append(*sections, label)
		*items = append(*items, name)
		*amounts = append(*amounts, f)
		*orders = append(*orders, order)
		total += f
	}
	return total, nil
}
