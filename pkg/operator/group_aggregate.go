package operator

import (
	"fmt"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type aggregationConfig struct {
	Column string `json:"column"`
	Func   string `json:"func"`
	Alias  string `json:"alias,omitempty"`
}

type groupAggregateConfig struct {
	GroupBy      []string            `json:"group_by"`
	Aggregations []aggregationConfig `json:"aggregations,omitempty"`
}

// GroupAggregateOperator groups rows by group_by and computes one or more
// aggregations. With no aggregations configured it falls back to summing
// every other column, the way the reference tool's groupby(...).sum()
// default does.
type GroupAggregateOperator struct{}

func (GroupAggregateOperator) Kind() types.OperatorKind { return types.OperatorGroupAggregate }

func (GroupAggregateOperator) Validate(node types.Node) error {
	var cfg groupAggregateConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.GroupBy) == 0 {
		return NewError(CategoryConfigMissing, "group_aggregate requires group_by").WithNode(node.ID)
	}
	return nil
}

func (GroupAggregateOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "group_aggregate requires one input").WithNode(node.ID)
	}
	var cfg groupAggregateConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]

	aggs := cfg.Aggregations
	if len(aggs) == 0 {
		groupSet := make(map[string]bool, len(cfg.GroupBy))
		for _, g := range cfg.GroupBy {
			groupSet[g] = true
		}
		for _, name := range t.ColumnNames() {
			if groupSet[name] {
				continue
			}
			aggs = append(aggs, aggregationConfig{Column: name, Func: "sum"})
		}
	}

	tableAggs := make([]table.Aggregation, len(aggs))
	for i, a := range aggs {
		fn, ok := aggFunc(a.Func)
		if !ok {
			return nil, NewError(CategoryConfigMissing, "group_aggregate: unknown func %q", a.Func).WithNode(node.ID)
		}
		alias := a.Alias
		if alias == "" {
			alias = fmt.Sprintf("%s_%s", a.Column, a.Func)
		}
		tableAggs[i] = table.Aggregation{Column: a.Column, Func: fn, Alias: alias}
	}

	out, err := t.GroupAggregate(cfg.GroupBy, tableAggs)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}

func aggFunc(name string) (table.AggFunc, bool) {
	switch name {
	case "sum":
		return table.AggSum, true
	case "mean":
		return table.AggMean, true
	case "max":
		return table.AggMax, true
	case "min":
		return table.AggMin, true
	case "count":
		return table.AggCount, true
	case "first":
		return table.AggFirst, true
	case "last":
		return table.AggLast, true
	default:
		return "", false
	}
}
