package operator

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/expression"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// computedColumn is one transform-node computed column: name bound to the
// result of evaluating formula against each row.
type computedColumn struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

type transformConfig struct {
	Filter          string            `json:"filter,omitempty"`
	DropColumns     []string          `json:"drop_columns,omitempty"`
	ComputedColumns []computedColumn  `json:"computed_columns,omitempty"`
	Rename          map[string]string `json:"rename,omitempty"`
	Columns         []string          `json:"columns,omitempty"`
	SortBy          string            `json:"sort_by,omitempty"`
	SortAscending   *bool             `json:"sort_ascending,omitempty"`
}

// TransformOperator applies the engine's general-purpose row/column
// reshaping step: a filter expression, dropped columns, formula-derived
// computed columns, a rename, a column selection, and a single-column
// sort, applied in that order.
type TransformOperator struct{}

func (TransformOperator) Kind() types.OperatorKind { return types.OperatorTransform }

func (TransformOperator) Validate(node types.Node) error {
	var cfg transformConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (TransformOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "transform requires one input").WithNode(node.ID)
	}
	var cfg transformConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]

	if cfg.Filter != "" {
		filtered, err := applyFilter(t, cfg.Filter, ctx.Ambient())
		if err != nil {
			return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
		}
		t = filtered
	}

	if len(cfg.DropColumns) > 0 {
		t = t.Drop(cfg.DropColumns)
	}

	for _, cc := range cfg.ComputedColumns {
		withCol, err := applyComputedColumn(t, cc, ctx.Ambient())
		if err != nil {
			ctx.Log("transform %s: computed column %q failed: %s, leaving it out", node.ID, cc.Name, err)
			continue
		}
		t = withCol
	}

	if len(cfg.Rename) > 0 {
		t = t.Rename(cfg.Rename)
	}

	if len(cfg.Columns) > 0 {
		selected, err := t.Select(cfg.Columns)
		if err != nil {
			return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
		}
		t = selected
	}

	if cfg.SortBy != "" {
		ascending := true
		if cfg.SortAscending != nil {
			ascending = *cfg.SortAscending
		}
		sorted, err := t.SortBy(cfg.SortBy, ascending)
		if err != nil {
			return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
		}
		t = sorted
	}

	return t, nil
}

// applyFilter evaluates the Excel-shorthand-normalized filter expression
// against every row and keeps the ones that evaluate true.
func applyFilter(t *table.Table, raw string, ambient map[string]interface{}) (*table.Table, error) {
	normalized := expression.NormalizeFilterExpr(raw, t.ColumnNames())
	rows := t.ToRowMaps()
	keep := make([]bool, len(rows))
	for i, row := range rows {
		ok, err := expression.EvaluateBoolean(normalized, &expression.Context{Row: row, Ambient: ambient})
		if err != nil {
			return nil, err
		}
		keep[i] = ok
	}
	return t.FilterMask(keep), nil
}

// applyComputedColumn evaluates cc.Formula against every existing row and
// appends the results as a new column whose kind follows the first
// non-absent value: real for a number, boolean for a bool, text otherwise
// (text also when every value is absent or the table has no rows).
func applyComputedColumn(t *table.Table, cc computedColumn, ambient map[string]interface{}) (*table.Table, error) {
	rows := t.ToRowMaps()
	values := make([]cty.Value, len(rows))
	for i, row := range rows {
		v, err := expression.EvaluateValue(cc.Formula, &expression.Context{Row: row, Ambient: ambient})
		if err != nil {
			return nil, err
		}
		values[i] = nativeToCty(v)
	}
	kind := table.KindText
	if len(values) > 0 {
		kind = inferCellKind(values)
	}
	return t.AddColumn(table.Column{Name: cc.Name, Kind: kind, Values: values})
}

func inferCellKind(values []cty.Value) table.ElementKind {
	for _, v := range values {
		if table.IsAbsent(v) {
			continue
		}
		switch v.Type() {
		case cty.Number:
			return table.KindReal
		case cty.Bool:
			return table.KindBoolean
		default:
			return table.KindText
		}
	}
	return table.KindText
}

func nativeToCty(v interface{}) cty.Value {
	switch n := v.(type) {
	case nil:
		return table.Absent(table.KindText)
	case bool:
		return table.BoolVal(n)
	case int:
		return table.IntVal(int64(n))
	case int64:
		return table.IntVal(n)
	case float64:
		return table.RealVal(n)
	case string:
		return table.TextVal(n)
	default:
		return table.Absent(table.KindText)
	}
}
