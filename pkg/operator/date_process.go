package operator

import (
	"regexp"
	"strconv"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type dateProcessConfig struct {
	Column       string `json:"column"`
	Extract      string `json:"extract,omitempty"`
	Offset       string `json:"offset,omitempty"`
	OffsetColumn string `json:"offset_column,omitempty"`
}

var offsetPattern = regexp.MustCompile(`^([+-]?\d+)([dMy])$`)

var extractSuffix = map[string]string{
	"year":    "_年",
	"month":   "_月",
	"day":     "_日",
	"weekday": "_周几",
	"quarter": "_季度",
}

// DateProcessOperator coerces a column to timestamps (if it isn't already
// one), then optionally appends an extracted calendar field and/or an
// offset timestamp column.
type DateProcessOperator struct{}

func (DateProcessOperator) Kind() types.OperatorKind { return types.OperatorDateProcess }

func (DateProcessOperator) Validate(node types.Node) error {
	var cfg dateProcessConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.Column == "" {
		return NewError(CategoryConfigMissing, "date_process requires column").WithNode(node.ID)
	}
	if cfg.Extract != "" {
		if _, ok := extractSuffix[cfg.Extract]; !ok {
			return NewError(CategoryConfigMissing, "date_process: unknown extract %q", cfg.Extract).WithNode(node.ID)
		}
	}
	if cfg.Offset != "" && !offsetPattern.MatchString(cfg.Offset) {
		return NewError(CategoryConfigMissing, "date_process: invalid offset %q", cfg.Offset).WithNode(node.ID)
	}
	return nil
}

func (DateProcessOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "date_process requires one input").WithNode(node.ID)
	}
	var cfg dateProcessConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	t := inputs[0]
	if !t.HasColumn(cfg.Column) {
		return nil, NewError(CategoryColumnMissing, "date_process: column %q not found", cfg.Column).WithNode(node.ID)
	}

	kind, _ := t.Kind(cfg.Column)
	if kind != table.KindTimestamp && kind != table.KindDate {
		coerced, err := t.Coerce(cfg.Column, table.KindTimestamp)
		if err != nil {
			return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
		}
		t = coerced
	}
	times, _ := t.Times(cfg.Column)

	if cfg.Extract != "" {
		values := make([]cty.Value, len(times))
		for i, ts := range times {
			if ts.IsZero() {
				values[i] = table.Absent(table.KindInteger)
				continue
			}
			values[i] = table.IntVal(int64(extractField(cfg.Extract, ts)))
		}
		added, err := t.AddColumn(table.Column{Name: cfg.Column + extractSuffix[cfg.Extract], Kind: table.KindInteger, Values: values})
		if err != nil {
			return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
		}
		t = added
	}

	if cfg.Offset != "" {
		m := offsetPattern.FindStringSubmatch(cfg.Offset)
		n, _ := strconv.Atoi(m[1])
		unit := m[2]

		values := make([]cty.Value, len(times))
		offsetTimes := make([]time.Time, len(times))
		for i, ts := range times {
			if ts.IsZero() {
				values[i] = table.Absent(table.KindTimestamp)
				continue
			}
			shifted := applyOffset(ts, n, unit)
			offsetTimes[i] = shifted
			values[i] = table.TimestampVal(shifted)
		}
		name := cfg.OffsetColumn
		if name == "" {
			name = cfg.Column + "_offset"
		}
		added, err := t.AddColumn(table.Column{Name: name, Kind: table.KindTimestamp, Values: values})
		if err != nil {
			return nil, NewError(CategoryInternal, "%s", err).WithNode(node.ID)
		}
		added.WithTimes(name, offsetTimes)
		t = added
	}

	return t, nil
}

func extractField(extract string, ts time.Time) int {
	switch extract {
	case "year":
		return ts.Year()
	case "month":
		return int(ts.Month())
	case "day":
		return ts.Day()
	case "weekday":
		return int(ts.Weekday()+6)%7 + 1
	case "quarter":
		return (int(ts.Month())-1)/3 + 1
	default:
		return 0
	}
}

func applyOffset(ts time.Time, n int, unit string) time.Time {
	switch unit {
	case "d":
		return ts.AddDate(0, 0, n)
	case "M":
		return ts.AddDate(0, n, 0)
	case "y":
		return ts.AddDate(n, 0, 0)
	default:
		return ts
	}
}
