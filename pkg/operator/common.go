package operator

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/fieldflow/gridflow/pkg/table"
)

// buildTableFromRows infers a column type per header the way a reader that
// never saw an explicit schema would: if every non-empty cell in a column
// parses as an integer, the column is integer; else if every non-empty
// cell parses as a float, the column is real; otherwise it's text. An
// empty cell is absent regardless of the column's inferred kind.
func buildTableFromRows(header []string, rows [][]string) (*table.Table, error) {
	columns := make([]table.Column, len(header))
	for i, name := range header {
		kind := inferColumnKind(rows, i)
		col := table.Column{Name: name, Kind: kind, Values: make([]cty.Value, len(rows))}
		for r, row := range rows {
			var raw string
			if i < len(row) {
				raw = row[i]
			}
			col.Values[r] = cellValue(raw, kind)
		}
		columns[i] = col
	}
	return table.New(columns...)
}

func inferColumnKind(rows [][]string, col int) table.ElementKind {
	sawInt, sawReal, sawText := false, false, false
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[col])
		if raw == "" {
			continue
		}
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sawInt = true
			continue
		}
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			sawReal = true
			continue
		}
		sawText = true
	}
	switch {
	case sawText:
		return table.KindText
	case sawReal:
		return table.KindReal
	case sawInt:
		return table.KindInteger
	default:
		return table.KindText
	}
}

func cellValue(raw string, kind table.ElementKind) cty.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return table.Absent(kind)
	}
	switch kind {
	case table.KindInteger:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return table.Absent(kind)
		}
		return table.IntVal(n)
	case table.KindReal:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return table.Absent(kind)
		}
		return table.RealVal(f)
	default:
		return table.TextVal(raw)
	}
}
