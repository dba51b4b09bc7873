package table

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
)

// ToJSONRows projects the table into a JSON-compatible row list following
// the safe-serialization rule: absent cells and non-finite numbers become
// empty strings, timestamps are already ISO-8601 (seconds precision) text,
// numeric cells are rendered through shopspring/decimal to avoid float
// round-tripping artifacts, and text cells are forced to valid UTF-8.
func (t *Table) ToJSONRows() []map[string]any {
	n := t.RowCount()
	rows := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			row[c.Name] = jsonCell(c.Values[i], c.Kind)
		}
		rows[i] = row
	}
	return rows
}

// jsonCell renders a single cty cell per the safe-serialization rule.
func jsonCell(v cty.Value, kind ElementKind) any {
	if IsAbsent(v) {
		return ""
	}
	switch kind {
	case KindInteger, KindReal:
		f, ok := AsFloat(v)
		if !ok {
			return ""
		}
		return decimal.NewFromFloat(f)
	case KindBoolean:
		b, _ := AsBool(v)
		return b
	default:
		s, _ := AsString(v)
		return strings.ToValidUTF8(s, "�")
	}
}
