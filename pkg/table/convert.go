package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// knownTimestampLayouts are tried in order when coercing text to a
// timestamp; covers ISO-8601 and the common date-only form.
var knownTimestampLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Coerce converts a column to dtype, per the engine's to_int/to_real/
// to_text/to_timestamp/to_bool rules: values that fail to parse become
// absent rather than failing the whole operator.
func (t *Table) Coerce(column string, dtype ElementKind) (*Table, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	native := make([]any, len(c.Values))
	for i, v := range c.Values {
		native[i] = toNative(v, c.Kind)
	}

	switch dtype {
	case KindInteger:
		return t.coerceInt(column, native)
	case KindReal:
		return t.coerceReal(column, native)
	case KindText:
		return t.coerceText(column, native)
	case KindBoolean:
		return t.coerceBool(column, native)
	case KindTimestamp:
		return t.coerceTimestamp(column, native)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, dtype)
	}
}

func (t *Table) coerceInt(column string, native []any) (*Table, error) {
	vals := make([]cty.Value, len(native))
	for i, n := range native {
		if i64, ok := coerceOneInt(n); ok {
			vals[i] = IntVal(i64)
		} else {
			vals[i] = Absent(KindInteger)
		}
	}
	return t.ReplaceColumn(Column{Name: column, Kind: KindInteger, Values: vals})
}

func (t *Table) coerceReal(column string, native []any) (*Table, error) {
	vals := make([]cty.Value, len(native))
	for i, n := range native {
		if f, ok := coerceOneReal(n); ok {
			vals[i] = RealVal(f)
		} else {
			vals[i] = Absent(KindReal)
		}
	}
	return t.ReplaceColumn(Column{Name: column, Kind: KindReal, Values: vals})
}

func (t *Table) coerceText(column string, native []any) (*Table, error) {
	vals := make([]cty.Value, len(native))
	for i, n := range native {
		if s, ok := coerceOneText(n); ok {
			vals[i] = TextVal(s)
		} else {
			vals[i] = Absent(KindText)
		}
	}
	return t.ReplaceColumn(Column{Name: column, Kind: KindText, Values: vals})
}

func (t *Table) coerceBool(column string, native []any) (*Table, error) {
	vals := make([]cty.Value, len(native))
	for i, n := range native {
		if b, ok := coerceOneBool(n); ok {
			vals[i] = BoolVal(b)
		} else {
			vals[i] = Absent(KindBoolean)
		}
	}
	return t.ReplaceColumn(Column{Name: column, Kind: KindBoolean, Values: vals})
}

func (t *Table) coerceTimestamp(column string, native []any) (*Table, error) {
	vals := make([]cty.Value, len(native))
	times := make([]time.Time, len(native))
	for i, n := range native {
		ts, ok := parseTimestamp(n)
		if !ok {
			vals[i] = Absent(KindTimestamp)
			continue
		}
		vals[i] = TimestampVal(ts)
		times[i] = ts
	}
	out, err := t.ReplaceColumn(Column{Name: column, Kind: KindTimestamp, Values: vals})
	if err != nil {
		return nil, err
	}
	out.times[column] = times
	return out, nil
}

func coerceOneInt(n any) (int64, bool) {
	switch v := n.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func coerceOneReal(n any) (float64, bool) {
	switch v := n.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func coerceOneText(n any) (string, bool) {
	if n == nil {
		return "", false
	}
	switch v := n.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func coerceOneBool(n any) (bool, bool) {
	switch v := n.(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no", "":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func parseTimestamp(n any) (time.Time, bool) {
	s, ok := n.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range knownTimestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
