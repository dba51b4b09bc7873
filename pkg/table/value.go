package table

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// ctyType returns the cty.Type backing an ElementKind's values. Timestamp
// and date columns are carried as cty.String (see Table.times for the
// parallel time.Time side-table); unknown columns are left dynamically
// typed so a column of mixed-kind values can still be represented.
func ctyType(kind ElementKind) cty.Type {
	switch kind {
	case KindInteger, KindReal:
		return cty.Number
	case KindBoolean:
		return cty.Bool
	case KindText, KindTimestamp, KindDate:
		return cty.String
	default:
		return cty.DynamicPseudoType
	}
}

// Absent returns the null value representing a missing cell for kind.
func Absent(kind ElementKind) cty.Value {
	return cty.NullVal(ctyType(kind))
}

// IsAbsent reports whether v represents a missing cell.
func IsAbsent(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// IntVal wraps an int64 as a cty number value.
func IntVal(n int64) cty.Value {
	return cty.NumberIntVal(n)
}

// RealVal wraps a float64 as a cty number value. NaN and infinities are
// stored as absent since cty.Number cannot represent them.
func RealVal(f float64) cty.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Absent(KindReal)
	}
	return cty.NumberFloatVal(f)
}

// TextVal wraps a string as a cty text value.
func TextVal(s string) cty.Value {
	return cty.StringVal(s)
}

// BoolVal wraps a bool as a cty boolean value.
func BoolVal(b bool) cty.Value {
	return cty.BoolVal(b)
}

// TimestampVal renders t as an ISO-8601 string cell (seconds precision, per
// the safe-serialization rule). Pair with Table.WithTimes to keep the
// parallel time.Time available for arithmetic and sorting.
func TimestampVal(t time.Time) cty.Value {
	return cty.StringVal(t.UTC().Format("2006-01-02T15:04:05Z"))
}

// AsFloat extracts a float64 from a cty number value. Returns (0, false)
// for non-numbers or absent cells.
func AsFloat(v cty.Value) (float64, bool) {
	if IsAbsent(v) || v.Type() != cty.Number {
		return 0, false
	}
	bf := v.AsBigFloat()
	f, _ := bf.Float64()
	return f, true
}

// AsInt extracts an int64 from a cty number value, truncating toward zero.
func AsInt(v cty.Value) (int64, bool) {
	f, ok := AsFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// AsString extracts a string representation of any scalar cell, the way the
// engine's join/vlookup/reconcile key-normalization rule requires: integer
// and text keys with the same string form compare equal.
func AsString(v cty.Value) (string, bool) {
	if IsAbsent(v) {
		return "", false
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), true
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String(), true
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case cty.Bool:
		return strconv.FormatBool(v.True()), true
	default:
		return "", false
	}
}

// AsBool extracts a bool from a cty boolean value.
func AsBool(v cty.Value) (bool, bool) {
	if IsAbsent(v) || v.Type() != cty.Bool {
		return false, false
	}
	return v.True(), true
}

// NormalizeKey renders the string form used for join/vlookup/reconcile key
// comparison: absent becomes "", everything else goes through AsString.
func NormalizeKey(v cty.Value) string {
	s, ok := AsString(v)
	if !ok {
		return ""
	}
	return s
}

// bigFloatValue is a convenience for building cty.Number from *big.Float.
// Nothing in the package calls it; aggregation sums accumulate in float64.
func bigFloatValue(f *big.Float) cty.Value {
	return cty.NumberVal(f)
}
