package table

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// AggFunc is a group_aggregate aggregation function.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggMax   AggFunc = "max"
	AggMin   AggFunc = "min"
	AggCount AggFunc = "count"
	AggFirst AggFunc = "first"
	AggLast  AggFunc = "last"
)

// Aggregation is one {column, func, alias} entry of a group_aggregate spec.
type Aggregation struct {
	Column string
	Func   AggFunc
	Alias  string
}

// GroupAggregate groups rows by keys and computes aggs over each group,
// emitting one output row per distinct key combination in first-encounter
// order. Key columns retain their original element kind; aggregate columns
// are real-valued except count (integer), first/last (the source column's
// kind).
func (t *Table) GroupAggregate(keys []string, aggs []Aggregation) (*Table, error) {
	for _, k := range keys {
		if !t.HasColumn(k) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, k)
		}
	}
	for _, a := range aggs {
		if a.Func == AggCount {
			continue // count doesn't require a real column in the reference tool (count of group)
		}
		if !t.HasColumn(a.Column) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, a.Column)
		}
	}

	n := t.RowCount()
	var order []string
	groups := make(map[string][]int)
	for i := 0; i < n; i++ {
		key := groupKey(t, keys, i)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	keyCols := make([][]cty.Value, len(keys))
	for ki := range keys {
		keyCols[ki] = make([]cty.Value, len(order))
	}
	aggCols := make([][]cty.Value, len(aggs))
	aggKinds := make([]ElementKind, len(aggs))
	for ai, a := range aggs {
		aggCols[ai] = make([]cty.Value, len(order))
		aggKinds[ai] = aggResultKind(t, a)
	}

	for gi, key := range order {
		rows := groups[key]
		for ki, k := range keys {
			col, _ := t.Column(k)
			keyCols[ki][gi] = col.Values[rows[0]]
		}
		for ai, a := range aggs {
			aggCols[ai][gi] = computeAgg(t, a, rows)
		}
	}

	cols := make([]Column, 0, len(keys)+len(aggs))
	for ki, k := range keys {
		kind, _ := t.Kind(k)
		cols = append(cols, Column{Name: k, Kind: kind, Values: keyCols[ki]})
	}
	for ai, a := range aggs {
		name := a.Alias
		if name == "" {
			name = fmt.Sprintf("%s_%s", a.Column, a.Func)
		}
		cols = append(cols, Column{Name: name, Kind: aggKinds[ai], Values: aggCols[ai]})
	}
	return New(cols...)
}

func groupKey(t *Table, keys []string, row int) string {
	key := ""
	for _, k := range keys {
		c, _ := t.Column(k)
		key += "\x1f" + NormalizeKey(c.Values[row])
	}
	return key
}

func aggResultKind(t *Table, a Aggregation) ElementKind {
	switch a.Func {
	case AggCount:
		return KindInteger
	case AggFirst, AggLast:
		if k, ok := t.Kind(a.Column); ok {
			return k
		}
		return KindUnknown
	default:
		return KindReal
	}
}

func computeAgg(t *Table, a Aggregation, rows []int) cty.Value {
	if a.Func == AggCount {
		return IntVal(int64(len(rows)))
	}
	col, ok := t.Column(a.Column)
	if !ok {
		return cty.NilVal
	}
	switch a.Func {
	case AggFirst:
		return col.Values[rows[0]]
	case AggLast:
		return col.Values[rows[len(rows)-1]]
	case AggSum:
		sum := 0.0
		for _, r := range rows {
			if f, ok := AsFloat(col.Values[r]); ok {
				sum += f
			}
		}
		return RealVal(sum)
	case AggMean:
		sum, n := 0.0, 0
		for _, r := range rows {
			if f, ok := AsFloat(col.Values[r]); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return Absent(KindReal)
		}
		return RealVal(sum / float64(n))
	case AggMax:
		var max float64
		found := false
		for _, r := range rows {
			if f, ok := AsFloat(col.Values[r]); ok {
				if !found || f > max {
					max = f
					found = true
				}
			}
		}
		if !found {
			return Absent(KindReal)
		}
		return RealVal(max)
	case AggMin:
		var min float64
		found := false
		for _, r := range rows {
			if f, ok := AsFloat(col.Values[r]); ok {
				if !found || f < min {
					min = f
					found = true
				}
			}
		}
		if !found {
			return Absent(KindReal)
		}
		return RealVal(min)
	default:
		return cty.NilVal
	}
}

// SumBy is the single-amount-column grouped sum used by the reconcile
// operator: group by keys, sum amountColumn, rename the sum column to
// resultAlias.
func (t *Table) SumBy(keys []string, amountColumn, resultAlias string) (*Table, error) {
	return t.GroupAggregate(keys, []Aggregation{{Column: amountColumn, Func: AggSum, Alias: resultAlias}})
}
