package table

import (
	"fmt"
	"sort"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Select projects the table down to the named columns, in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrColumnNotFound, name, t.ColumnNames())
		}
		cols[i] = c
	}
	out := &Table{columns: cols, times: make(map[string][]time.Time)}
	for _, name := range names {
		if tv, ok := t.times[name]; ok {
			out.times[name] = tv
		}
	}
	return out, nil
}

// Drop removes the named columns, ignoring names that do not exist.
func (t *Table) Drop(names []string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var cols []Column
	for _, c := range t.columns {
		if !drop[c.Name] {
			cols = append(cols, c)
		}
	}
	out := &Table{columns: cols, times: make(map[string][]time.Time)}
	for k, v := range t.times {
		if !drop[k] {
			out.times[k] = v
		}
	}
	return out
}

// Rename returns a copy with columns renamed per mapping (old -> new).
// Names absent from mapping are left unchanged.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		name := c.Name
		if nn, ok := mapping[name]; ok {
			name = nn
		}
		cols[i] = Column{Name: name, Kind: c.Kind, Values: c.Values}
	}
	times := make(map[string][]time.Time, len(t.times))
	for k, v := range t.times {
		name := k
		if nn, ok := mapping[k]; ok {
			name = nn
		}
		times[name] = v
	}
	return &Table{columns: cols, times: times}
}

// AddColumn appends a new column, failing if one with the same name exists
// or its length does not match the table's row count.
func (t *Table) AddColumn(col Column) (*Table, error) {
	if t.HasColumn(col.Name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnExists, col.Name)
	}
	if t.RowCount() > 0 && len(col.Values) != t.RowCount() {
		return nil, fmt.Errorf("%w: column %q has %d rows, table has %d", ErrLengthMismatch, col.Name, len(col.Values), t.RowCount())
	}
	out := t.Clone()
	out.columns = append(out.columns, col)
	return out, nil
}

// ReplaceColumn swaps out a column's values in place (by name), used by
// operators that rewrite a column (e.g. type_convert, date offsets).
func (t *Table) ReplaceColumn(col Column) (*Table, error) {
	i, ok := t.ColumnIndex(col.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col.Name)
	}
	out := t.Clone()
	out.columns[i] = col
	return out, nil
}

// FilterMask returns a new table retaining only rows where keep[i] is true.
func (t *Table) FilterMask(keep []bool) *Table {
	out := &Table{times: make(map[string][]time.Time)}
	for _, c := range t.columns {
		vals := make([]cty.Value, 0, len(c.Values))
		for i, v := range c.Values {
			if i < len(keep) && keep[i] {
				vals = append(vals, v)
			}
		}
		out.columns = append(out.columns, Column{Name: c.Name, Kind: c.Kind, Values: vals})
	}
	for name, times := range t.times {
		kept := make([]time.Time, 0, len(times))
		for i, tv := range times {
			if i < len(keep) && keep[i] {
				kept = append(kept, tv)
			}
		}
		out.times[name] = kept
	}
	return out
}

// SortBy orders rows by a single column. Absent values sort last regardless
// of direction.
func (t *Table) SortBy(column string, ascending bool) (*Table, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	n := t.RowCount()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	col := t.columns[idx]
	less := func(a, b int) bool {
		va, vb := col.Values[a], col.Values[b]
		aAbsent, bAbsent := IsAbsent(va), IsAbsent(vb)
		if aAbsent != bAbsent {
			return !aAbsent // non-absent sorts before absent
		}
		if aAbsent && bAbsent {
			return false
		}
		cmp := compareValues(va, vb, col.Kind)
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	sort.SliceStable(order, less)
	return t.reorder(order), nil
}

// compareValues returns -1/0/1 comparing two same-kind cty values.
func compareValues(a, b cty.Value, kind ElementKind) int {
	switch kind {
	case KindInteger, KindReal:
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case KindBoolean:
		ab, _ := AsBool(a)
		bb, _ := AsBool(b)
		switch {
		case !ab && bb:
			return -1
		case ab && !bb:
			return 1
		default:
			return 0
		}
	default:
		as, _ := AsString(a)
		bs, _ := AsString(b)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
}

// reorder builds a new table with rows permuted per order.
func (t *Table) reorder(order []int) *Table {
	out := &Table{times: make(map[string][]time.Time)}
	for _, c := range t.columns {
		vals := make([]cty.Value, len(order))
		for i, o := range order {
			vals[i] = c.Values[o]
		}
		out.columns = append(out.columns, Column{Name: c.Name, Kind: c.Kind, Values: vals})
	}
	for name, times := range t.times {
		reordered := make([]time.Time, len(order))
		for i, o := range order {
			reordered[i] = times[o]
		}
		out.times[name] = reordered
	}
	return out
}

// SortByMulti orders rows by multiple columns, all ascending, in priority
// order.
func (t *Table) SortByMulti(columns []string) (*Table, error) {
	idxs := make([]int, len(columns))
	kinds := make([]ElementKind, len(columns))
	for i, name := range columns {
		idx, ok := t.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		idxs[i] = idx
		kinds[i] = t.columns[idx].Kind
	}
	n := t.RowCount()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for k, idx := range idxs {
			va, vb := t.columns[idx].Values[order[a]], t.columns[idx].Values[order[b]]
			aAbsent, bAbsent := IsAbsent(va), IsAbsent(vb)
			if aAbsent != bAbsent {
				return !aAbsent
			}
			if aAbsent && bAbsent {
				continue
			}
			cmp := compareValues(va, vb, kinds[k])
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return t.reorder(order), nil
}

// ToRowMaps projects the table to a slice of native-Go-valued maps, used as
// the evaluation environment for filter/computed-column expressions.
func (t *Table) ToRowMaps() []map[string]any {
	n := t.RowCount()
	rows := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		row := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			row[c.Name] = toNative(c.Values[i], c.Kind)
		}
		rows[i] = row
	}
	return rows
}

// toNative converts a single cell to the closest native Go scalar.
func toNative(v cty.Value, kind ElementKind) any {
	if IsAbsent(v) {
		return nil
	}
	switch kind {
	case KindInteger:
		i, _ := AsInt(v)
		return i
	case KindReal:
		f, _ := AsFloat(v)
		return f
	case KindBoolean:
		b, _ := AsBool(v)
		return b
	default:
		s, _ := AsString(v)
		return s
	}
}
