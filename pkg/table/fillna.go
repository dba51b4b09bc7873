package table

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// FillStrategy is the fill_na operator's absent-handling mode.
type FillStrategy string

const (
	FillDrop      FillStrategy = "drop"
	FillValue     FillStrategy = "fill_value"
	FillForward   FillStrategy = "ffill"
	FillBackward  FillStrategy = "bfill"
	FillMean      FillStrategy = "mean"
	FillMedian    FillStrategy = "median"
)

// DropAbsent removes every row that has an absent cell in any of columns
// (all columns if empty).
func (t *Table) DropAbsent(columns []string) *Table {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	keep := make([]bool, t.RowCount())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range cols {
		c, ok := t.Column(name)
		if !ok {
			continue
		}
		for i, v := range c.Values {
			if IsAbsent(v) {
				keep[i] = false
			}
		}
	}
	return t.FilterMask(keep)
}

// FillValueAll replaces every absent cell in columns (all columns if empty)
// with a fixed cty value matching that column's kind. Per the engine's
// categorical-handling rule, there is no closed-domain check here: a text
// column's values are plain strings, so a fill value is never rejected for
// falling outside some pre-existing enumeration.
func (t *Table) FillValueAll(columns []string, value cty.Value) (*Table, error) {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	out := t.Clone()
	for _, name := range cols {
		idx, ok := out.ColumnIndex(name)
		if !ok {
			continue
		}
		for i, v := range out.columns[idx].Values {
			if IsAbsent(v) {
				out.columns[idx].Values[i] = value
			}
		}
	}
	return out, nil
}

// FillForwardFn fills absents with the nearest preceding non-absent value
// in row order.
func (t *Table) FillForwardFn(columns []string) *Table {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	out := t.Clone()
	for _, name := range cols {
		idx, ok := out.ColumnIndex(name)
		if !ok {
			continue
		}
		var last cty.Value
		var haveLast bool
		for i, v := range out.columns[idx].Values {
			if IsAbsent(v) {
				if haveLast {
					out.columns[idx].Values[i] = last
				}
				continue
			}
			last = v
			haveLast = true
		}
	}
	return out
}

// FillBackwardFn fills absents with the nearest following non-absent value.
func (t *Table) FillBackwardFn(columns []string) *Table {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	out := t.Clone()
	for _, name := range cols {
		idx, ok := out.ColumnIndex(name)
		if !ok {
			continue
		}
		var next cty.Value
		var haveNext bool
		vals := out.columns[idx].Values
		for i := len(vals) - 1; i >= 0; i-- {
			if IsAbsent(vals[i]) {
				if haveNext {
					vals[i] = next
				}
				continue
			}
			next = vals[i]
			haveNext = true
		}
	}
	return out
}

// FillMeanFn fills absent cells in numeric columns with the column's mean
// over its non-absent values.
func (t *Table) FillMeanFn(columns []string) (*Table, error) {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	out := t.Clone()
	for _, name := range cols {
		idx, ok := out.ColumnIndex(name)
		if !ok {
			continue
		}
		sum, n := 0.0, 0
		for _, v := range out.columns[idx].Values {
			if f, ok := AsFloat(v); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			continue
		}
		mean := sum / float64(n)
		for i, v := range out.columns[idx].Values {
			if IsAbsent(v) {
				out.columns[idx].Values[i] = RealVal(mean)
			}
		}
	}
	return out, nil
}

// FillMedianFn fills absent cells in numeric columns with the column's
// median over its non-absent values.
func (t *Table) FillMedianFn(columns []string) (*Table, error) {
	cols := columns
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	out := t.Clone()
	for _, name := range cols {
		idx, ok := out.ColumnIndex(name)
		if !ok {
			continue
		}
		var present []float64
		for _, v := range out.columns[idx].Values {
			if f, ok := AsFloat(v); ok {
				present = append(present, f)
			}
		}
		if len(present) == 0 {
			continue
		}
		sort.Float64s(present)
		median := present[len(present)/2]
		if len(present)%2 == 0 {
			median = (present[len(present)/2-1] + present[len(present)/2]) / 2
		}
		for i, v := range out.columns[idx].Values {
			if IsAbsent(v) {
				out.columns[idx].Values[i] = RealVal(median)
			}
		}
	}
	return out, nil
}

// Deduplicate keeps distinct rows over key columns (all columns if empty).
// keep selects which duplicate survives: "first", "last", or "none" (drop
// every member of a duplicate group, matching the reference tool's legacy
// keep="false" spelling).
func (t *Table) Deduplicate(keys []string, keep string) (*Table, error) {
	cols := keys
	if len(cols) == 0 {
		cols = t.ColumnNames()
	}
	for _, name := range cols {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
	}

	n := t.RowCount()
	rowKey := func(i int) string {
		key := ""
		for _, name := range cols {
			c, _ := t.Column(name)
			key += "\x1f" + NormalizeKey(c.Values[i])
		}
		return key
	}

	counts := make(map[string]int, n)
	for i := 0; i < n; i++ {
		counts[rowKey(i)]++
	}

	keepMask := make([]bool, n)
	seenFirst := make(map[string]bool, n)
	lastIndex := make(map[string]int, n)
	if keep == "last" {
		for i := 0; i < n; i++ {
			lastIndex[rowKey(i)] = i
		}
	}

	for i := 0; i < n; i++ {
		k := rowKey(i)
		switch keep {
		case "last":
			keepMask[i] = i == lastIndex[k]
		case "none", "false":
			keepMask[i] = counts[k] == 1
		default: // "first"
			if !seenFirst[k] {
				keepMask[i] = true
				seenFirst[k] = true
			}
		}
	}
	return t.FilterMask(keepMask), nil
}
