package table

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Pivot reshapes long data to wide: one output row per distinct
// combination of indexCols, one output column per distinct value of
// columnCol, cells aggregated from valueCol via aggfunc. Missing
// combinations are filled with 0, per the reference tool's fill_value=0.
func (t *Table) Pivot(indexCols []string, columnCol, valueCol string, aggfunc AggFunc) (*Table, error) {
	if len(indexCols) == 0 {
		return nil, ErrNoIndexColumns
	}
	for _, c := range append(append([]string{}, indexCols...), columnCol, valueCol) {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
	}

	grouped, err := t.GroupAggregate(append(append([]string{}, indexCols...), columnCol), []Aggregation{
		{Column: valueCol, Func: aggfunc, Alias: "__value__"},
	})
	if err != nil {
		return nil, err
	}

	colValCol, _ := grouped.Column(columnCol)
	colValsSeen := make(map[string]bool)
	var colVals []string
	for _, v := range colValCol.Values {
		s := NormalizeKey(v)
		if !colValsSeen[s] {
			colValsSeen[s] = true
			colVals = append(colVals, s)
		}
	}
	sort.Strings(colVals)

	type cell struct{ idx, col string }
	values := make(map[cell]float64)
	n := grouped.RowCount()
	idxKeyOf := func(row int) string {
		key := ""
		for _, c := range indexCols {
			col, _ := grouped.Column(c)
			key += "\x1f" + NormalizeKey(col.Values[row])
		}
		return key
	}
	var idxOrder []string
	idxSeen := make(map[string]bool)
	idxRepresentative := make(map[string]int)
	for i := 0; i < n; i++ {
		key := idxKeyOf(i)
		if !idxSeen[key] {
			idxSeen[key] = true
			idxOrder = append(idxOrder, key)
			idxRepresentative[key] = i
		}
		cv, _ := grouped.Column(columnCol)
		valCol, _ := grouped.Column("__value__")
		f, _ := AsFloat(valCol.Values[i])
		values[cell{idx: key, col: NormalizeKey(cv.Values[i])}] = f
	}

	cols := make([]Column, 0, len(indexCols)+len(colVals))
	for _, c := range indexCols {
		kind, _ := t.Kind(c)
		vals := make([]cty.Value, len(idxOrder))
		srcCol, _ := grouped.Column(c)
		for i, key := range idxOrder {
			vals[i] = srcCol.Values[idxRepresentative[key]]
		}
		cols = append(cols, Column{Name: c, Kind: kind, Values: vals})
	}
	for _, cv := range colVals {
		vals := make([]cty.Value, len(idxOrder))
		for i, key := range idxOrder {
			if f, ok := values[cell{idx: key, col: cv}]; ok {
				vals[i] = RealVal(f)
			} else {
				vals[i] = RealVal(0)
			}
		}
		cols = append(cols, Column{Name: cv, Kind: KindReal, Values: vals})
	}
	return New(cols...)
}

// Unpivot reshapes wide data to long: idVars are carried through unchanged,
// and each of valueVars contributes one row per original row, with varName
// holding the source column's name and valueName its cell value.
func (t *Table) Unpivot(idVars, valueVars []string, varName, valueName string) (*Table, error) {
	for _, c := range idVars {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
	}
	n := t.RowCount()
	outN := n * len(valueVars)

	idColVals := make(map[string][]cty.Value, len(idVars))
	idKinds := make(map[string]ElementKind, len(idVars))
	for _, c := range idVars {
		col, _ := t.Column(c)
		idKinds[c] = col.Kind
		idColVals[c] = make([]cty.Value, 0, outN)
	}
	varVals := make([]cty.Value, 0, outN)
	valueVals := make([]cty.Value, 0, outN)
	var valueKind ElementKind = KindUnknown

	for _, vv := range valueVars {
		col, ok := t.Column(vv)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, vv)
		}
		if valueKind == KindUnknown {
			valueKind = col.Kind
		}
		for i := 0; i < n; i++ {
			for _, idc := range idVars {
				idCol, _ := t.Column(idc)
				idColVals[idc] = append(idColVals[idc], idCol.Values[i])
			}
			varVals = append(varVals, TextVal(vv))
			valueVals = append(valueVals, col.Values[i])
		}
	}

	cols := make([]Column, 0, len(idVars)+2)
	for _, c := range idVars {
		cols = append(cols, Column{Name: c, Kind: idKinds[c], Values: idColVals[c]})
	}
	cols = append(cols, Column{Name: varName, Kind: KindText, Values: varVals})
	cols = append(cols, Column{Name: valueName, Kind: valueKind, Values: valueVals})
	return New(cols...)
}
