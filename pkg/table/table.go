package table

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// ElementKind is the inferred type of a column's cells.
type ElementKind string

const (
	KindInteger   ElementKind = "integer"
	KindReal      ElementKind = "real"
	KindText      ElementKind = "text"
	KindBoolean   ElementKind = "boolean"
	KindTimestamp ElementKind = "timestamp"
	KindDate      ElementKind = "date"
	KindUnknown   ElementKind = "unknown"
)

// Column is a single labeled column: a name, an element kind and a cty.Value
// per row. Absent cells are cty null values of the column's cty type.
type Column struct {
	Name   string
	Kind   ElementKind
	Values []cty.Value
}

// Table is an immutable-from-the-caller columnar table value. Every column
// has the same length; that length is the table's row count.
type Table struct {
	columns []Column

	// times holds the parallel time.Time side-table for timestamp/date
	// columns, keyed by column name, index-aligned with the column's
	// Values slice. cty has no native time kind, so timestamp columns
	// carry an ISO-8601 string in Values and the parsed time.Time here for
	// arithmetic, extraction and sorting. Absent rows hold the zero Time.
	times map[string][]time.Time
}

// New builds a Table from columns, validating that every column has the
// same number of rows.
func New(columns ...Column) (*Table, error) {
	t := &Table{columns: columns, times: make(map[string][]time.Time)}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0].Values)
	}
	for _, c := range columns {
		if len(c.Values) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, c.Name, len(c.Values), n)
		}
	}
	return t, nil
}

// Empty returns a zero-row table with the given column names and kinds.
func Empty(names []string, kinds []ElementKind) *Table {
	cols := make([]Column, len(names))
	for i, name := range names {
		kind := KindUnknown
		if i < len(kinds) {
			kind = kinds[i]
		}
		cols[i] = Column{Name: name, Kind: kind, Values: []cty.Value{}}
	}
	return &Table{columns: cols, times: make(map[string][]time.Time)}
}

// WithTimes attaches the parallel time.Time side-table for a timestamp/date
// column. It is a builder-style method used right after construction.
func (t *Table) WithTimes(column string, values []time.Time) *Table {
	t.times[column] = values
	return t
}

// Times returns the parallel time.Time values for a timestamp/date column,
// and whether the column carries one.
func (t *Table) Times(column string) ([]time.Time, bool) {
	v, ok := t.times[column]
	return v, ok
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the underlying column definitions. Callers must not
// mutate the returned slice's Values in place.
func (t *Table) Columns() []Column {
	return t.columns
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0].Values)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns a named column and whether it was found.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Kind returns the element kind of a named column.
func (t *Table) Kind(name string) (ElementKind, bool) {
	c, ok := t.Column(name)
	if !ok {
		return KindUnknown, false
	}
	return c.Kind, true
}

// Cell returns the raw cty.Value at (row, column).
func (t *Table) Cell(row int, column string) (cty.Value, error) {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %q (available: %v)", ErrColumnNotFound, column, t.ColumnNames())
	}
	if row < 0 || row >= t.RowCount() {
		return cty.NilVal, fmt.Errorf("row %d out of range [0,%d)", row, t.RowCount())
	}
	return t.columns[i].Values[row], nil
}

// RowValues returns the cells of row i in column order.
func (t *Table) RowValues(row int) []cty.Value {
	vals := make([]cty.Value, len(t.columns))
	for i, c := range t.columns {
		vals[i] = c.Values[row]
	}
	return vals
}

// Clone returns a deep copy of the table, safe for independent mutation.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		vals := make([]cty.Value, len(c.Values))
		copy(vals, c.Values)
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	times := make(map[string][]time.Time, len(t.times))
	for k, v := range t.times {
		cp := make([]time.Time, len(v))
		copy(cp, v)
		times[k] = cp
	}
	return &Table{columns: cols, times: times}
}
