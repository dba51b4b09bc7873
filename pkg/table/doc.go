// Package table provides the columnar tabular value type shared by every
// operator: labeled columns with an inferred element kind, row-wise and
// column-wise access, and the structural operations (filter, sort, group,
// pivot, merge, concat, type coercion, safe JSON projection) the operator
// library is built out of.
//
// Methods that return a Table leave their input's columns unchanged. Clone,
// AddColumn, ReplaceColumn, FilterMask and the sorts build new Values
// slices; Select, Drop and Rename return a new Table whose columns reuse the
// input's Values slices. WithTimes is the exception: it modifies the
// receiver and returns it.
// Cells use cty.Value so that a single comparable type carries numbers,
// strings, booleans and the null (absent) state without a hand-rolled
// interface{} type switch at every call site.
package table
