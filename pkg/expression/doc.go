// Package expression evaluates the dataflow engine's scalar expression
// dialect, used by transform's filter and computed-column configs (and any
// other operator that needs a row-scoped formula):
//
//   - column references, resolved against the current row
//   - numeric and single/double-quoted text literals
//   - comparisons: == != < <= > >=
//   - arithmetic: + - * / %
//   - parenthesized grouping
//   - boolean combination: & and | (not the C-style && / ||)
//   - @name, an ambient scalar lookup independent of the current row
//
// Evaluation is delegated to github.com/expr-lang/expr: convertSyntax
// rewrites the dialect's @name and bare &/| into expr-lang's own syntax
// before compiling, and ExprEngine caches one compiled program per distinct
// (converted) expression string so a filter or computed column reused
// across every row of a table compiles exactly once.
package expression
