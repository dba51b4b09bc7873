// Package operator implements the dataflow engine's operator library: one
// Operator per OperatorKind, dispatched through a Registry the way the
// engine's original node-executor registry dispatched node types, plus the
// narrow ExecutionContext capability each operator is handed.
package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// Operator is one operator kind's implementation.
type Operator interface {
	// Execute runs the operator against its resolved inputs (in edge-
	// encounter order) and returns its output table.
	Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error)
	// Kind reports the OperatorKind this Operator handles.
	Kind() types.OperatorKind
	// Validate checks the node's config before Execute is attempted, so
	// the scheduler can fail fast with a precise category. Input arity is
	// checked by Execute.
	Validate(node types.Node) error
}
