package operator

import (
	"fmt"

	"github.com/fieldflow/gridflow/pkg/aiclient"
	"github.com/fieldflow/gridflow/pkg/types"
)

// Registry dispatches a node to the Operator registered for its kind, the
// same strategy-pattern shape the engine's original node-executor registry
// used, now keyed by the closed OperatorKind set instead of an open string.
type Registry struct {
	operators map[types.OperatorKind]Operator
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{operators: make(map[types.OperatorKind]Operator)}
}

// Register adds op under its own Kind(), failing if that kind is already
// registered.
func (r *Registry) Register(op Operator) error {
	kind := op.Kind()
	if _, exists := r.operators[kind]; exists {
		return fmt.Errorf("operator already registered for kind %q", kind)
	}
	r.operators[kind] = op
	return nil
}

// MustRegister is Register, panicking on failure. Used at package-init
// time building the default registry, where a duplicate registration is a
// programming error, not a runtime condition.
func (r *Registry) MustRegister(op Operator) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Get returns the Operator registered for kind, if any.
func (r *Registry) Get(kind types.OperatorKind) (Operator, bool) {
	op, ok := r.operators[kind]
	return op, ok
}

// NewDefaultRegistry builds a Registry with every operator in this package
// registered under its kind. model may be nil; ai_agent then fails every
// call with CategoryRemoteUnavailable instead of panicking.
func NewDefaultRegistry(model aiclient.ChatModel) *Registry {
	r := NewRegistry()
	r.MustRegister(&SourceOperator{})
	r.MustRegister(&SourceCSVOperator{})
	r.MustRegister(&SourceOptionalOperator{})
	r.MustRegister(&TransformOperator{})
	r.MustRegister(&TypeConvertOperator{})
	r.MustRegister(&FillNAOperator{})
	r.MustRegister(&DeduplicateOperator{})
	r.MustRegister(&TextProcessOperator{})
	r.MustRegister(&DateProcessOperator{})
	r.MustRegister(&GroupAggregateOperator{})
	r.MustRegister(&PivotOperator{})
	r.MustRegister(&UnpivotOperator{})
	r.MustRegister(&JoinOperator{})
	r.MustRegister(&ConcatOperator{})
	r.MustRegister(&VLookupOperator{})
	r.MustRegister(&DiffOperator{})
	r.MustRegister(&ReconcileOperator{})
	r.MustRegister(&ProfitIncomeOperator{})
	r.MustRegister(&ProfitCostOperator{})
	r.MustRegister(&ProfitExpenseOperator{})
	r.MustRegister(&ProfitSummaryOperator{})
	r.MustRegister(&ProfitTableOperator{})
	r.MustRegister(&CodeOperator{})
	r.MustRegister(&AIAgentOperator{Model: model})
	r.MustRegister(&OutputOperator{})
	r.MustRegister(&OutputCSVOperator{})
	return r
}
