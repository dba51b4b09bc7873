package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type concatConfig struct {
	Join       string `json:"join,omitempty"`
	ResetIndex bool   `json:"reset_index,omitempty"`
}

// ConcatOperator stacks every input table's rows into one, either keeping
// only columns common to all inputs (join="inner") or the union of all
// columns, absent-filling gaps (any other value, including the default).
type ConcatOperator struct{}

func (ConcatOperator) Kind() types.OperatorKind { return types.OperatorConcat }

func (ConcatOperator) Validate(node types.Node) error {
	var cfg concatConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (ConcatOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "concat requires at least one input").WithNode(node.ID)
	}
	var cfg concatConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	join := cfg.Join
	if join == "" {
		join = "outer"
	}
	out, err := table.Concat(inputs, join, cfg.ResetIndex)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
