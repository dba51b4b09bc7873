package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type deduplicateConfig struct {
	Subset []string `json:"subset,omitempty"`
	Keep   string   `json:"keep,omitempty"`
}

// DeduplicateOperator drops duplicate rows over a key column subset,
// keeping the first match, the last match, or no member of a duplicate
// group at all.
type DeduplicateOperator struct{}

func (DeduplicateOperator) Kind() types.OperatorKind { return types.OperatorDeduplicate }

func (DeduplicateOperator) Validate(node types.Node) error {
	var cfg deduplicateConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (DeduplicateOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "deduplicate requires one input").WithNode(node.ID)
	}
	var cfg deduplicateConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	keep := cfg.Keep
	if keep == "" {
		keep = "first"
	}
	out, err := inputs[0].Deduplicate(cfg.Subset, keep)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
