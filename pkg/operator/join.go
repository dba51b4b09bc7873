package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type joinConfig struct {
	How    string   `json:"how,omitempty"`
	LeftOn []string `json:"left_on"`
	RightOn []string `json:"right_on"`
}

// JoinOperator performs a relational join between its two inputs (left
// first, right second, by edge-encounter order).
type JoinOperator struct{}

func (JoinOperator) Kind() types.OperatorKind { return types.OperatorJoin }

func (JoinOperator) Validate(node types.Node) error {
	var cfg joinConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if len(cfg.LeftOn) == 0 || len(cfg.RightOn) == 0 {
		return NewError(CategoryConfigMissing, "join requires left_on and right_on").WithNode(node.ID)
	}
	return nil
}

func (JoinOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) != 2 {
		return nil, NewError(CategoryArity, "join requires exactly two inputs, got %d", len(inputs)).WithNode(node.ID)
	}
	var cfg joinConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	out, err := inputs[0].Merge(inputs[1], cfg.How, cfg.LeftOn, cfg.RightOn)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	return out, nil
}
