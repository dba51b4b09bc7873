package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/sink"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

type outputConfig struct {
	FilePrefix string `json:"file_prefix,omitempty"`
}

// OutputOperator writes its input table to a generated .xlsx workbook and
// passes the table through unchanged, so the same node can sit mid-graph
// (for downstream nodes) and still be the run's designated sink.
type OutputOperator struct{}

func (OutputOperator) Kind() types.OperatorKind { return types.OperatorOutput }

func (OutputOperator) Validate(node types.Node) error {
	var cfg outputConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (OutputOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "output requires one input").WithNode(node.ID)
	}
	var cfg outputConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	prefix := cfg.FilePrefix
	if prefix == "" {
		prefix = "output"
	}
	name := sink.NewArtifactName(prefix, ".xlsx")
	path, err := sink.WriteXLSX(ctx.OutputDir(), name, inputs[0])
	if err != nil {
		return nil, NewError(CategorySinkIO, "%s", err).WithNode(node.ID)
	}
	ctx.Log("output %s: wrote %s", node.ID, path)
	ctx.RecordOutputFile(path)
	return inputs[0], nil
}
