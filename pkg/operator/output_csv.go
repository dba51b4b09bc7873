package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/sink"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// OutputCSVOperator is output's .csv-flavored sibling.
type OutputCSVOperator struct{}

func (OutputCSVOperator) Kind() types.OperatorKind { return types.OperatorOutputCSV }

func (OutputCSVOperator) Validate(node types.Node) error {
	var cfg outputConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	return nil
}

func (OutputCSVOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	if len(inputs) == 0 {
		return nil, NewError(CategoryArity, "output_csv requires one input").WithNode(node.ID)
	}
	var cfg outputConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	prefix := cfg.FilePrefix
	if prefix == "" {
		prefix = "output"
	}
	name := sink.NewArtifactName(prefix, ".csv")
	path, err := sink.WriteCSV(ctx.OutputDir(), name, inputs[0])
	if err != nil {
		return nil, NewError(CategorySinkIO, "%s", err).WithNode(node.ID)
	}
	ctx.Log("output_csv %s: wrote %s", node.ID, path)
	ctx.RecordOutputFile(path)
	return inputs[0], nil
}
