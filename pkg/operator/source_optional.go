package operator

import (
	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// SourceOptionalOperator is source's forgiving sibling: an unresolved or
// unreadable file produces an empty table (no rows, no inferred columns)
// rather than a file_not_found error, for workflows built against an
// upload that may legitimately be absent on a given run.
type SourceOptionalOperator struct{}

func (SourceOptionalOperator) Kind() types.OperatorKind { return types.OperatorSourceOptional }

func (SourceOptionalOperator) Validate(node types.Node) error {
	var cfg sourceConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.FileID == "" {
		return NewError(CategoryConfigMissing, "source_optional requires file_id").WithNode(node.ID)
	}
	return nil
}

func (SourceOptionalOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	var cfg sourceConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}

	path, err := resolveSourceFile(ctx, node, cfg.FileID)
	if err != nil {
		ctx.Log("source_optional %s: file_id %q unresolved, continuing with an empty table", node.ID, cfg.FileID)
		return emptyTable(), nil
	}
	header, rows, err := readExcelRows(path, cfg)
	if err != nil {
		ctx.Log("source_optional %s: %s, continuing with an empty table", node.ID, err)
		return emptyTable(), nil
	}
	t, err := buildTableFromRows(header, rows)
	if err != nil {
		ctx.Log("source_optional %s: %s, continuing with an empty table", node.ID, err)
		return emptyTable(), nil
	}
	ctx.Log("source_optional %s: loaded %d rows from %s", node.ID, t.RowCount(), cfg.FileID)
	return t, nil
}

// emptyTable builds the zero-column, zero-row placeholder source_optional
// falls back to when its file is missing or unreadable.
func emptyTable() *table.Table {
	t, err := table.New()
	if err != nil {
		panic(err)
	}
	return t
}
