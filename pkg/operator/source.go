package operator

import (
	"fmt"

	excelize "github.com/qax-os/excelize/v2"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// sourceConfig is the config shape shared by source and source_optional:
// which uploaded file to read, which sheet, and how many leading rows to
// treat as a header/skip before the data starts.
type sourceConfig struct {
	FileID    string `json:"file_id"`
	SheetName string `json:"sheet_name,omitempty"`
	HeaderRow int    `json:"header_row,omitempty"`
	SkipRows  int    `json:"skip_rows,omitempty"`
}

// readExcelRows opens an .xlsx workbook and splits it into a header row and
// its data rows, honoring skip_rows (dropped before anything else is
// interpreted) and header_row (an index into what remains).
func readExcelRows(path string, cfg sourceConfig) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return splitHeaderRows(all, cfg.SkipRows, cfg.HeaderRow)
}

func splitHeaderRows(all [][]string, skipRows, headerRow int) ([]string, [][]string, error) {
	if skipRows < 0 {
		skipRows = 0
	}
	if skipRows > len(all) {
		skipRows = len(all)
	}
	remaining := all[skipRows:]
	if headerRow < 0 {
		headerRow = 0
	}
	if headerRow >= len(remaining) {
		return nil, nil, fmt.Errorf("header_row %d is beyond the sheet's %d rows", headerRow, len(remaining))
	}
	header := remaining[headerRow]
	data := remaining[headerRow+1:]
	return header, data, nil
}

// resolveSourceFile maps file_id to a path via the execution context's
// file registry, returning a CategoryFileNotFound error if unresolved.
func resolveSourceFile(ctx exec.ExecutionContext, node types.Node, fileID string) (string, error) {
	if ctx.Files() == nil {
		return "", NewError(CategoryFileNotFound, "no file registry configured for file_id %q", fileID).WithNode(node.ID)
	}
	path, ok := ctx.Files().Resolve(ctx.Context(), fileID, ctx.CallerIdentity())
	if !ok {
		return "", NewError(CategoryFileNotFound, "file_id %q not found", fileID).WithNode(node.ID)
	}
	return path, nil
}

// SourceOperator reads an uploaded .xlsx workbook into a table. It has no
// inputs: it is always a graph root.
type SourceOperator struct{}

func (SourceOperator) Kind() types.OperatorKind { return types.OperatorSource }

func (SourceOperator) Validate(node types.Node) error {
	var cfg sourceConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.FileID == "" {
		return NewError(CategoryConfigMissing, "source requires file_id").WithNode(node.ID)
	}
	return nil
}

func (SourceOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	var cfg sourceConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	path, err := resolveSourceFile(ctx, node, cfg.FileID)
	if err != nil {
		return nil, err
	}
	header, rows, err := readExcelRows(path, cfg)
	if err != nil {
		return nil, NewError(CategoryFileNotFound, "%s", err).WithNode(node.ID)
	}
	t, err := buildTableFromRows(header, rows)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	ctx.Log("source %s: loaded %d rows from %s", node.ID, t.RowCount(), cfg.FileID)
	return t, nil
}
