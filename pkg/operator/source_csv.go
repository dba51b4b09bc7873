package operator

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fieldflow/gridflow/pkg/exec"
	"github.com/fieldflow/gridflow/pkg/table"
	"github.com/fieldflow/gridflow/pkg/types"
)

// sourceCSVConfig is source's csv-flavored sibling: a delimiter in place
// of a sheet name. encoding is accepted for round-trip fidelity with the
// upstream config shape but only UTF-8 is actually decoded.
type sourceCSVConfig struct {
	FileID    string `json:"file_id"`
	Delimiter string `json:"delimiter,omitempty"`
	HeaderRow int    `json:"header_row,omitempty"`
	SkipRows  int    `json:"skip_rows,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
}

func readCSVRows(path string, cfg sourceCSVConfig) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	delim := ','
	if cfg.Delimiter != "" {
		delim = rune(cfg.Delimiter[0])
	}
	r.Comma = delim

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	return splitHeaderRows(all, cfg.SkipRows, cfg.HeaderRow)
}

// SourceCSVOperator reads an uploaded .csv file into a table. It has no
// inputs: it is always a graph root.
type SourceCSVOperator struct{}

func (SourceCSVOperator) Kind() types.OperatorKind { return types.OperatorSourceCSV }

func (SourceCSVOperator) Validate(node types.Node) error {
	var cfg sourceCSVConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	if cfg.FileID == "" {
		return NewError(CategoryConfigMissing, "source_csv requires file_id").WithNode(node.ID)
	}
	return nil
}

func (SourceCSVOperator) Execute(ctx exec.ExecutionContext, node types.Node, inputs []*table.Table) (*table.Table, error) {
	var cfg sourceCSVConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		return nil, NewError(CategoryConfigMissing, "%s", err).WithNode(node.ID)
	}
	path, err := resolveSourceFile(ctx, node, cfg.FileID)
	if err != nil {
		return nil, err
	}
	header, rows, err := readCSVRows(path, cfg)
	if err != nil {
		return nil, NewError(CategoryFileNotFound, "%s", err).WithNode(node.ID)
	}
	t, err := buildTableFromRows(header, rows)
	if err != nil {
		return nil, NewError(CategoryColumnMissing, "%s", err).WithNode(node.ID)
	}
	ctx.Log("source_csv %s: loaded %d rows from %s", node.ID, t.RowCount(), cfg.FileID)
	return t, nil
}
