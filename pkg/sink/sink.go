// Package sink writes a table's final output to disk: an .xlsx workbook
// via excelize, or a .csv file via the standard library, named with a
// short random suffix the way the reference tool names generated
// artifacts.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	excelize "github.com/qax-os/excelize/v2"
	"github.com/google/uuid"

	"github.com/fieldflow/gridflow/pkg/table"
)

// NewArtifactName builds a short, collision-resistant output filename:
// prefix, an 8 hex character random suffix, and ext (including the dot).
func NewArtifactName(prefix, ext string) string {
	suffix := uuid.NewString()
	suffix = suffix[:8]
	return fmt.Sprintf("%s_%s%s", prefix, suffix, ext)
}

// WriteXLSX renders t to a single-sheet .xlsx workbook at dir/name.
func WriteXLSX(dir, name string, t *table.Table) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	names := t.ColumnNames()
	for i, col := range names {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", fmt.Errorf("sink: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return "", fmt.Errorf("sink: %w", err)
		}
	}
	for r, row := range t.ToJSONRows() {
		for i, col := range names {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return "", fmt.Errorf("sink: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, row[col]); err != nil {
				return "", fmt.Errorf("sink: %w", err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("sink: %w", err)
	}
	return path, nil
}

// WriteCSV renders t to a .csv file at dir/name.
func WriteCSV(dir, name string, t *table.Table) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("sink: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := t.ColumnNames()
	if err := w.Write(names); err != nil {
		return "", fmt.Errorf("sink: %w", err)
	}
	for _, row := range t.ToJSONRows() {
		record := make([]string, len(names))
		for i, col := range names {
			record[i] = fmt.Sprintf("%v", row[col])
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("sink: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("sink: %w", err)
	}
	return path, nil
}
