// Package sheet provides the spreadsheet extractor for XLSX and CSV files.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// csvSheetName is the synthetic sheet name for CSV files, which have a
// single unnamed sheet.
const csvSheetName = "Sheet1"

// Extractor handles XLSX, XLS and CSV files. Within a sheet, a fully
// empty row separates logical tables; every data row becomes one unit.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"xls", "xlsx", "csv"}
}

// Extract parses the source sheet by sheet. The first row of a sheet
// names the columns; each data row yields a unit whose text lists its
// non-empty cells as "<col>: <value>" pairs, and whose locator carries
// sheet, table index and table-relative row index.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.DocumentUnit, error) {
	sheets, err := readSheets(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var units []domain.DocumentUnit
	for _, s := range sheets {
		units = append(units, extractSheet(filename, s)...)
	}
	return units, nil
}

// namedSheet is one sheet's raw cell grid.
type namedSheet struct {
	name string
	rows [][]string
}

// readSheets parses CSV directly and spreadsheets via excelize.
func readSheets(data []byte, filename string) ([]namedSheet, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		return []namedSheet{{name: csvSheetName, rows: rows}}, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	defer f.Close()

	var sheets []namedSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		sheets = append(sheets, namedSheet{name: name, rows: rows})
	}
	return sheets, nil
}

// extractSheet splits a sheet's data rows into tables on empty rows and
// renders every table row as one unit. Row numbering restarts per table.
func extractSheet(filename string, s namedSheet) []domain.DocumentUnit {
	if len(s.rows) < 2 {
		return nil
	}

	header := s.rows[0]

	var units []domain.DocumentUnit
	tableIndex := 1
	rowIndex := 0

	for _, row := range s.rows[1:] {
		if emptyRow(row) {
			if rowIndex > 0 {
				tableIndex++
				rowIndex = 0
			}
			continue
		}
		rowIndex++

		pairs := renderRow(header, row)
		if pairs == "" {
			continue
		}

		units = append(units, domain.DocumentUnit{
			SourceFile: filename,
			PageOrRow:  fmt.Sprintf("sheet %s table %d row %d", s.name, tableIndex, rowIndex),
			Text:       fmt.Sprintf("Row %d in sheet %s - %s", rowIndex, s.name, pairs),
		})
	}

	return units
}

// renderRow joins the row's non-empty cells as "<col>: <value>" pairs.
func renderRow(header, row []string) string {
	pairs := make([]string, 0, len(row))
	for i, value := range row {
		value = strings.TrimSpace(value)
		if value == "" || i >= len(header) {
			continue
		}
		col := strings.TrimSpace(header[i])
		pairs = append(pairs, fmt.Sprintf("%s: %s", col, value))
	}
	return strings.Join(pairs, ", ")
}

// emptyRow reports whether every cell is empty after trimming.
func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
