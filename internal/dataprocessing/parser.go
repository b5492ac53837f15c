package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTable reads a tabular input file, choosing the reader by extension.
// Supported: .csv, .xlsx, .xls (excelize handles both OOXML spreadsheets).
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVFile(path)
	case ".xlsx", ".xls":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input file type: %s", filepath.Ext(path))
	}
}

func readCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a CSV stream into a Table. Ragged rows are tolerated; the
// first record is the header row.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	return NewTable(records[0], records[1:]), nil
}

// ReadXLSX reads an Excel workbook into a Table. The clinical exports do not
// use a fixed sheet name, so sheets are probed in workbook order and the
// first one with a usable header row wins.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string

	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) < 2 {
			continue
		}
		if headerCells(sheetRows[0]) >= 2 {
			rows = sheetRows
			sheetName = name
			break
		}
	}

	if sheetName == "" {
		return nil, fmt.Errorf("no sheet with a usable header row found in workbook")
	}

	slog.Debug("found tabular data in sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return NewTable(rows[0], rows[1:]), nil
}

// headerCells counts non-empty cells in a candidate header row.
func headerCells(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
