package dataprocessing

import (
	"strconv"
	"strings"
)

// Table is a raw tabular input: an ordered header row plus string cells.
// Cells keep their source text; numeric and date coercion happens at the
// point of use so that a bad cell can degrade to 0 or "no value" instead of
// failing the load.
type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a table from a header row and data rows. Headers are
// trimmed of surrounding whitespace before any matching; ragged rows are
// padded with empty cells so every row has one cell per header.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{
		headers: make([]string, len(headers)),
		index:   make(map[string]int, len(headers)),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		t.headers[i] = name
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
	for _, row := range rows {
		padded := make([]string, len(t.headers))
		for i := range padded {
			if i < len(row) {
				padded[i] = strings.TrimSpace(row[i])
			}
		}
		t.rows = append(t.rows, padded)
	}
	return t
}

// Headers returns the column names in source order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// HasAll reports whether every named column exists.
func (t *Table) HasAll(names ...string) bool {
	for _, n := range names {
		if !t.Has(n) {
			return false
		}
	}
	return true
}

// Cell returns the cell at (row, column name), or "" when the column is
// absent. Missing cells and missing columns are indistinguishable on
// purpose: both mean "no value" downstream.
func (t *Table) Cell(row int, name string) string {
	col, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][col]
}

// Column returns all cells of a column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[col]
	}
	return out, true
}

// CopyColumn duplicates the values of src under the canonical name dst.
// Used by the schema reconciler to resolve synonym headers; the source
// column keeps its original name.
func (t *Table) CopyColumn(dst, src string) bool {
	srcIdx, ok := t.index[src]
	if !ok {
		return false
	}
	if _, exists := t.index[dst]; exists {
		return false
	}
	t.headers = append(t.headers, dst)
	t.index[dst] = len(t.headers) - 1
	for i, row := range t.rows {
		t.rows[i] = append(row, row[srcIdx])
	}
	return true
}

// ColumnIsNumeric reports whether the column has at least one non-empty cell
// and every non-empty cell parses as a number. Used by the synthetic-month
// fallback to decide which unlabeled columns are plausibly month counts.
func (t *Table) ColumnIsNumeric(name string) bool {
	values, ok := t.Column(name)
	if !ok {
		return false
	}
	seen := false
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
