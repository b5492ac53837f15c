package dataprocessing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Site ID,Site Name,Screened",
		"001,Mercy General,20",
		"007,St. Anna", // ragged row
	}, "\n")

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "20", table.Cell(0, "Screened"))
	assert.Equal(t, "", table.Cell(1, "Screened"), "ragged rows pad with empty cells")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	tmpDir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	// Decorative cover sheet first; the reader must skip it.
	f.SetSheetName(sheet, "Cover")
	f.SetCellValue("Cover", "A1", "Enrollment Report")

	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	f.SetCellValue("Data", "A1", "Site ID")
	f.SetCellValue("Data", "B1", "Screened")
	f.SetCellValue("Data", "A2", "001")
	f.SetCellValue("Data", "B2", "20")

	path := filepath.Join(tmpDir, "enrollment.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "20", table.Cell(0, "Screened"))
}

func TestReadTableUnsupportedExtension(t *testing.T) {
	_, err := ReadTable("report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestTableCopyColumn(t *testing.T) {
	table := NewTable([]string{"SiteID"}, [][]string{{"001"}})
	require.True(t, table.CopyColumn("Site ID", "SiteID"))
	assert.Equal(t, "001", table.Cell(0, "Site ID"))
	assert.False(t, table.CopyColumn("Site ID", "SiteID"), "existing columns are never overwritten")
}

func TestTableColumnIsNumeric(t *testing.T) {
	table := NewTable(
		[]string{"Counts", "Mixed", "Empty"},
		[][]string{
			{"1,200", "5", ""},
			{"", "abc", ""},
		},
	)
	assert.True(t, table.ColumnIsNumeric("Counts"))
	assert.False(t, table.ColumnIsNumeric("Mixed"))
	assert.False(t, table.ColumnIsNumeric("Empty"), "a column with no values is not numeric")
}
