package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWithBOM(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)

	err := w.Write(&buf, WriteOptions{
		Headers:   []string{"Month", "Screened"},
		Records:   [][]string{{"Jan-2025", "30"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.Equal(t, utf8BOM, out[:3], "BOM leads the document")
	assert.Equal(t, "Month,Screened\nJan-2025,30\n", string(out[3:]))
}

func TestWriteWithoutBOM(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)

	err := w.Write(&buf, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n", buf.String())
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reports", "projections.csv")

	w := NewCSVWriter(nil)
	err := w.WriteFile(path, WriteOptions{
		Headers:   []string{"Month"},
		Records:   [][]string{{"Jan-2025"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, data[:3])
}
