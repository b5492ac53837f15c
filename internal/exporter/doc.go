// Package exporter renders dashboard snapshot tables as CSV.
//
// Two components:
//
// CSVWriter: core CSV writing with directory creation, streaming to any
// io.Writer, and a UTF-8 BOM so Excel opens the files correctly.
//
// Table renderers: one fixed column layout per derived dashboard table,
// shared by the HTTP export endpoint and the batch CLI so a downloaded file
// and a generated file are byte-identical.
package exporter
