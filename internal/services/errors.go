package services

import "errors"

// Dashboard service errors
var (
	// ErrSnapshotNotFound means the session has not generated a dashboard yet.
	ErrSnapshotNotFound = errors.New("no dashboard snapshot generated")

	// ErrInputNotStaged means generation was requested before every input
	// slot had an upload.
	ErrInputNotStaged = errors.New("input not staged")

	// ErrTableNotFound means the requested derived table name is unknown.
	ErrTableNotFound = errors.New("table not found")

	// ErrInputNotTabular means a staged file could not be parsed as a table.
	ErrInputNotTabular = errors.New("input not tabular")
)
