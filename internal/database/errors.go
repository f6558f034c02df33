package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the database must already
	// exist but does not.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrRunNotFound is returned when a run ID is not in the history.
	ErrRunNotFound = errors.New("run not found")
)
