package report

import "errors"

var (
	// ErrCreateOutputDir is returned when the output directory cannot be created.
	ErrCreateOutputDir = errors.New("failed to create output directory")

	// ErrWriteOutput is returned when a document file cannot be written.
	ErrWriteOutput = errors.New("failed to write output file")
)
