package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidBaseURL is returned when the API root is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Use 0 to disable the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidParallel is returned when the domain parallelism is not positive.
	ErrInvalidParallel = errors.New("invalid parallel: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDBDir is returned when run history is enabled without a directory.
	ErrNoDBDir = errors.New("no database directory specified")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when a configuration file value
	// cannot be interpreted.
	ErrInvalidConfigFile = errors.New("invalid configuration file")
)
