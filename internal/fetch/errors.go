package fetch

import (
	"errors"
	"fmt"
)

// Fetch failure kinds.
//
// All of them collapse to the same outcome for walkers (the branch is
// skipped), but they stay distinguishable through errors.Is for logging
// and tests.
var (
	// ErrFetchFailed is wrapped by every error returned from Fetch.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrRequest is returned when the request could not be completed
	// (DNS, connection, TLS, timeout, cancellation).
	ErrRequest = fmt.Errorf("%w: request error", ErrFetchFailed)

	// ErrStatus is returned when the server answers with a non-2xx status.
	ErrStatus = fmt.Errorf("%w: unexpected status", ErrFetchFailed)

	// ErrDecode is returned when the body is not a single valid JSON document.
	ErrDecode = fmt.Errorf("%w: invalid JSON", ErrFetchFailed)

	// ErrEmpty is returned when the body is the JSON literal null.
	ErrEmpty = fmt.Errorf("%w: empty response", ErrFetchFailed)
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status=%d", e.URL, e.StatusCode)
}

// Unwrap makes StatusError match ErrStatus and ErrFetchFailed.
func (e *StatusError) Unwrap() error {
	return ErrStatus
}
