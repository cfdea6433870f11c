package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the remote page does not exist (HTTP 404).
// Absence is an expected outcome for gaps in the numeric range, so callers
// should treat this as data, not as a failure.
var ErrNotFound = errors.New("page not found")

// FetchError is the terminal error for a page whose retry budget is
// exhausted. It carries enough context for the run summary without the
// caller re-deriving it.
type FetchError struct {
	// URL is the page that could not be fetched.
	URL string

	// Attempts is the total number of attempts made (retries + 1).
	Attempts int

	// Err is the failure from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

// Unwrap returns the final attempt's underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// transientStatusError marks a retryable HTTP status.
type transientStatusError struct {
	status int
}

func (e *transientStatusError) Error() string {
	return fmt.Sprintf("transient HTTP status %d", e.status)
}
