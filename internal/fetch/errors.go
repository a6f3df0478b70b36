package fetch

import (
	"errors"
	"fmt"
)

// ErrElementNotFound reports that a bounded wait ran out before the selector
// matched. Adapters decide whether that is expected (an optional modal) or a
// failure of the whole extraction.
var ErrElementNotFound = errors.New("element not found")

// Error is a failed page acquisition: a non-2xx response, or a browser
// navigation that did not complete. It is isolated to the adapter that hit
// it and never aborts a run.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(selector string, err error) error {
	return fmt.Errorf("%w: %q: %v", ErrElementNotFound, selector, err)
}
