package ratings

import (
	"errors"
	"fmt"
)

// ErrUnavailable is wrapped by every lookup failure, so callers that only
// care whether ratings can be shown need a single errors.Is check.
var ErrUnavailable = errors.New("ratings service unavailable")

// ErrNoRatings indicates the service answered but knows nothing about the ISBN.
var ErrNoRatings = fmt.Errorf("%w: no ratings for isbn", ErrUnavailable)

// StatusError represents a non-2xx answer from the ratings API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ratings service error: HTTP %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}
