package backend

import (
	"errors"
	"fmt"
)

// ErrFetchFailed marks a non-cancel failure while reading from the order
// store. Callers keep their last known-good data and surface a transient
// error.
var ErrFetchFailed = errors.New("backend: fetch failed")

// SubmissionError is a rejected or failed order submission. The message is
// the server-provided one when the response carried it.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: order submission failed: %s", e.Message)
	}
	return fmt.Sprintf("backend: order submission failed (status %d)", e.StatusCode)
}

// TransitionError is a rejected or failed status transition. The order's
// status is unchanged and the request may be retried.
type TransitionError struct {
	OrderID    int64
	StatusCode int
	Message    string
}

func (e *TransitionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: transition for order %d failed: %s", e.OrderID, e.Message)
	}
	return fmt.Sprintf("backend: transition for order %d failed (status %d)", e.OrderID, e.StatusCode)
}
