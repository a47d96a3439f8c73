package model

import (
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// TooManyRowsError aborts a whole batch before any completion call is made.
type TooManyRowsError struct {
	Count int
	Limit int
}

func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("batch has %d rows, limit is %d", e.Count, e.Limit)
}

// DescriptionTooLongError causes a single record to be skipped.
type DescriptionTooLongError struct {
	Company string
	Words   int
	Limit   int
}

func (e *DescriptionTooLongError) Error() string {
	return fmt.Sprintf("description for %s has %d words, limit is %d", e.Company, e.Words, e.Limit)
}

// CompletionError reports the record whose completion call failed.
type CompletionError struct {
	Company string
	Err     error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion for %s: %v", e.Company, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
