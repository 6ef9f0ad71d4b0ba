package pager

import (
	"errors"
	"fmt"
)

// Errors surfaced by page assembly.
var (
	// ErrInvalidCursor is returned when a cursor cannot be parsed into
	// a page index. Fatal to that call, never retried internally.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrSourceUnavailable is returned when the feed source call for a
	// page fails. Callers decide whether to retry with the same cursor.
	ErrSourceUnavailable = errors.New("feed source unavailable")
)

// SourceError carries the page index of a failed feed source call.
type SourceError struct {
	PageIndex int
	Err       error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("feed source unavailable (page %d): %v", e.PageIndex, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports SourceError as a match for ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
