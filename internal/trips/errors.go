package trips

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the dataset identifier is not registered.
	ErrNotFound = errors.New("dataset not found")
	// ErrSourceUnavailable: the source cannot be read or is not a usable table.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedTimestamp: a start time value failed to parse.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrEmptyInput: a statistic was requested over zero rows.
	ErrEmptyInput = errors.New("empty input")
)

// RowError locates a parse failure. Row is the 0-based data row index
// (the header is not counted).
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %q: value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Code is a short error category for log fields and exit handling.
type Code string

const (
	CodeUnknown            Code = "unknown"
	CodeNotFound           Code = "not_found"
	CodeSourceUnavailable  Code = "source_unavailable"
	CodeMalformedTimestamp Code = "malformed_timestamp"
	CodeEmptyInput         Code = "empty_input"
)

// Classify maps err onto a Code using the sentinels only.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrMalformedTimestamp):
		return CodeMalformedTimestamp
	case errors.Is(err, ErrSourceUnavailable):
		return CodeSourceUnavailable
	case errors.Is(err, ErrEmptyInput):
		return CodeEmptyInput
	default:
		return CodeUnknown
	}
}
