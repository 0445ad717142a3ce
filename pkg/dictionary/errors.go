package dictionary

import (
	"errors"
	"fmt"
)

// ErrMalformedEntry marks a raw record that breaks the format contract.
// Callers should treat the source dictionary as corrupt.
var ErrMalformedEntry = errors.New("malformed dictionary entry")

// MalformedEntryError describes which part of a raw record is broken.
// Index is -1 when the problem is not tied to a single array element.
type MalformedEntryError struct {
	Field  string
	Index  int
	Reason string
}

func (e *MalformedEntryError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%v: %s[%d]: %s", ErrMalformedEntry, e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrMalformedEntry, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedEntry.
func (e *MalformedEntryError) Unwrap() error {
	return ErrMalformedEntry
}

func malformed(field string, index int, format string, args ...any) error {
	return &MalformedEntryError{
		Field:  field,
		Index:  index,
		Reason: fmt.Sprintf(format, args...),
	}
}

// TruncatedFileError reports a record file that ended, or stopped making
// sense, before the entry count in its header was reached. Read entries
// parsed cleanly and are still usable.
type TruncatedFileError struct {
	Read     int
	Expected int
	Err      error
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("failed to read entry %d of %d: %v", e.Read, e.Expected, e.Err)
}

func (e *TruncatedFileError) Unwrap() error {
	return e.Err
}
