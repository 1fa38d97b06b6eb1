package bundle

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every decoding failure.
var ErrMalformed = errors.New("malformed bundle")

// Validation errors returned by File.Validate and Bundle.Validate.
var (
	ErrEmptyPath      = errors.New("file path must not be empty")
	ErrPathSentinel   = errors.New("file path contains a reserved byte")
	ErrDuplicatePath  = errors.New("duplicate file path")
	ErrInvalidVersion = errors.New("invalid bundle version")
)

// MalformedError describes where decoding stopped.
type MalformedError struct {
	Offset int64  // byte offset of the offending input, or the stream length at end of input
	State  string // decoder state when the error was detected
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed bundle at byte %d (%s): %s", e.Offset, e.State, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}
