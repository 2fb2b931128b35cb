package convert

import (
	"errors"
	"fmt"
)

// ErrFatal marks errors that abort the whole run instead of a single definition.
var ErrFatal = errors.New("fatal conversion error")

// FatalError wraps an environment failure (unwritable output, unreadable
// input tree) that no amount of per-definition isolation can recover from.
type FatalError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the wrapped cause.
func (e *FatalError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFatal) match any FatalError.
func (e *FatalError) Is(target error) bool { return target == ErrFatal }

// Fatal wraps err as a FatalError for operation op.
//
// Postcondition: IsFatal(Fatal(op, err)) is true for any non-nil err; nil stays nil.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Op: op, Err: err}
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
