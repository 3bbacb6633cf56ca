package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any backend call when a record or id
// cannot be written as given.
var ErrInvalidArgument = errors.New("invalid argument")

// OpError is a failed backend round trip. Op names the collection operation,
// for example "save world_wonders".
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
