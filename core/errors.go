// Package core provides the error taxonomy shared by the ledger backends,
// the interactive loop and the message printer.
package core

import (
	"errors"
	"fmt"
)

// Common errors returned by ledger and I/O operations
var (
	ErrCounterNotFound = errors.New("counter not found")
	ErrIO              = errors.New("i/o failure")
)

// CounterNotFoundError is returned when incrementing or decrementing a counter
// that does not exist on the account.
type CounterNotFoundError struct {
	Name string
}

func (e *CounterNotFoundError) Error() string {
	return fmt.Sprintf("Counter '%s' not found", e.Name)
}

// Is reports ErrCounterNotFound as a match so callers can use errors.Is.
func (e *CounterNotFoundError) Is(target error) bool {
	return target == ErrCounterNotFound
}

// NewCounterNotFound builds the error for the given counter name
func NewCounterNotFound(name string) error {
	return &CounterNotFoundError{Name: name}
}

// IOError wraps failures of the process input or output streams.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports ErrIO as a match so callers can use errors.Is.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError wraps err as an I/O failure of operation op
func NewIOError(op string, err error) error {
	return &IOError{Op: op, Err: err}
}
