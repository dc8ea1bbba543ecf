package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input such as an empty plate.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a plate that is already parked or a session that is already finalized.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrUnauthorized represents a failed admin login.
	ErrUnauthorized = errors.New("invalid credentials")
)

// StoreError wraps a failure of the underlying store. It is returned as-is to
// callers; the service never retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
