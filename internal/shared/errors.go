package shared

import "errors"

var (
	// ErrNotFound indicates a referenced record is absent.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock indicates a debit would drive inventory negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition indicates an operation on a terminal or disallowed state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrDuplicateRecordNumber indicates a record number collision.
	ErrDuplicateRecordNumber = errors.New("duplicate record number")
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
