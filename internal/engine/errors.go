package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/swiss/internal/model"
)

// Error represents a failed engine operation.
//
// Errors are categorized by Code:
//   - Connection: the store could not be reached
//   - Not found: a match references an unregistered player
//   - Invalid state: the roster cannot be paired
//   - Integrity: standings disagree with players or the match ledger
//   - Invalid argument: a caller-supplied value is unusable
//   - Store: any other store failure
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	CodeConnection      ErrorCode = "CONNECTION"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeIntegrity       ErrorCode = "INTEGRITY"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeStore           ErrorCode = "STORE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConnection returns true if the store could not be reached.
func IsConnection(err error) bool {
	return CodeOf(err) == CodeConnection
}

// IsNotFound returns true if the error refers to an unregistered player.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsInvalidState returns true if the roster could not be paired.
func IsInvalidState(err error) bool {
	return CodeOf(err) == CodeInvalidState
}

// IsIntegrity returns true if an integrity check failed.
func IsIntegrity(err error) bool {
	return CodeOf(err) == CodeIntegrity
}

// IsInvalidArgument returns true if the caller passed an unusable value.
func IsInvalidArgument(err error) bool {
	return CodeOf(err) == CodeInvalidArgument
}

// NewOddRosterError creates an Error for a roster that cannot be split into pairs.
func NewOddRosterError(players int) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot pair %d players: an even, non-zero roster is required", players),
		Details: map[string]string{
			"players": fmt.Sprintf("%d", players),
		},
	}
}

// NewIntegrityError creates an Error describing an integrity violation.
func NewIntegrityError(message string, details map[string]string) *Error {
	return &Error{
		Code:    CodeIntegrity,
		Message: message,
		Details: details,
	}
}

// storeError classifies an error returned by the Store.
func storeError(op string, err error) *Error {
	switch {
	case errors.Is(err, model.ErrUnavailable):
		return &Error{Code: CodeConnection, Message: op, Err: err}
	case errors.Is(err, model.ErrUnknownPlayer):
		return &Error{Code: CodeNotFound, Message: op, Err: err}
	default:
		return &Error{Code: CodeStore, Message: op, Err: err}
	}
}
