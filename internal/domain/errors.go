package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Request errors
	ErrMsgValidation = "validation failed"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Claim errors
	ErrMsgAlreadyClaimed = "already claimed"

	// Engine errors
	ErrMsgInternalConsistency = "internal consistency violation"

	// Lookup errors
	ErrMsgPoolNotFound    = "pool not found"
	ErrMsgBannerNotFound  = "banner not found"
	ErrMsgWheelNotFound   = "wheel not found"
	ErrMsgAttemptConflict = "attempt id reused for a different operation"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context,
// or return one of the typed errors below which match them through errors.Is.
var (
	ErrValidation          = errors.New(ErrMsgValidation)
	ErrInsufficientFunds   = errors.New(ErrMsgInsufficientFunds)
	ErrAlreadyClaimed      = errors.New(ErrMsgAlreadyClaimed)
	ErrInternalConsistency = errors.New(ErrMsgInternalConsistency)

	ErrPoolNotFound    = errors.New(ErrMsgPoolNotFound)
	ErrBannerNotFound  = errors.New(ErrMsgBannerNotFound)
	ErrWheelNotFound   = errors.New(ErrMsgWheelNotFound)
	ErrAttemptConflict = errors.New(ErrMsgAttemptConflict)

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
	ErrTxClosed      = errors.New(ErrMsgTxClosed)
)

// ValidationError rejects a request before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
	Err    error // optional lookup sentinel such as ErrPoolNotFound
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMsgValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Err != nil && target == e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientFundsError rejects a charge the player cannot pay.
type InsufficientFundsError struct {
	Currency Currency
	Need     int64
	Have     int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: need %d %s, have %d", ErrMsgInsufficientFunds, e.Need, e.Currency, e.Have)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// AlreadyClaimedError rejects a reused daily free spin.
type AlreadyClaimedError struct {
	Action          string
	NextAvailableAt time.Time
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("%s: %s available again at %s", ErrMsgAlreadyClaimed, e.Action, e.NextAvailableAt.UTC().Format(time.RFC3339))
}

func (e *AlreadyClaimedError) Is(target error) bool {
	return target == ErrAlreadyClaimed
}

// InternalConsistencyError reports engine state that must never occur,
// such as a table that does not sum to 100.
type InternalConsistencyError struct {
	Component string
	Detail    string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%s in %s: %s", ErrMsgInternalConsistency, e.Component, e.Detail)
}

func (e *InternalConsistencyError) Is(target error) bool {
	return target == ErrInternalConsistency
}

// NewInternalConsistencyError builds an InternalConsistencyError.
func NewInternalConsistencyError(component, format string, args ...interface{}) error {
	return &InternalConsistencyError{Component: component, Detail: fmt.Sprintf(format, args...)}
}
