package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBidNotFound      = errors.New("bid not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrBidNotPending    = errors.New("bid not available for assignment")
	ErrInvalidStatus    = errors.New("operation not legal in the bid's current status")
	ErrDuplicateQuote   = errors.New("vendor already has a live quote on this bid")
	ErrPermissionDenied = errors.New("caller role does not permit this operation")
)

// ValidationError names the offending field so callers can report it
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EligibilityReason is the first failing filter predicate, checks are ordered
// so a caller never receives more than one reason
type EligibilityReason string

const (
	ReasonNotLocal               EligibilityReason = "not local"
	ReasonNotVerified            EligibilityReason = "not verified"
	ReasonInsufficientExperience EligibilityReason = "insufficient experience"
)

type EligibilityError struct {
	Reason EligibilityReason
}

func (e *EligibilityError) Error() string {
	return "vendor not eligible: " + string(e.Reason)
}
