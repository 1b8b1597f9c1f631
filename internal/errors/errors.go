// Package errors defines the typed error taxonomy raised by the booking
// core. The HTTP boundary maps these onto status codes; everything else
// wraps them with %w and checks them with errors.Is.
package errors

import "errors"

// Business-rule violations. Expected, user-facing, not retryable
// without changing the request.
var (
	ErrTicketNotFound           = errors.New("ticket type not found")
	ErrTicketInactive           = errors.New("ticket type is not active")
	ErrRegistrationClosed       = errors.New("registration window is closed")
	ErrInsufficientInventory    = errors.New("not enough tickets remaining")
	ErrPerUserLimitExceeded     = errors.New("per-user ticket limit exceeded")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
	ErrCheckInOutsideWindow     = errors.New("check-in is outside the event window")
)

// Lookup and access failures.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidCredential = errors.New("credential is not valid")
	ErrUnauthorized      = errors.New("user is not authorized")
	ErrForbidden         = errors.New("operation is forbidden for user")
)

// Transient contention. Safe for the caller to retry as-is.
var ErrInventoryContended = errors.New("inventory row is contended")

// Integrity violations. These indicate a defect or corrupted data and
// must be logged loudly, never silently corrected.
var (
	ErrInventoryUnderflow   = errors.New("inventory release would drive sold count negative")
	ErrCredentialCollision  = errors.New("credential token collision")
	ErrBookingCodeExhausted = errors.New("could not generate a unique booking code")
)

// ValidationError rejects malformed input before any transaction
// starts, with field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// NewValidation builds a field-level validation error.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBusiness reports whether err is an expected business-rule violation.
func IsBusiness(err error) bool {
	for _, e := range []error{
		ErrTicketInactive,
		ErrRegistrationClosed,
		ErrInsufficientInventory,
		ErrPerUserLimitExceeded,
		ErrAlreadyCancelled,
		ErrCancellationWindowClosed,
		ErrCheckInOutsideWindow,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrInvalidCredential)
}

// IsRetryable reports whether err is transient and the caller may retry
// the same request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInventoryContended)
}

// IsIntegrity reports whether err indicates an invariant violation.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrInventoryUnderflow) ||
		errors.Is(err, ErrCredentialCollision) ||
		errors.Is(err, ErrBookingCodeExhausted)
}
