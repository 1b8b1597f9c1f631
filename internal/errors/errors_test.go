package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyClassesAreDisjoint(t *testing.T) {
	business := []error{
		ErrTicketInactive,
		ErrRegistrationClosed,
		ErrInsufficientInventory,
		ErrPerUserLimitExceeded,
		ErrAlreadyCancelled,
		ErrCancellationWindowClosed,
		ErrCheckInOutsideWindow,
	}
	for _, err := range business {
		assert.True(t, IsBusiness(err), "%v", err)
		assert.False(t, IsRetryable(err), "%v", err)
		assert.False(t, IsIntegrity(err), "%v", err)
	}

	notFound := []error{ErrTicketNotFound, ErrEventNotFound, ErrBookingNotFound, ErrInvalidCredential}
	for _, err := range notFound {
		assert.True(t, IsNotFound(err), "%v", err)
		assert.False(t, IsBusiness(err), "%v", err)
	}

	assert.True(t, IsRetryable(ErrInventoryContended))
	assert.False(t, IsBusiness(ErrInventoryContended))

	integrity := []error{ErrInventoryUnderflow, ErrCredentialCollision, ErrBookingCodeExhausted}
	for _, err := range integrity {
		assert.True(t, IsIntegrity(err), "%v", err)
		assert.False(t, IsRetryable(err), "%v", err)
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", ErrInsufficientInventory)
	assert.True(t, IsBusiness(wrapped))

	doubly := fmt.Errorf("handler: %w", fmt.Errorf("tx: %w", ErrInventoryContended))
	assert.True(t, IsRetryable(doubly))
}

func TestValidationError(t *testing.T) {
	err := NewValidation("quantity", "must be between 1 and 10")

	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "quantity")

	wrapped := fmt.Errorf("bind: %w", err)
	assert.True(t, IsValidation(wrapped))

	assert.False(t, IsValidation(ErrInsufficientInventory))
}
