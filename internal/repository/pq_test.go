package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsLockTimeout(t *testing.T) {
	lockErr := &pq.Error{Code: pq.ErrorCode(pgLockNotAvailable)}

	assert.True(t, isLockTimeout(lockErr))
	assert.True(t, isLockTimeout(fmt.Errorf("release inventory: %w", lockErr)),
		"wrapped lock timeouts must still be recognized")

	assert.False(t, isLockTimeout(&pq.Error{Code: pq.ErrorCode(pgUniqueViolation)}))
	assert.False(t, isLockTimeout(errors.New("connection reset")))
	assert.False(t, isLockTimeout(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: pq.ErrorCode(pgUniqueViolation)}

	assert.True(t, IsUniqueViolation(uniqueErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert booking: %w", uniqueErr)))

	assert.False(t, IsUniqueViolation(&pq.Error{Code: pq.ErrorCode(pgLockNotAvailable)}))
	assert.False(t, IsUniqueViolation(nil))
}
