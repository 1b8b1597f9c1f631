package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Postgres error codes the booking path cares about.
const (
	pgLockNotAvailable = "55P03"
	pgUniqueViolation  = "23505"
)

// SetTxLockTimeout bounds every lock wait in the transaction. SET
// LOCAL is scoped to the transaction, so nothing leaks to other
// statements on the pooled connection. A wait that exceeds the bound
// fails the statement with 55P03, which the repositories map to the
// retryable contention error.
func SetTxLockTimeout(ctx context.Context, tx *sql.Tx, d time.Duration) error {
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.Milliseconds())); err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}
	return nil
}

func isLockTimeout(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgLockNotAvailable
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

// IsUniqueViolation is used by services to detect booking code and
// credential collisions.
func IsUniqueViolation(err error) bool { return isUniqueViolation(err) }
