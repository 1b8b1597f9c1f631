package database

import (
	"context"
	"database/sql"
	"fmt"
)

// InTx runs fn inside a transaction. The transaction is rolled back on
// any error or panic escaping fn, and committed otherwise. Multi-step
// mutations in the booking core go through here so no partial state is
// ever observable.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
