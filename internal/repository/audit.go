package repository

import (
	"context"
	"encoding/json"

	"eventhive/internal/database"
)

// AuditRepository persists the booking audit trail written by the
// consumers binary from published lifecycle events.
type AuditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, subject string, bookingID, eventID int64, payload json.RawMessage) error {
	query := `
		INSERT INTO booking_audit (subject, booking_id, event_id, payload)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, subject, bookingID, eventID, []byte(payload))
	return err
}
