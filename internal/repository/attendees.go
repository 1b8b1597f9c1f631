package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventhive/internal/database"
	apperrors "eventhive/internal/errors"
	"eventhive/internal/models"
)

type AttendeeRepository struct {
	db *database.DB
}

func NewAttendeeRepository(db *database.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// CreateTx inserts one attendee inside the booking transaction. A
// unique violation on the credential column means a generated token
// collided, which is an integrity defect, not a user error.
func (r *AttendeeRepository) CreateTx(ctx context.Context, tx *sql.Tx, attendee *models.Attendee) error {
	query := `
		INSERT INTO attendees (transaction_id, name, email, phone, gender, credential)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, attended, created_at`

	err := tx.QueryRowContext(ctx, query,
		attendee.TransactionID,
		attendee.Name,
		attendee.Email,
		attendee.Phone,
		attendee.Gender,
		attendee.Credential,
	).Scan(&attendee.ID, &attendee.Attended, &attendee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrCredentialCollision
		}
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}

func (r *AttendeeRepository) ListByBookingID(ctx context.Context, bookingID int64) ([]models.Attendee, error) {
	query := `
		SELECT id, transaction_id, name, email, phone, gender, credential,
		       attended, checked_in_at, created_at
		FROM attendees
		WHERE transaction_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []models.Attendee
	for rows.Next() {
		var a models.Attendee
		err := rows.Scan(
			&a.ID,
			&a.TransactionID,
			&a.Name,
			&a.Email,
			&a.Phone,
			&a.Gender,
			&a.Credential,
			&a.Attended,
			&a.CheckedInAt,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}

	return attendees, rows.Err()
}

// CheckInRow is an attendee joined with its booking and event, as
// needed by the check-in decision.
type CheckInRow struct {
	Attendee      models.Attendee
	BookingID     int64
	BookingStatus string
	EventID       int64
	EventStartsAt time.Time
}

// LockByCredentialTx loads the attendee row for a credential under a
// row lock, so concurrent presentations of the same token serialize
// and the attended flag flips at most once.
func (r *AttendeeRepository) LockByCredentialTx(ctx context.Context, tx *sql.Tx, credential string) (*CheckInRow, error) {
	query := `
		SELECT a.id, a.transaction_id, a.name, a.email, a.credential,
		       a.attended, a.checked_in_at,
		       t.id, t.status, e.id, e.starts_at
		FROM attendees a
		JOIN transactions t ON t.id = a.transaction_id
		JOIN events e ON e.id = t.event_id
		WHERE a.credential = $1
		FOR UPDATE OF a`

	row := &CheckInRow{}
	err := tx.QueryRowContext(ctx, query, credential).Scan(
		&row.Attendee.ID,
		&row.Attendee.TransactionID,
		&row.Attendee.Name,
		&row.Attendee.Email,
		&row.Attendee.Credential,
		&row.Attendee.Attended,
		&row.Attendee.CheckedInAt,
		&row.BookingID,
		&row.BookingStatus,
		&row.EventID,
		&row.EventStartsAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("lock attendee row: %w", err)
	}
	return row, nil
}

// MarkAttendedTx flips attended exactly once and records the time.
func (r *AttendeeRepository) MarkAttendedTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Attendee, error) {
	query := `
		UPDATE attendees
		SET attended = TRUE, checked_in_at = NOW()
		WHERE id = $1 AND attended = FALSE
		RETURNING id, name, checked_in_at`

	a := &models.Attendee{}
	err := tx.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.CheckedInAt)
	if err == sql.ErrNoRows {
		// Lost a race we should have been protected from by the row
		// lock; report rather than overwrite the original timestamp.
		return nil, apperrors.ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	return a, nil
}

// ListByEvent returns one page of an event's attendees with their
// booking codes, newest bookings first.
func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID int64, attended *bool, search string, page, pageSize int) ([]models.EventAttendeeRow, int64, error) {
	var args []interface{}
	argIndex := 1

	where := `WHERE t.event_id = $1 AND t.status = 'completed'`
	args = append(args, eventID)
	argIndex++

	if attended != nil {
		where += fmt.Sprintf(" AND a.attended = $%d", argIndex)
		args = append(args, *attended)
		argIndex++
	}

	if search != "" {
		where += fmt.Sprintf(" AND (a.name ILIKE $%d OR a.email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	base := ` FROM attendees a JOIN transactions t ON t.id = a.transaction_id ` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT a.id, t.booking_code, a.name, a.email, a.attended, a.checked_in_at` + base +
		fmt.Sprintf(" ORDER BY t.created_at DESC, a.id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.EventAttendeeRow
	for rows.Next() {
		var item models.EventAttendeeRow
		err := rows.Scan(
			&item.ID,
			&item.BookingCode,
			&item.Name,
			&item.Email,
			&item.Attended,
			&item.CheckedInAt,
		)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	return items, total, rows.Err()
}
