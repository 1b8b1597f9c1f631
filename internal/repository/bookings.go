package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eventhive/internal/database"
	apperrors "eventhive/internal/errors"
	"eventhive/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, booking_code, user_id, event_id, ticket_id, quantity,
       total_amount_cents, status, created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	b := &models.Booking{}
	err := scan(
		&b.ID,
		&b.BookingCode,
		&b.UserID,
		&b.EventID,
		&b.TicketID,
		&b.Quantity,
		&b.TotalAmountCents,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// CreateTx inserts the booking row inside the booking transaction.
// A unique violation on booking_code is reported as-is so the caller
// can retry with a fresh code.
func (r *BookingRepository) CreateTx(ctx context.Context, tx *sql.Tx, booking *models.Booking) error {
	query := `
		INSERT INTO transactions (booking_code, user_id, event_id, ticket_id, quantity,
		                          total_amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return tx.QueryRowContext(ctx, query,
		booking.BookingCode,
		booking.UserID,
		booking.EventID,
		booking.TicketID,
		booking.Quantity,
		booking.TotalAmountCents,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM transactions WHERE booking_code = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, code).Scan)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM transactions WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id).Scan)
}

// LockByCode loads a booking under a row lock so the status transition
// in cancellation is evaluated exactly once per booking.
func (r *BookingRepository) LockByCode(ctx context.Context, tx *sql.Tx, code string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM transactions WHERE booking_code = $1 FOR UPDATE`
	booking, err := scanBooking(tx.QueryRowContext(ctx, query, code).Scan)
	if err != nil {
		if isLockTimeout(err) {
			return nil, apperrors.ErrInventoryContended
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

// MarkRefundedTx flips completed -> refunded. Zero rows affected means
// the booking was not in completed status.
func (r *BookingRepository) MarkRefundedTx(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	res, err := tx.ExecContext(ctx, query, models.BookingStatusRefunded, id, models.BookingStatusCompleted)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAlreadyCancelled
	}
	return nil
}

// CompletedQuantityForUserEventTx sums the user's prior completed
// quantity on an event. Must run inside the same transaction as the
// inventory check so both caps are evaluated under one consistency
// scope.
func (r *BookingRepository) CompletedQuantityForUserEventTx(ctx context.Context, tx *sql.Tx, userID, eventID int64) (int, error) {
	var total int
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM transactions
		WHERE user_id = $1 AND event_id = $2 AND status = $3`,
		userID, eventID, models.BookingStatusCompleted,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum prior quantity: %w", err)
	}
	return total, nil
}

// ListByUser returns one page of the user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, status string, page, pageSize int) ([]models.Booking, int64, error) {
	var args []interface{}
	argIndex := 1

	where := `WHERE user_id = $1`
	args = append(args, userID)
	argIndex++

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` FROM transactions ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID,
			&b.BookingCode,
			&b.UserID,
			&b.EventID,
			&b.TicketID,
			&b.Quantity,
			&b.TotalAmountCents,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}

	return bookings, total, rows.Err()
}
