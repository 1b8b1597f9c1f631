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

// TicketRepository is the inventory ledger. sold_count is mutated only
// here, always under the row lock taken by LockForUpdate or behind a
// conditional UPDATE, so concurrent reservations for the same ticket
// type serialize and can never oversell.
type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, event_id, name, price_cents, max_per_user, max_total,
       sold_count, sale_starts_at, sale_ends_at, active, created_at, updated_at`

func scanTicket(row *sql.Row) (*models.Ticket, error) {
	t := &models.Ticket{}
	err := row.Scan(
		&t.ID,
		&t.EventID,
		&t.Name,
		&t.PriceCents,
		&t.MaxPerUser,
		&t.MaxTotal,
		&t.SoldCount,
		&t.SaleStartsAt,
		&t.SaleEndsAt,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (event_id, name, price_cents, max_per_user, max_total,
		                     sale_starts_at, sale_ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, sold_count, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		ticket.EventID,
		ticket.Name,
		ticket.PriceCents,
		ticket.MaxPerUser,
		ticket.MaxTotal,
		ticket.SaleStartsAt,
		ticket.SaleEndsAt,
		ticket.Active,
	).Scan(&ticket.ID, &ticket.SoldCount, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.db.QueryRowContext(ctx, query, id))
}

func (r *TicketRepository) ListByEventID(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		err := rows.Scan(
			&t.ID,
			&t.EventID,
			&t.Name,
			&t.PriceCents,
			&t.MaxPerUser,
			&t.MaxTotal,
			&t.SoldCount,
			&t.SaleStartsAt,
			&t.SaleEndsAt,
			&t.Active,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

// LockForUpdate loads a ticket row joined with its event under an
// exclusive row lock on the ticket, waiting at most lockTimeout. The
// lock is held until the surrounding transaction resolves, which
// serializes all booking and cancellation work on this ticket type. A
// lock wait that exceeds the bound maps to the retryable
// ErrInventoryContended.
func (r *TicketRepository) LockForUpdate(ctx context.Context, tx *sql.Tx, id int64, lockTimeout time.Duration) (*models.Ticket, *models.Event, error) {
	if err := SetTxLockTimeout(ctx, tx, lockTimeout); err != nil {
		return nil, nil, err
	}

	query := `
		SELECT t.id, t.event_id, t.name, t.price_cents, t.max_per_user, t.max_total,
		       t.sold_count, t.sale_starts_at, t.sale_ends_at, t.active, t.created_at, t.updated_at,
		       e.id, e.name, e.organizer_id, e.starts_at, e.ends_at,
		       e.registration_starts_at, e.registration_ends_at, e.published
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.id = $1
		FOR UPDATE OF t`

	ticket := &models.Ticket{}
	event := &models.Event{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Name,
		&ticket.PriceCents,
		&ticket.MaxPerUser,
		&ticket.MaxTotal,
		&ticket.SoldCount,
		&ticket.SaleStartsAt,
		&ticket.SaleEndsAt,
		&ticket.Active,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&event.ID,
		&event.Name,
		&event.OrganizerID,
		&event.StartsAt,
		&event.EndsAt,
		&event.RegistrationStartsAt,
		&event.RegistrationEndsAt,
		&event.Published,
	)
	if err == sql.ErrNoRows {
		return nil, nil, apperrors.ErrTicketNotFound
	}
	if err != nil {
		if isLockTimeout(err) {
			return nil, nil, apperrors.ErrInventoryContended
		}
		return nil, nil, fmt.Errorf("lock ticket row: %w", err)
	}
	return ticket, event, nil
}

// ReserveTx atomically claims quantity units. The conditional WHERE is
// the authoritative no-oversell guard even if a caller skipped the
// pre-checks: sold_count never observably exceeds max_total.
func (r *TicketRepository) ReserveTx(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	query := `
		UPDATE tickets
		SET sold_count = sold_count + $2, updated_at = NOW()
		WHERE id = $1 AND active = TRUE AND sold_count + $2 <= max_total`

	res, err := tx.ExecContext(ctx, query, id, quantity)
	if err != nil {
		if isLockTimeout(err) {
			return apperrors.ErrInventoryContended
		}
		return fmt.Errorf("reserve inventory: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve inventory: %w", err)
	}
	if affected == 0 {
		var exists, active bool
		err := tx.QueryRowContext(ctx,
			`SELECT TRUE, active FROM tickets WHERE id = $1`, id).Scan(&exists, &active)
		if err == sql.ErrNoRows {
			return apperrors.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("reserve inventory: %w", err)
		}
		if !active {
			return apperrors.ErrTicketInactive
		}
		return apperrors.ErrInsufficientInventory
	}
	return nil
}

// ReleaseTx returns quantity units to the pool. The decrement is
// clamped by the conditional WHERE; a release that would underflow is
// an invariant violation surfaced as ErrInventoryUnderflow, never
// silently corrected.
func (r *TicketRepository) ReleaseTx(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	query := `
		UPDATE tickets
		SET sold_count = sold_count - $2, updated_at = NOW()
		WHERE id = $1 AND sold_count >= $2`

	res, err := tx.ExecContext(ctx, query, id, quantity)
	if err != nil {
		if isLockTimeout(err) {
			return apperrors.ErrInventoryContended
		}
		return fmt.Errorf("release inventory: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release inventory: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT TRUE FROM tickets WHERE id = $1`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperrors.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("release inventory: %w", err)
		}
		return apperrors.ErrInventoryUnderflow
	}
	return nil
}
