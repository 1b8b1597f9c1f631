package repository

import (
	"context"

	"eventhive/internal/database"
	"eventhive/internal/models"
)

// StatsRepository holds the read-only aggregations of the reporting
// layer. None of these queries feed back into availability decisions;
// sold_count on the tickets table stays authoritative.
type StatsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) EventStats(ctx context.Context, eventID int64) (*models.EventStatsResponse, error) {
	stats := &models.EventStatsResponse{EventID: eventID}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(sold_count), 0), COALESCE(SUM(max_total), 0)
		FROM tickets WHERE event_id = $1`,
		eventID,
	).Scan(&stats.TicketsSold, &stats.CapacityTotal)
	if err != nil {
		return nil, err
	}
	stats.CapacityRemaining = stats.CapacityTotal - stats.TicketsSold

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'refunded'),
		       COALESCE(SUM(total_amount_cents) FILTER (WHERE status = 'completed'), 0)
		FROM transactions WHERE event_id = $1`,
		eventID,
	).Scan(&stats.BookingsCount, &stats.RefundedCount, &stats.RevenueCents)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE a.attended)
		FROM attendees a
		JOIN transactions t ON t.id = a.transaction_id
		WHERE t.event_id = $1 AND t.status = 'completed'`,
		eventID,
	).Scan(&stats.AttendeesCount, &stats.CheckedInCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatsRepository) UserStats(ctx context.Context, userID int64) (*models.UserStatsResponse, error) {
	stats := &models.UserStatsResponse{UserID: userID}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COUNT(DISTINCT event_id),
		       COALESCE(SUM(total_amount_cents), 0)
		FROM transactions
		WHERE user_id = $1 AND status = 'completed'`,
		userID,
	).Scan(&stats.BookingsCount, &stats.TicketsBought, &stats.EventsCount, &stats.SpentCents)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatsRepository) GlobalStats(ctx context.Context) (*models.GlobalStatsResponse, error) {
	stats := &models.GlobalStatsResponse{}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events`,
	).Scan(&stats.EventsCount)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'completed'),
		       COALESCE(SUM(quantity) FILTER (WHERE status = 'completed'), 0),
		       COALESCE(SUM(total_amount_cents) FILTER (WHERE status = 'completed'), 0)
		FROM transactions`,
	).Scan(&stats.BookingsCount, &stats.TicketsSold, &stats.RevenueCents)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE attended)
		FROM attendees a
		JOIN transactions t ON t.id = a.transaction_id
		WHERE t.status = 'completed'`,
	).Scan(&stats.AttendeesCount, &stats.CheckedInCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
