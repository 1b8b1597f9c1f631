package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eventhive/internal/database"
	"eventhive/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, category, location, organizer_id, starts_at, ends_at,
       registration_starts_at, registration_ends_at, published, created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, category, location, organizer_id, starts_at, ends_at,
		                    registration_starts_at, registration_ends_at, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Category,
		event.Location,
		event.OrganizerID,
		event.StartsAt,
		event.EndsAt,
		event.RegistrationStartsAt,
		event.RegistrationEndsAt,
		event.Published,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Category,
		&event.Location,
		&event.OrganizerID,
		&event.StartsAt,
		&event.EndsAt,
		&event.RegistrationStartsAt,
		&event.RegistrationEndsAt,
		&event.Published,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// List returns published events, optionally filtered by category,
// paginated with ordinary bound parameters.
func (r *EventRepository) List(ctx context.Context, category string, page, pageSize int) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := `SELECT ` + eventColumns + ` FROM events WHERE published = TRUE`

	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, category)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY starts_at ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Category,
			&event.Location,
			&event.OrganizerID,
			&event.StartsAt,
			&event.EndsAt,
			&event.RegistrationStartsAt,
			&event.RegistrationEndsAt,
			&event.Published,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
