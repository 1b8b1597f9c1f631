package service

import (
	"context"
	"fmt"

	apperrors "eventhive/internal/errors"
	"eventhive/internal/models"
	"eventhive/internal/repository"
)

// EventService is the catalog: events and the ticket types under them.
// It never touches sold_count; all inventory movement goes through the
// booking transactions.
type EventService struct {
	events  *repository.EventRepository
	tickets *repository.TicketRepository
}

func NewEventService(repos *repository.Repositories) *EventService {
	return &EventService{
		events:  repos.Events,
		tickets: repos.Tickets,
	}
}

func (s *EventService) Create(ctx context.Context, organizerID int64, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.NewValidation("ends_at", "must be after starts_at")
	}
	if req.RegistrationEndsAt.Before(req.RegistrationStartsAt) {
		return nil, apperrors.NewValidation("registration_ends_at", "must not be before registration_starts_at")
	}

	event := &models.Event{
		Name:                 req.Name,
		Category:             req.Category,
		Location:             req.Location,
		OrganizerID:          organizerID,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		RegistrationStartsAt: req.RegistrationStartsAt,
		RegistrationEndsAt:   req.RegistrationEndsAt,
		Published:            req.Published,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return &models.CreateEventResponse{ID: event.ID}, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, category string, page, pageSize int) ([]models.Event, error) {
	events, err := s.events.List(ctx, category, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CreateTicket adds a ticket type under an event. Only the organizer
// who owns the event (or an admin) may do this.
func (s *EventService) CreateTicket(ctx context.Context, requesterID int64, isAdmin bool, eventID int64, req *models.CreateTicketRequest) (*models.CreateTicketResponse, error) {
	if req.MaxTotal < 1 {
		return nil, apperrors.NewValidation("max_total", "must be at least 1")
	}
	if req.MaxPerUser < 1 {
		return nil, apperrors.NewValidation("max_per_user", "must be at least 1")
	}
	if req.PriceCents < 0 {
		return nil, apperrors.NewValidation("price_cents", "must not be negative")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	if !isAdmin && event.OrganizerID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	ticket := &models.Ticket{
		EventID:      eventID,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		MaxPerUser:   req.MaxPerUser,
		MaxTotal:     req.MaxTotal,
		SaleStartsAt: req.SaleStartsAt,
		SaleEndsAt:   req.SaleEndsAt,
		Active:       true,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return &models.CreateTicketResponse{ID: ticket.ID}, nil
}

// ListTickets returns availability for every ticket type of an event.
// Remaining comes straight from the ledger row.
func (s *EventService) ListTickets(ctx context.Context, eventID int64) ([]models.TicketAvailabilityItem, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	tickets, err := s.tickets.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	items := make([]models.TicketAvailabilityItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, models.TicketAvailabilityItem{
			ID:         t.ID,
			Name:       t.Name,
			PriceCents: t.PriceCents,
			MaxPerUser: t.MaxPerUser,
			Remaining:  t.Remaining(),
			Active:     t.Active,
		})
	}
	return items, nil
}

// IsOrganizerOf reports whether requester may read organizer-only
// views of the event.
func (s *EventService) IsOrganizerOf(ctx context.Context, requesterID int64, isAdmin bool, eventID int64) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}
	if !isAdmin && event.OrganizerID != requesterID {
		return apperrors.ErrForbidden
	}
	return nil
}
