package service

import (
	"context"
	"fmt"

	apperrors "eventhive/internal/errors"
	"eventhive/internal/models"
	"eventhive/internal/repository"
)

// StatsService is the read-only reporting layer. Every number comes
// from aggregation queries; nothing here mutates state.
type StatsService struct {
	stats     *repository.StatsRepository
	events    *repository.EventRepository
	attendees *repository.AttendeeRepository
}

func NewStatsService(repos *repository.Repositories) *StatsService {
	return &StatsService{
		stats:     repos.Stats,
		events:    repos.Events,
		attendees: repos.Attendees,
	}
}

func (s *StatsService) EventStats(ctx context.Context, requesterID int64, isAdmin bool, eventID int64) (*models.EventStatsResponse, error) {
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
	return s.stats.EventStats(ctx, eventID)
}

func (s *StatsService) UserStats(ctx context.Context, userID int64) (*models.UserStatsResponse, error) {
	return s.stats.UserStats(ctx, userID)
}

func (s *StatsService) GlobalStats(ctx context.Context, isAdmin bool) (*models.GlobalStatsResponse, error) {
	if !isAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.stats.GlobalStats(ctx)
}

// EventAttendees returns one page of an event's attendees for its
// organizer or an admin.
func (s *StatsService) EventAttendees(ctx context.Context, requesterID int64, isAdmin bool, eventID int64, attended *bool, search string, page, pageSize int) (*models.ListEventAttendeesResponse, error) {
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

	items, total, err := s.attendees.ListByEvent(ctx, eventID, attended, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return &models.ListEventAttendeesResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
