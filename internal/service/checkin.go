package service

import (
	"context"
	"database/sql"
	"time"

	"eventhive/internal/config"
	"eventhive/internal/database"
	apperrors "eventhive/internal/errors"
	"eventhive/internal/logger"
	"eventhive/internal/messaging"
	"eventhive/internal/metrics"
	"eventhive/internal/models"
	"eventhive/internal/repository"
)

// CheckInService flips the attended flag for presented credentials.
// Repeated presentation of the same credential is not an error; the
// original timestamp is returned unchanged.
type CheckInService struct {
	db         *database.DB
	attendees  *repository.AttendeeRepository
	natsClient *messaging.NATSClient
	policy     config.BookingPolicy
}

func NewCheckInService(repos *repository.Repositories, db *database.DB, natsClient *messaging.NATSClient, policy config.BookingPolicy) *CheckInService {
	return &CheckInService{
		db:         db,
		attendees:  repos.Attendees,
		natsClient: natsClient,
		policy:     policy,
	}
}

// CheckIn validates one credential and marks its attendee as checked
// in. The row lock makes concurrent presentations of the same token
// serialize, so exactly one of them performs the flip.
func (s *CheckInService) CheckIn(ctx context.Context, credential string) (*models.CheckInResponse, error) {
	var resp *models.CheckInResponse
	var checkedIn models.AttendeeCheckedInEvent
	publish := false

	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		row, err := s.attendees.LockByCredentialTx(ctx, tx, credential)
		if err != nil {
			return err
		}
		if row.BookingStatus != models.BookingStatusCompleted {
			// A cancelled booking's credentials are dead tokens.
			return apperrors.ErrInvalidCredential
		}

		if row.Attendee.Attended {
			at := time.Now()
			if row.Attendee.CheckedInAt != nil {
				at = *row.Attendee.CheckedInAt
			}
			resp = &models.CheckInResponse{
				AttendeeName:     row.Attendee.Name,
				EventID:          row.EventID,
				CheckedInAt:      at,
				AlreadyCheckedIn: true,
			}
			return nil
		}

		if !WithinCheckInWindow(row.EventStartsAt, time.Now(), s.policy.CheckInTolerance, s.policy.CheckInLocation) {
			return apperrors.ErrCheckInOutsideWindow
		}

		updated, err := s.attendees.MarkAttendedTx(ctx, tx, row.Attendee.ID)
		if err != nil {
			return err
		}

		at := time.Now()
		if updated.CheckedInAt != nil {
			at = *updated.CheckedInAt
		}
		resp = &models.CheckInResponse{
			AttendeeName: row.Attendee.Name,
			EventID:      row.EventID,
			CheckedInAt:  at,
		}
		checkedIn = models.AttendeeCheckedInEvent{
			AttendeeID:  row.Attendee.ID,
			BookingID:   row.BookingID,
			EventID:     row.EventID,
			CheckedInAt: at,
			Timestamp:   at,
		}
		publish = true
		return nil
	})

	if err != nil {
		switch {
		case apperrors.IsBusiness(err) || apperrors.IsNotFound(err):
			metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		default:
			metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	if resp.AlreadyCheckedIn {
		metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeAlreadyCheckedIn).Inc()
		return resp, nil
	}
	metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	if publish {
		if err := s.natsClient.Publish(models.EventAttendeeCheckedIn, checkedIn); err != nil {
			logger.WithContext(ctx).Error("Failed to publish check-in event",
				"error", err,
				"attendee_id", checkedIn.AttendeeID,
				"event_type", models.EventAttendeeCheckedIn)
		}
	}

	return resp, nil
}

// BulkCheckIn applies CheckIn to every credential independently. One
// bad token never aborts the rest of the batch.
func (s *CheckInService) BulkCheckIn(ctx context.Context, credentials []string) *models.BulkCheckInResponse {
	resp := &models.BulkCheckInResponse{
		Results: make([]models.BulkCheckInResult, 0, len(credentials)),
		Total:   len(credentials),
	}

	for _, credential := range credentials {
		result := models.BulkCheckInResult{Credential: credential}

		one, err := s.CheckIn(ctx, credential)
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.OK = true
			result.AttendeeName = one.AttendeeName
			at := one.CheckedInAt
			result.CheckedInAt = &at
			if one.AlreadyCheckedIn {
				result.AlreadyCheckedIn = true
				resp.AlreadyCheckedIn++
			} else {
				resp.Succeeded++
			}
		}

		resp.Results = append(resp.Results, result)
	}

	return resp
}

// WithinCheckInWindow reports whether now falls inside the tolerance
// around the event's start date. The comparison is by calendar day in
// loc (nil means UTC), so a same-day check-in passes regardless of the
// hour, including near local midnight.
func WithinCheckInWindow(eventStart, now time.Time, tolerance time.Duration, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	e := eventStart.In(loc)
	n := now.In(loc)
	eventDay := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)

	// Counting midnights instead of subtracting durations keeps DST
	// transitions from shifting a day across the tolerance boundary.
	days := int64(today.Sub(eventDay).Hours()/24 + 0.5)
	if today.Before(eventDay) {
		days = int64(eventDay.Sub(today).Hours()/24 + 0.5)
	}
	return days <= int64(tolerance/(24*time.Hour))
}
