package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"eventhive/internal/config"
	"eventhive/internal/database"
	apperrors "eventhive/internal/errors"
	"eventhive/internal/logger"
	"eventhive/internal/messaging"
	"eventhive/internal/metrics"
	"eventhive/internal/models"
	"eventhive/internal/repository"

	"github.com/google/uuid"
)

// errCodeCollision signals the create loop to retry with a fresh code.
var errCodeCollision = errors.New("booking code already taken")

// BookingService is the booking transaction manager plus the symmetric
// cancellation manager. Every mutation runs as one transaction: all
// checks, the booking and attendee inserts, and the inventory movement
// commit together or not at all.
type BookingService struct {
	db         *database.DB
	tickets    *repository.TicketRepository
	bookings   *repository.BookingRepository
	attendees  *repository.AttendeeRepository
	events     *repository.EventRepository
	natsClient *messaging.NATSClient
	policy     config.BookingPolicy
}

func NewBookingService(repos *repository.Repositories, db *database.DB, natsClient *messaging.NATSClient, policy config.BookingPolicy) *BookingService {
	return &BookingService{
		db:         db,
		tickets:    repos.Tickets,
		bookings:   repos.Bookings,
		attendees:  repos.Attendees,
		events:     repos.Events,
		natsClient: natsClient,
		policy:     policy,
	}
}

// Create books quantity units of one ticket type for userID and issues
// one credential per attendee. On any failure no booking, attendee, or
// inventory change from this attempt remains observable.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > s.policy.MaxQuantityPerBooking {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.NewValidation("quantity",
			fmt.Sprintf("must be between 1 and %d", s.policy.MaxQuantityPerBooking))
	}
	if len(req.Attendees) != quantity {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.NewValidation("attendees",
			fmt.Sprintf("expected %d attendee records, got %d", quantity, len(req.Attendees)))
	}

	var resp *models.BookingResponse
	var err error
	for attempt := 0; attempt <= s.policy.BookingCodeRetries; attempt++ {
		resp, err = s.createOnce(ctx, userID, req, quantity)
		if !errors.Is(err, errCodeCollision) {
			break
		}
		logger.WithContext(ctx).Warn("Booking code collision, retrying", "attempt", attempt+1)
	}
	if errors.Is(err, errCodeCollision) {
		err = apperrors.ErrBookingCodeExhausted
	}

	if err != nil {
		switch {
		case apperrors.IsRetryable(err):
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeContended).Inc()
		case apperrors.IsBusiness(err) || apperrors.IsNotFound(err):
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		default:
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	event := models.BookingCreatedEvent{
		BookingID:   resp.ID,
		BookingCode: resp.BookingCode,
		EventID:     resp.EventID,
		TicketID:    resp.TicketID,
		UserID:      userID,
		Quantity:    resp.Quantity,
		AmountCents: resp.TotalAmountCents,
		Timestamp:   time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingCreated, event); err != nil {
		// The booking is durable; a lost lifecycle event is not fatal.
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"booking_id", resp.ID,
			"event_type", models.EventBookingCreated)
	}

	return resp, nil
}

func (s *BookingService) createOnce(ctx context.Context, userID int64, req *models.CreateBookingRequest, quantity int) (*models.BookingResponse, error) {
	var resp *models.BookingResponse

	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		now := time.Now()

		// The row lock serializes every booking and cancellation on
		// this ticket type until commit, so the checks below and the
		// sold_count increment act as one indivisible step.
		ticket, event, err := s.tickets.LockForUpdate(ctx, tx, req.TicketID, s.policy.InventoryLockTimeout)
		if err != nil {
			return err
		}
		if ticket.EventID != req.EventID || !event.Published {
			return apperrors.ErrTicketNotFound
		}
		if !ticket.Active {
			return apperrors.ErrTicketInactive
		}
		if now.Before(event.RegistrationStartsAt) || now.After(event.RegistrationEndsAt) {
			return apperrors.ErrRegistrationClosed
		}
		if ticket.SaleStartsAt != nil && now.Before(*ticket.SaleStartsAt) {
			return apperrors.ErrRegistrationClosed
		}
		if ticket.SaleEndsAt != nil && now.After(*ticket.SaleEndsAt) {
			return apperrors.ErrRegistrationClosed
		}
		if quantity > ticket.Remaining() {
			return apperrors.ErrInsufficientInventory
		}
		if quantity > ticket.MaxPerUser {
			return apperrors.ErrPerUserLimitExceeded
		}

		// The per-user cap is event-wide, summed across all of the
		// user's completed bookings, and is evaluated inside the same
		// lock scope as the inventory check.
		prior, err := s.bookings.CompletedQuantityForUserEventTx(ctx, tx, userID, event.ID)
		if err != nil {
			return err
		}
		if prior+quantity > ticket.MaxPerUser {
			return apperrors.ErrPerUserLimitExceeded
		}

		booking := &models.Booking{
			BookingCode:      NewBookingCode(),
			UserID:           userID,
			EventID:          event.ID,
			TicketID:         ticket.ID,
			Quantity:         quantity,
			TotalAmountCents: ticket.PriceCents * int64(quantity),
			Status:           models.BookingStatusCompleted,
		}
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			if repository.IsUniqueViolation(err) {
				return errCodeCollision
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		attendees := make([]models.AttendeeResponse, 0, quantity)
		for _, in := range req.Attendees {
			attendee := &models.Attendee{
				TransactionID: booking.ID,
				Name:          in.Name,
				Email:         in.Email,
				Phone:         in.Phone,
				Gender:        in.Gender,
				Credential:    uuid.New().String(),
			}
			if err := s.attendees.CreateTx(ctx, tx, attendee); err != nil {
				return err
			}
			attendees = append(attendees, models.AttendeeResponse{
				ID:         attendee.ID,
				Name:       attendee.Name,
				Email:      attendee.Email,
				Credential: attendee.Credential,
			})
		}

		if err := s.tickets.ReserveTx(ctx, tx, ticket.ID, quantity); err != nil {
			return err
		}

		resp = &models.BookingResponse{
			ID:               booking.ID,
			BookingCode:      booking.BookingCode,
			EventID:          booking.EventID,
			TicketID:         booking.TicketID,
			Quantity:         booking.Quantity,
			TotalAmountCents: booking.TotalAmountCents,
			Status:           booking.Status,
			CreatedAt:        booking.CreatedAt,
			Attendees:        attendees,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel reverses a booking and releases its inventory. Non-admin
// callers may only cancel their own booking.
func (s *BookingService) Cancel(ctx context.Context, code string, requesterID int64, isAdmin bool) error {
	var cancelled models.BookingCancelledEvent

	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		// Same bounded wait as the booking path: the release touches
		// the ticket row that concurrent bookings hold FOR UPDATE.
		if err := repository.SetTxLockTimeout(ctx, tx, s.policy.InventoryLockTimeout); err != nil {
			return err
		}

		booking, err := s.bookings.LockByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if !isAdmin && booking.UserID != requesterID {
			// Do not reveal other users' booking codes.
			return apperrors.ErrBookingNotFound
		}
		if booking.Status == models.BookingStatusRefunded {
			return apperrors.ErrAlreadyCancelled
		}

		event, err := s.events.GetByID(ctx, booking.EventID)
		if err != nil {
			return fmt.Errorf("load event: %w", err)
		}
		if event == nil {
			return apperrors.ErrEventNotFound
		}
		if !Cancellable(event.StartsAt, time.Now(), s.policy.CancellationCutoff) {
			return apperrors.ErrCancellationWindowClosed
		}

		if err := s.bookings.MarkRefundedTx(ctx, tx, booking.ID); err != nil {
			return err
		}
		if err := s.tickets.ReleaseTx(ctx, tx, booking.TicketID, booking.Quantity); err != nil {
			if apperrors.IsIntegrity(err) {
				logger.WithContext(ctx).Error("Inventory invariant violation on release",
					"error", err,
					"booking_code", booking.BookingCode,
					"ticket_id", booking.TicketID,
					"quantity", booking.Quantity)
			}
			return err
		}

		cancelled = models.BookingCancelledEvent{
			BookingID:   booking.ID,
			BookingCode: booking.BookingCode,
			EventID:     booking.EventID,
			TicketID:    booking.TicketID,
			Quantity:    booking.Quantity,
			Reason:      "User cancellation",
			Timestamp:   time.Now(),
		}
		return nil
	})

	if err != nil {
		switch {
		case apperrors.IsRetryable(err):
			metrics.CancellationsTotal.WithLabelValues(metrics.OutcomeContended).Inc()
		case apperrors.IsBusiness(err) || apperrors.IsNotFound(err):
			metrics.CancellationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		default:
			metrics.CancellationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return err
	}

	metrics.CancellationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	if err := s.natsClient.Publish(models.EventBookingCancelled, cancelled); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
			"error", err,
			"booking_id", cancelled.BookingID,
			"event_type", models.EventBookingCancelled)
	}

	return nil
}

// GetByCode returns a booking with its attendees. Credentials are not
// repeated here; they are surfaced exactly once at creation.
func (s *BookingService) GetByCode(ctx context.Context, code string, requesterID int64, isAdmin bool) (*models.BookingResponse, error) {
	booking, err := s.bookings.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, apperrors.ErrBookingNotFound
	}

	attendees, err := s.attendees.ListByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}

	resp := &models.BookingResponse{
		ID:               booking.ID,
		BookingCode:      booking.BookingCode,
		EventID:          booking.EventID,
		TicketID:         booking.TicketID,
		Quantity:         booking.Quantity,
		TotalAmountCents: booking.TotalAmountCents,
		Status:           booking.Status,
		CreatedAt:        booking.CreatedAt,
		Attendees:        make([]models.AttendeeResponse, 0, len(attendees)),
	}
	for _, a := range attendees {
		resp.Attendees = append(resp.Attendees, models.AttendeeResponse{
			ID:          a.ID,
			Name:        a.Name,
			Email:       a.Email,
			Attended:    a.Attended,
			CheckedInAt: a.CheckedInAt,
		})
	}
	return resp, nil
}

// List returns one page of the user's bookings.
func (s *BookingService) List(ctx context.Context, userID int64, status string, page, pageSize int) (*models.ListBookingsResponse, error) {
	bookings, total, err := s.bookings.ListByUser(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	resp := &models.ListBookingsResponse{
		Items:    make([]models.ListBookingsResponseItem, 0, len(bookings)),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	for _, b := range bookings {
		resp.Items = append(resp.Items, models.ListBookingsResponseItem{
			ID:               b.ID,
			BookingCode:      b.BookingCode,
			EventID:          b.EventID,
			TicketID:         b.TicketID,
			Quantity:         b.Quantity,
			TotalAmountCents: b.TotalAmountCents,
			Status:           b.Status,
			CreatedAt:        b.CreatedAt,
		})
	}
	return resp, nil
}

// NewBookingCode builds a shareable booking code from a millisecond
// timestamp and a random suffix. Uniqueness is enforced by the index;
// a collision is retried with a fresh code.
func NewBookingCode() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("EVH-%s-%04X", ts, rand.Intn(0x10000))
}

// Cancellable reports whether a booking may still be cancelled: the
// event must start no sooner than cutoff from now.
func Cancellable(eventStart, now time.Time, cutoff time.Duration) bool {
	return eventStart.Sub(now) >= cutoff
}
