package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"eventhive/internal/models"
	"eventhive/internal/repository"

	"github.com/nats-io/stan.go"
)

// Handlers writes one booking_audit row per lifecycle event. The
// payload is stored verbatim; only the routing ids are pulled out.
type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleBookingCreated(msg *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	h.record(models.EventBookingCreated, event.BookingID, event.EventID, msg.Data)
}

func (h *Handlers) HandleBookingCancelled(msg *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	h.record(models.EventBookingCancelled, event.BookingID, event.EventID, msg.Data)
}

func (h *Handlers) HandleAttendeeCheckedIn(msg *stan.Msg) {
	var event models.AttendeeCheckedInEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Failed to unmarshal check-in event", "error", err)
		return
	}

	h.record(models.EventAttendeeCheckedIn, event.BookingID, event.EventID, msg.Data)
}

func (h *Handlers) record(subject string, bookingID, eventID int64, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.repos.Audit.Record(ctx, subject, bookingID, eventID, payload); err != nil {
		slog.Error("Failed to record audit row",
			"error", err,
			"subject", subject,
			"booking_id", bookingID)
		return
	}

	slog.Info("Audit row recorded", "subject", subject, "booking_id", bookingID)
}
