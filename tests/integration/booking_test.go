package integration

import (
	"net/http"
	"testing"
	"time"

	"eventhive/internal/models"
)

func TestBooking_FullFlow(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	// The flow ends in a cancellation, so the event must start beyond
	// the cancellation cutoff.
	eventID, ticketID := setupCancellableEventWithTicket(t, organizer, 10, 5)

	LogTestStep(t, "Booking 2 tickets")
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  2,
		Attendees: attendees(2, "flow"),
	})

	if booking.BookingCode == "" {
		t.Fatal("Expected a booking code")
	}
	if booking.Status != "completed" {
		t.Fatalf("Expected completed booking, got %q", booking.Status)
	}
	if len(booking.Attendees) != 2 {
		t.Fatalf("Expected 2 attendees, got %d", len(booking.Attendees))
	}
	seen := map[string]bool{}
	for _, a := range booking.Attendees {
		if a.Credential == "" {
			t.Fatal("Expected a credential for every attendee")
		}
		if seen[a.Credential] {
			t.Fatalf("Duplicate credential %q", a.Credential)
		}
		seen[a.Credential] = true
	}
	if booking.TotalAmountCents != 5000 {
		t.Errorf("Expected total 5000 cents, got %d", booking.TotalAmountCents)
	}

	if got := remainingOf(t, user, eventID, ticketID); got != 8 {
		t.Fatalf("Expected 8 remaining after booking, got %d", got)
	}

	LogTestStep(t, "Fetching booking by code")
	fetched := user.GetBooking(t, booking.BookingCode)
	if fetched.Quantity != 2 {
		t.Fatalf("Expected quantity 2, got %d", fetched.Quantity)
	}
	for _, a := range fetched.Attendees {
		if a.Credential != "" {
			t.Error("Credentials must not be repeated after creation")
		}
	}

	LogTestStep(t, "Cancelling the booking")
	user.CancelBooking(t, booking.BookingCode)

	if got := remainingOf(t, user, eventID, ticketID); got != 10 {
		t.Fatalf("Expected 10 remaining after cancellation, got %d", got)
	}

	LogTestStep(t, "Cancelling again must be rejected")
	status, _ := user.TryCancelBooking(t, booking.BookingCode)
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 on double cancel, got %d", status)
	}

	LogTestResult(t, "Booking lifecycle behaves end to end")
}

func TestBooking_CancellationWindowClosed(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	if cancellationCutoff() <= 2*time.Hour {
		t.Skipf("cancellation cutoff %v admits near events, nothing to reject", cancellationCutoff())
	}

	// Event starts in 2 hours, inside the cutoff: booking works,
	// cancelling must be rejected without touching inventory.
	eventID, ticketID := setupEventWithTicket(t, organizer, 10, 5)
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "window"),
	})

	LogTestStep(t, "Cancelling inside the cutoff must be rejected")
	status, body := user.TryCancelBooking(t, booking.BookingCode)
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 inside the cancellation window, got %d. Body: %s", status, body)
	}

	fetched := user.GetBooking(t, booking.BookingCode)
	if fetched.Status != "completed" {
		t.Fatalf("Rejected cancellation must leave the booking completed, got %q", fetched.Status)
	}
	if got := remainingOf(t, user, eventID, ticketID); got != 9 {
		t.Fatalf("Rejected cancellation must not release inventory: expected 9 remaining, got %d", got)
	}

	LogTestResult(t, "Cancellation window is enforced")
}

func TestBooking_PerUserCap(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 50, 3)

	LogTestStep(t, "Booking up to the per-user cap")
	user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  2,
		Attendees: attendees(2, "cap-a"),
	})
	user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "cap-b"),
	})

	LogTestStep(t, "One more must exceed the cap")
	status, body := user.TryCreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "cap-c"),
	})
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 over the per-user cap, got %d. Body: %s", status, body)
	}

	if got := remainingOf(t, user, eventID, ticketID); got != 47 {
		t.Fatalf("Rejected booking must not consume inventory: expected 47 remaining, got %d", got)
	}

	LogTestResult(t, "Per-user cap enforced across bookings")
}

func TestBooking_AttendeeCountMismatch(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 10, 5)

	status, body := user.TryCreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  3,
		Attendees: attendees(1, "mismatch"),
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 on attendee count mismatch, got %d. Body: %s", status, body)
	}

	if got := remainingOf(t, user, eventID, ticketID); got != 10 {
		t.Fatalf("Failed booking must leave inventory untouched: expected 10, got %d", got)
	}
}

func TestBooking_SoldOut(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 2, 10)

	user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  2,
		Attendees: attendees(2, "soldout"),
	})

	status, body := user.TryCreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "soldout-extra"),
	})
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 when sold out, got %d. Body: %s", status, body)
	}

	if got := remainingOf(t, user, eventID, ticketID); got != 0 {
		t.Fatalf("Expected 0 remaining, got %d", got)
	}
}
