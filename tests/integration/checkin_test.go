package integration

import (
	"net/http"
	"testing"

	"eventhive/internal/models"
)

func TestCheckIn_Idempotent(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 10, 5)
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "checkin"),
	})
	credential := booking.Attendees[0].Credential

	LogTestStep(t, "First check-in")
	first := organizer.CheckIn(t, credential)
	if first.AlreadyCheckedIn {
		t.Fatal("Fresh credential reported as already checked in")
	}
	if first.CheckedInAt.IsZero() {
		t.Fatal("Expected a check-in timestamp")
	}

	LogTestStep(t, "Repeat check-in must be the idempotent no-op")
	second := organizer.CheckIn(t, credential)
	if !second.AlreadyCheckedIn {
		t.Fatal("Repeat check-in not reported as already checked in")
	}
	if !second.CheckedInAt.Equal(first.CheckedInAt) {
		t.Fatalf("Repeat check-in changed the timestamp: %v vs %v",
			second.CheckedInAt, first.CheckedInAt)
	}

	LogTestResult(t, "Check-in is idempotent per credential")
}

func TestCheckIn_InvalidAndCancelledCredentials(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	LogTestStep(t, "Unknown credential")
	status, _ := organizer.TryCheckIn(t, "00000000-0000-0000-0000-000000000000")
	if status != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown credential, got %d", status)
	}

	LogTestStep(t, "Credential of a cancelled booking")
	// Cancellation needs an event beyond the cutoff; the dead-token
	// rejection fires before any window check, so the far start date
	// does not matter for the check-in itself.
	eventID, ticketID := setupCancellableEventWithTicket(t, organizer, 10, 5)
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "dead"),
	})
	user.CancelBooking(t, booking.BookingCode)

	status, _ = organizer.TryCheckIn(t, booking.Attendees[0].Credential)
	if status != http.StatusNotFound {
		t.Fatalf("Expected 404 for a cancelled booking's credential, got %d", status)
	}
}

func TestCheckIn_Bulk(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 10, 5)
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  3,
		Attendees: attendees(3, "bulk"),
	})

	// Pre-check one credential so the batch mixes outcomes.
	organizer.CheckIn(t, booking.Attendees[0].Credential)

	tokens := []string{
		booking.Attendees[0].Credential,
		booking.Attendees[1].Credential,
		booking.Attendees[2].Credential,
		"not-a-real-credential",
	}

	LogTestStep(t, "Bulk check-in with mixed outcomes")
	result := organizer.BulkCheckIn(t, tokens)

	if result.Total != 4 {
		t.Fatalf("Expected total 4, got %d", result.Total)
	}
	if result.Succeeded != 2 {
		t.Errorf("Expected 2 fresh check-ins, got %d", result.Succeeded)
	}
	if result.AlreadyCheckedIn != 1 {
		t.Errorf("Expected 1 already-checked-in, got %d", result.AlreadyCheckedIn)
	}
	if result.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", result.Failed)
	}
	if len(result.Results) != 4 {
		t.Fatalf("Expected 4 per-item results, got %d", len(result.Results))
	}

	// The bad token must not abort the others.
	last := result.Results[3]
	if last.OK || last.Error == "" {
		t.Errorf("Expected the invalid token to fail with an error, got %+v", last)
	}

	LogTestResult(t, "Bulk check-in applies tokens independently")
}

func TestCheckIn_RequiresOrganizerRole(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	eventID, ticketID := setupEventWithTicket(t, organizer, 10, 5)
	booking := user.CreateBooking(t, models.CreateBookingRequest{
		EventID:   eventID,
		TicketID:  ticketID,
		Quantity:  1,
		Attendees: attendees(1, "role"),
	})

	status, _ := user.TryCheckIn(t, booking.Attendees[0].Credential)
	if status != http.StatusForbidden {
		t.Fatalf("Expected 403 for user-role check-in, got %d", status)
	}
}
