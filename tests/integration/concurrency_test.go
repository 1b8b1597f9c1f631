package integration

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"eventhive/internal/models"
)

// TestBooking_NoOversell fires many concurrent single-ticket bookings
// at a small ticket type and verifies that exactly max_total succeed
// and the ledger never goes negative.
func TestBooking_NoOversell(t *testing.T) {
	organizer := organizerClient(t)
	user := userClient(t)

	const capacity = 10
	const attempts = 40

	eventID, ticketID := setupEventWithTicket(t, organizer, capacity, capacity)

	var created, rejected, contended, other atomic.Int64
	var wg sync.WaitGroup

	LogTestStep(t, "Firing %d concurrent bookings at capacity %d", attempts, capacity)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			status, err := user.CreateBookingStatus(models.CreateBookingRequest{
				EventID:   eventID,
				TicketID:  ticketID,
				Quantity:  1,
				Attendees: attendees(1, "race"),
			})
			if err != nil {
				other.Add(1)
				return
			}

			switch status {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				rejected.Add(1)
			case http.StatusServiceUnavailable:
				contended.Add(1)
			default:
				other.Add(1)
			}
		}(i)
	}
	wg.Wait()

	LogTestResult(t, "created=%d rejected=%d contended=%d other=%d",
		created.Load(), rejected.Load(), contended.Load(), other.Load())

	if other.Load() != 0 {
		t.Fatalf("Unexpected statuses during the race: %d", other.Load())
	}
	if created.Load() > capacity {
		t.Fatalf("Oversell: %d bookings created for capacity %d", created.Load(), capacity)
	}

	remaining := remainingOf(t, user, eventID, ticketID)
	if remaining < 0 {
		t.Fatalf("Ledger went negative: remaining %d", remaining)
	}
	if int64(capacity-remaining) != created.Load() {
		t.Fatalf("Ledger drift: created %d but %d consumed",
			created.Load(), capacity-remaining)
	}
}
