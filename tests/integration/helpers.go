package integration

import (
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"eventhive/internal/models"
)

// The suite runs against a live deployment and is skipped unless
// API_BASE_URL is set. It expects two seeded users: an organizer
// (TEST_ORGANIZER_EMAIL / TEST_ORGANIZER_PASSWORD) and a regular user
// (TEST_USER_EMAIL / TEST_USER_PASSWORD).

func requireAPI(t *testing.T) string {
	t.Helper()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration test")
	}
	return baseURL
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func organizerClient(t *testing.T) *TestClient {
	return NewTestClient(requireAPI(t),
		envOr("TEST_ORGANIZER_EMAIL", "organizer@example.com"),
		envOr("TEST_ORGANIZER_PASSWORD", "password"))
}

func userClient(t *testing.T) *TestClient {
	return NewTestClient(requireAPI(t),
		envOr("TEST_USER_EMAIL", "user@example.com"),
		envOr("TEST_USER_PASSWORD", "password"))
}

// cancellationCutoff mirrors the deployment's cancellation policy so
// fixtures stay valid whatever cutoff the target is configured with.
func cancellationCutoff() time.Duration {
	if v := os.Getenv("CANCELLATION_CUTOFF_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return 24 * time.Hour
}

// setupEventWithTicket creates a published event starting soon: inside
// the registration and check-in windows, but inside the default
// cancellation cutoff too. Bookings on it cannot be cancelled; use
// setupCancellableEventWithTicket for cancellation paths.
func setupEventWithTicket(t *testing.T, organizer *TestClient, maxTotal, maxPerUser int) (eventID, ticketID int64) {
	t.Helper()
	return setupEventStartingIn(t, organizer, 2*time.Hour, maxTotal, maxPerUser)
}

// setupCancellableEventWithTicket creates an event far enough out that
// the deployment's cancellation cutoff still permits cancelling.
func setupCancellableEventWithTicket(t *testing.T, organizer *TestClient, maxTotal, maxPerUser int) (eventID, ticketID int64) {
	t.Helper()
	return setupEventStartingIn(t, organizer, cancellationCutoff()+24*time.Hour, maxTotal, maxPerUser)
}

func setupEventStartingIn(t *testing.T, organizer *TestClient, startIn time.Duration, maxTotal, maxPerUser int) (eventID, ticketID int64) {
	t.Helper()

	now := time.Now()
	eventID = organizer.CreateEvent(t, models.CreateEventRequest{
		Name:                 fmt.Sprintf("Integration Event %d", now.UnixNano()),
		Category:             "integration",
		StartsAt:             now.Add(startIn),
		EndsAt:               now.Add(startIn + 2*time.Hour),
		RegistrationStartsAt: now.Add(-time.Hour),
		RegistrationEndsAt:   now.Add(time.Hour),
		Published:            true,
	})

	ticketID = organizer.CreateTicket(t, eventID, models.CreateTicketRequest{
		Name:       "Standard",
		PriceCents: 2500,
		MaxPerUser: maxPerUser,
		MaxTotal:   maxTotal,
	})

	return eventID, ticketID
}

func attendees(n int, tag string) []models.AttendeeInput {
	out := make([]models.AttendeeInput, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.AttendeeInput{
			Name:  fmt.Sprintf("%s Attendee %d", tag, i+1),
			Email: fmt.Sprintf("%s-%d-%d@example.com", tag, time.Now().UnixNano(), i),
		})
	}
	return out
}

func remainingOf(t *testing.T, c *TestClient, eventID, ticketID int64) int {
	t.Helper()

	// Give the short-TTL availability cache a moment after writes.
	time.Sleep(100 * time.Millisecond)

	for _, item := range c.ListTickets(t, eventID) {
		if item.ID == ticketID {
			return item.Remaining
		}
	}
	t.Fatalf("Ticket %d not found in availability listing", ticketID)
	return 0
}

func LogTestStep(t *testing.T, format string, args ...interface{}) {
	t.Helper()
	t.Logf("STEP: "+format, args...)
}

func LogTestResult(t *testing.T, format string, args ...interface{}) {
	t.Helper()
	t.Logf("RESULT: "+format, args...)
}
