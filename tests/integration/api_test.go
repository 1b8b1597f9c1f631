package integration

import (
	"net/http"
	"testing"

	"eventhive/internal/models"
)

func TestAPI_HealthCheck(t *testing.T) {
	client := userClient(t)

	LogTestStep(t, "Testing API health check")
	client.HealthCheck(t)
	LogTestResult(t, "API is healthy and responding")
}

func TestAPI_EventCatalog(t *testing.T) {
	organizer := organizerClient(t)

	LogTestStep(t, "Creating event with one ticket type")
	eventID, ticketID := setupEventWithTicket(t, organizer, 100, 5)

	items := organizer.ListTickets(t, eventID)
	if len(items) == 0 {
		t.Fatalf("Expected at least one ticket type for event %d", eventID)
	}

	found := false
	for _, item := range items {
		if item.ID == ticketID {
			found = true
			if item.Remaining != 100 {
				t.Errorf("Expected 100 remaining on a fresh ticket type, got %d", item.Remaining)
			}
		}
	}
	if !found {
		t.Fatalf("Ticket %d missing from availability listing", ticketID)
	}

	LogTestResult(t, "Event %d with ticket %d visible in catalog", eventID, ticketID)
}

func TestAPI_OrganizerOnlyRoutes(t *testing.T) {
	user := userClient(t)

	LogTestStep(t, "Verifying a regular user cannot create events")
	resp, _ := user.do(t, "POST", "/api/events", models.CreateEventRequest{Name: "Nope"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("Expected 403 for user event creation, got %d", resp.StatusCode)
	}

	LogTestResult(t, "Organizer-only routes are gated")
}
