// Package validation is a smoke check run against a live deployment
// (`api validate`). It walks the booking flow end to end: create an
// event, add a ticket type, book it, check the attendee in, cancel,
// and verify the inventory came back.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"eventhive/internal/config"
	"eventhive/internal/models"
)

type SmokeValidator struct {
	baseURL  string
	email    string
	password string
	// cancellationCutoff is the target deployment's policy; event
	// fixtures are placed relative to it so cancellation outcomes are
	// deterministic whatever the cutoff is configured to.
	cancellationCutoff time.Duration
	client             *http.Client
}

func NewSmokeValidator(baseURL, email, password string, cancellationCutoff time.Duration) *SmokeValidator {
	return &SmokeValidator{
		baseURL:            baseURL,
		email:              email,
		password:           password,
		cancellationCutoff: cancellationCutoff,
		client:             &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *SmokeValidator) ValidateAll() error {
	log.Println("Running API smoke validation...")

	eventID, err := v.validateEventFlow()
	if err != nil {
		return fmt.Errorf("event flow: %w", err)
	}

	ticketID, err := v.validateTicketFlow(eventID)
	if err != nil {
		return fmt.Errorf("ticket flow: %w", err)
	}

	if err := v.validateBookingFlow(eventID, ticketID); err != nil {
		return fmt.Errorf("booking flow: %w", err)
	}

	if err := v.validateCancellationFlow(); err != nil {
		return fmt.Errorf("cancellation flow: %w", err)
	}

	log.Println("All endpoints validated")
	return nil
}

func (v *SmokeValidator) validateEventFlow() (int64, error) {
	now := time.Now()
	reqBody := models.CreateEventRequest{
		Name:                 "Smoke Test Event",
		Category:             "smoke",
		StartsAt:             now.Add(2 * time.Hour),
		EndsAt:               now.Add(4 * time.Hour),
		RegistrationStartsAt: now.Add(-time.Hour),
		RegistrationEndsAt:   now.Add(time.Hour),
		Published:            true,
	}

	var createResp models.CreateEventResponse
	if err := v.doJSON("POST", "/api/events", reqBody, http.StatusCreated, &createResp); err != nil {
		return 0, err
	}
	if createResp.ID == 0 {
		return 0, fmt.Errorf("POST /api/events: expected non-zero ID")
	}

	var event models.Event
	path := fmt.Sprintf("/api/events/%d", createResp.ID)
	if err := v.doJSON("GET", path, nil, http.StatusOK, &event); err != nil {
		return 0, err
	}

	return createResp.ID, nil
}

func (v *SmokeValidator) validateTicketFlow(eventID int64) (int64, error) {
	reqBody := models.CreateTicketRequest{
		Name:       "Smoke Standard",
		PriceCents: 1500,
		MaxPerUser: 5,
		MaxTotal:   10,
	}

	var createResp models.CreateTicketResponse
	path := fmt.Sprintf("/api/events/%d/tickets", eventID)
	if err := v.doJSON("POST", path, reqBody, http.StatusCreated, &createResp); err != nil {
		return 0, err
	}

	var items []models.TicketAvailabilityItem
	if err := v.doJSON("GET", path, nil, http.StatusOK, &items); err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("GET %s: expected non-empty ticket list", path)
	}

	return createResp.ID, nil
}

func (v *SmokeValidator) validateBookingFlow(eventID, ticketID int64) error {
	reqBody := models.CreateBookingRequest{
		EventID:  eventID,
		TicketID: ticketID,
		Quantity: 2,
		Attendees: []models.AttendeeInput{
			{Name: "Smoke One", Email: "smoke1@example.com"},
			{Name: "Smoke Two", Email: "smoke2@example.com"},
		},
	}

	var booking models.BookingResponse
	if err := v.doJSON("POST", "/api/bookings", reqBody, http.StatusCreated, &booking); err != nil {
		return err
	}
	if len(booking.Attendees) != 2 {
		return fmt.Errorf("POST /api/bookings: expected 2 attendees, got %d", len(booking.Attendees))
	}
	for _, a := range booking.Attendees {
		if a.Credential == "" {
			return fmt.Errorf("POST /api/bookings: attendee missing credential")
		}
	}

	remaining, err := v.remaining(eventID, ticketID)
	if err != nil {
		return err
	}
	if remaining != 8 {
		return fmt.Errorf("availability after booking: expected 8 remaining, got %d", remaining)
	}

	var checkin models.CheckInResponse
	checkinBody := models.CheckInRequest{Credential: booking.Attendees[0].Credential}
	if err := v.doJSON("POST", "/api/checkin", checkinBody, http.StatusOK, &checkin); err != nil {
		return err
	}
	if checkin.AlreadyCheckedIn {
		return fmt.Errorf("POST /api/checkin: fresh credential reported as already checked in")
	}

	// Same credential again must be the idempotent repeat.
	if err := v.doJSON("POST", "/api/checkin", checkinBody, http.StatusOK, &checkin); err != nil {
		return err
	}
	if !checkin.AlreadyCheckedIn {
		return fmt.Errorf("POST /api/checkin: repeat not reported as already checked in")
	}

	// This event starts in 2 hours. When the deployment's cutoff is
	// longer than that, cancelling must be rejected as window-closed.
	if v.cancellationCutoff > 2*time.Hour {
		cancelBody := models.CancelBookingRequest{BookingCode: booking.BookingCode}
		if err := v.doJSON("PATCH", "/api/bookings/cancel", cancelBody, http.StatusConflict, nil); err != nil {
			return err
		}
	}

	return nil
}

// validateCancellationFlow books against an event far enough out that
// the configured cutoff permits cancellation, then verifies the
// release and the refunded-once transition.
func (v *SmokeValidator) validateCancellationFlow() error {
	now := time.Now()
	startsAt := now.Add(v.cancellationCutoff + 2*time.Hour)

	var createResp models.CreateEventResponse
	eventBody := models.CreateEventRequest{
		Name:                 "Smoke Cancellation Event",
		Category:             "smoke",
		StartsAt:             startsAt,
		EndsAt:               startsAt.Add(2 * time.Hour),
		RegistrationStartsAt: now.Add(-time.Hour),
		RegistrationEndsAt:   now.Add(time.Hour),
		Published:            true,
	}
	if err := v.doJSON("POST", "/api/events", eventBody, http.StatusCreated, &createResp); err != nil {
		return err
	}
	eventID := createResp.ID

	var ticketResp models.CreateTicketResponse
	ticketBody := models.CreateTicketRequest{
		Name:       "Smoke Cancellable",
		PriceCents: 1000,
		MaxPerUser: 5,
		MaxTotal:   10,
	}
	path := fmt.Sprintf("/api/events/%d/tickets", eventID)
	if err := v.doJSON("POST", path, ticketBody, http.StatusCreated, &ticketResp); err != nil {
		return err
	}
	ticketID := ticketResp.ID

	var booking models.BookingResponse
	bookingBody := models.CreateBookingRequest{
		EventID:  eventID,
		TicketID: ticketID,
		Quantity: 2,
		Attendees: []models.AttendeeInput{
			{Name: "Smoke Cancel One", Email: "smoke-cancel1@example.com"},
			{Name: "Smoke Cancel Two", Email: "smoke-cancel2@example.com"},
		},
	}
	if err := v.doJSON("POST", "/api/bookings", bookingBody, http.StatusCreated, &booking); err != nil {
		return err
	}

	remaining, err := v.remaining(eventID, ticketID)
	if err != nil {
		return err
	}
	if remaining != 8 {
		return fmt.Errorf("availability after booking: expected 8 remaining, got %d", remaining)
	}

	cancelBody := models.CancelBookingRequest{BookingCode: booking.BookingCode}
	if err := v.doJSON("PATCH", "/api/bookings/cancel", cancelBody, http.StatusOK, nil); err != nil {
		return err
	}

	remaining, err = v.remaining(eventID, ticketID)
	if err != nil {
		return err
	}
	if remaining != 10 {
		return fmt.Errorf("availability after cancel: expected 10 remaining, got %d", remaining)
	}

	// Cancelling twice must be rejected.
	if err := v.doJSON("PATCH", "/api/bookings/cancel", cancelBody, http.StatusConflict, nil); err != nil {
		return err
	}

	return nil
}

func (v *SmokeValidator) remaining(eventID, ticketID int64) (int, error) {
	// Bypass the short-lived availability cache so the check sees the
	// write that just happened.
	time.Sleep(50 * time.Millisecond)

	var items []models.TicketAvailabilityItem
	path := fmt.Sprintf("/api/events/%d/tickets", eventID)
	if err := v.doJSON("GET", path, nil, http.StatusOK, &items); err != nil {
		return 0, err
	}
	for _, item := range items {
		if item.ID == ticketID {
			return item.Remaining, nil
		}
	}
	return 0, fmt.Errorf("ticket %d not in availability listing", ticketID)
}

func (v *SmokeValidator) doJSON(method, path string, body interface{}, wantStatus int, out interface{}) error {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		req, err = http.NewRequest(method, v.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, v.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}
	req.SetBasicAuth(v.email, v.password)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: expected %d, got %d", method, path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}
	return nil
}

// RunValidation drives the smoke check from `api validate`.
func RunValidation() {
	baseURL := os.Getenv("VALIDATE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	email := os.Getenv("VALIDATE_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("VALIDATE_PASSWORD")
	if password == "" {
		password = "password"
	}

	// Read the same policy the target deployment loads, so fixtures
	// land on the right side of the cancellation cutoff.
	cfg := config.Load()

	validator := NewSmokeValidator(baseURL, email, password, cfg.Booking.CancellationCutoff)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
}
