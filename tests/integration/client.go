package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"eventhive/internal/models"
)

// TestClient drives the API as a black box. Every method fails the
// test on an unexpected status.
type TestClient struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client
}

func NewTestClient(baseURL, email, password string) *TestClient {
	return &TestClient{
		BaseURL:  baseURL,
		Email:    email,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.Email, c.Password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// do runs a request without asserting on the status, for tests that
// care about the status code itself.
func (c *TestClient) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	resp := c.makeRequest(t, method, path, body)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, data
}

func (c *TestClient) HealthCheck(t *testing.T) {
	t.Helper()

	resp := c.makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 from /health, got %d", resp.StatusCode)
	}
}

func (c *TestClient) CreateEvent(t *testing.T, req models.CreateEventRequest) int64 {
	t.Helper()

	resp := c.makeRequest(t, "POST", "/api/events", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var created models.CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode event response: %v", err)
	}
	return created.ID
}

func (c *TestClient) CreateTicket(t *testing.T, eventID int64, req models.CreateTicketRequest) int64 {
	t.Helper()

	path := fmt.Sprintf("/api/events/%d/tickets", eventID)
	resp := c.makeRequest(t, "POST", path, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var created models.CreateTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode ticket response: %v", err)
	}
	return created.ID
}

func (c *TestClient) ListTickets(t *testing.T, eventID int64) []models.TicketAvailabilityItem {
	t.Helper()

	path := fmt.Sprintf("/api/events/%d/tickets", eventID)
	resp := c.makeRequest(t, "GET", path, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var items []models.TicketAvailabilityItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("Failed to decode availability response: %v", err)
	}
	return items
}

func (c *TestClient) CreateBooking(t *testing.T, req models.CreateBookingRequest) *models.BookingResponse {
	t.Helper()

	resp := c.makeRequest(t, "POST", "/api/bookings", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var booking models.BookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}
	return &booking
}

// TryCreateBooking returns the status code instead of failing, for
// tests that expect rejections.
func (c *TestClient) TryCreateBooking(t *testing.T, req models.CreateBookingRequest) (int, []byte) {
	t.Helper()

	resp, body := c.do(t, "POST", "/api/bookings", req)
	return resp.StatusCode, body
}

func (c *TestClient) CancelBooking(t *testing.T, code string) {
	t.Helper()

	req := models.CancelBookingRequest{BookingCode: code}
	resp := c.makeRequest(t, "PATCH", "/api/bookings/cancel", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}
}

func (c *TestClient) TryCancelBooking(t *testing.T, code string) (int, []byte) {
	t.Helper()

	req := models.CancelBookingRequest{BookingCode: code}
	resp, body := c.do(t, "PATCH", "/api/bookings/cancel", req)
	return resp.StatusCode, body
}

func (c *TestClient) CheckIn(t *testing.T, credential string) *models.CheckInResponse {
	t.Helper()

	req := models.CheckInRequest{Credential: credential}
	resp := c.makeRequest(t, "POST", "/api/checkin", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var result models.CheckInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode check-in response: %v", err)
	}
	return &result
}

func (c *TestClient) TryCheckIn(t *testing.T, credential string) (int, []byte) {
	t.Helper()

	req := models.CheckInRequest{Credential: credential}
	resp, body := c.do(t, "POST", "/api/checkin", req)
	return resp.StatusCode, body
}

func (c *TestClient) BulkCheckIn(t *testing.T, credentials []string) *models.BulkCheckInResponse {
	t.Helper()

	req := models.BulkCheckInRequest{Credentials: credentials}
	resp := c.makeRequest(t, "POST", "/api/checkin/bulk", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var result models.BulkCheckInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode bulk check-in response: %v", err)
	}
	return &result
}

func (c *TestClient) GetBooking(t *testing.T, code string) *models.BookingResponse {
	t.Helper()

	resp := c.makeRequest(t, "GET", "/api/bookings/"+code, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var booking models.BookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatalf("Failed to decode booking response: %v", err)
	}
	return &booking
}

func (c *TestClient) ListBookings(t *testing.T) *models.ListBookingsResponse {
	t.Helper()

	resp := c.makeRequest(t, "GET", "/api/bookings?page=1&pageSize=50", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var list models.ListBookingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode bookings response: %v", err)
	}
	return &list
}

// CreateBookingStatus is safe to call from spawned goroutines: it
// reports the status code via return values instead of failing the
// test directly.
func (c *TestClient) CreateBookingStatus(req models.CreateBookingRequest) (int, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequest("POST", c.BaseURL+"/api/bookings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.Email, c.Password)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
