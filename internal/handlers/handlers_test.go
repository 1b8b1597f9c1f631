package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "eventhive/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reqBody *bytes.Buffer
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	} else {
		reqBody = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func TestCreateBookingRejectsMalformedJSON(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPost, "/api/bookings", `{"event_id":`)
	h.CreateBooking(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingRejectsMissingFields(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPost, "/api/bookings", `{"quantity":2}`)
	h.CreateBooking(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBookingRequiresCode(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPatch, "/api/bookings/cancel", `{}`)
	h.CancelBooking(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckInRequiresCredential(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPost, "/api/checkin", `{}`)
	h.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkCheckInRejectsEmptyBatch(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPost, "/api/checkin/bulk", `{"credentials":[]}`)
	h.BulkCheckIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicketRejectsBadEventID(t *testing.T) {
	h := NewHandlers(nil, nil)

	c, w := newTestContext(http.MethodPost, "/api/events/abc/tickets", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.CreateTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidation("quantity", "too large"), http.StatusBadRequest},
		{"not found", apperrors.ErrBookingNotFound, http.StatusNotFound},
		{"invalid credential", apperrors.ErrInvalidCredential, http.StatusNotFound},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"sold out", apperrors.ErrInsufficientInventory, http.StatusConflict},
		{"per-user cap", apperrors.ErrPerUserLimitExceeded, http.StatusConflict},
		{"window closed", apperrors.ErrCancellationWindowClosed, http.StatusConflict},
		{"check-in window", apperrors.ErrCheckInOutsideWindow, http.StatusConflict},
		{"contended", apperrors.ErrInventoryContended, http.StatusServiceUnavailable},
		{"integrity", apperrors.ErrInventoryUnderflow, http.StatusInternalServerError},
		{"wrapped business", errors.Join(errors.New("ctx"), apperrors.ErrAlreadyCancelled), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/", "")
			respondError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRespondErrorSetsRetryAfterOnContention(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", "")
	respondError(c, apperrors.ErrInventoryContended)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestPaginationDefaults(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/bookings?page=0&pageSize=9999", "")
	page, pageSize := pagination(c)

	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	c, _ = newTestContext(http.MethodGet, "/api/bookings?page=3&pageSize=50", "")
	page, pageSize = pagination(c)

	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)
}
