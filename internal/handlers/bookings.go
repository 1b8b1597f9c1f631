package handlers

import (
	"log/slog"
	"net/http"

	"eventhive/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUser(c)
	response, err := h.services.Bookings.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateAvailability(c, response.EventID)

	c.JSON(http.StatusCreated, response)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	userID, _ := currentUser(c)
	page, pageSize := pagination(c)
	status := c.Query("status")

	response, err := h.services.Bookings.List(c.Request.Context(), userID, status, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:code
func (h *Handlers) GetBooking(c *gin.Context) {
	userID, isAdmin := currentUser(c)

	response, err := h.services.Bookings.GetByCode(c.Request.Context(), c.Param("code"), userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelBooking - PATCH /api/bookings/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, isAdmin := currentUser(c)
	booking, err := h.services.Bookings.GetByCode(c.Request.Context(), req.BookingCode, userID, isAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.services.Bookings.Cancel(c.Request.Context(), req.BookingCode, userID, isAdmin); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateAvailability(c, booking.EventID)

	c.Status(http.StatusOK)
}

// invalidateAvailability drops the cached ticket listing after a
// sold_count change. Cache errors are logged, never surfaced; the
// entry expires on its own TTL anyway.
func (h *Handlers) invalidateAvailability(c *gin.Context, eventID int64) {
	if h.valkeyClient == nil {
		return
	}
	if err := h.valkeyClient.InvalidateTicketAvailability(c.Request.Context(), eventID); err != nil {
		slog.Warn("Failed to invalidate availability cache", "error", err, "event_id", eventID)
	}
}
