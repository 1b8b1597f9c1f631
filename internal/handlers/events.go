package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventhive/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := currentUser(c)
	response, err := h.services.Events.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	page, pageSize := pagination(c)
	category := c.Query("category")

	events, err := h.services.Events.List(c.Request.Context(), category, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.services.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateTicket - POST /api/events/:id/tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, isAdmin := currentUser(c)
	response, err := h.services.Events.CreateTicket(c.Request.Context(), userID, isAdmin, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateAvailability(c, eventID)

	c.JSON(http.StatusCreated, response)
}

// ListTickets - GET /api/events/:id/tickets
// Availability listing, served from the Valkey cache when fresh.
func (h *Handlers) ListTickets(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx := c.Request.Context()

	if h.valkeyClient != nil {
		if raw, err := h.valkeyClient.GetTicketAvailabilityRaw(ctx, eventID); err == nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	items, err := h.services.Events.ListTickets(ctx, eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []models.TicketAvailabilityItem{}
	}

	if h.valkeyClient != nil {
		if err := h.valkeyClient.SetTicketAvailability(ctx, eventID, items); err != nil {
			slog.Warn("Failed to cache availability", "error", err, "event_id", eventID)
		}
	}

	c.JSON(http.StatusOK, items)
}

// ListEventAttendees - GET /api/events/:id/attendees
func (h *Handlers) ListEventAttendees(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var attended *bool
	if raw := c.Query("attended"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attended filter"})
			return
		}
		attended = &v
	}

	page, pageSize := pagination(c)
	userID, isAdmin := currentUser(c)

	response, err := h.services.Stats.EventAttendees(c.Request.Context(),
		userID, isAdmin, eventID, attended, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
