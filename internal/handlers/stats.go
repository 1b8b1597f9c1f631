package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetStats - GET /api/stats?scope=event|user|global
func (h *Handlers) GetStats(c *gin.Context) {
	userID, isAdmin := currentUser(c)
	ctx := c.Request.Context()

	switch c.DefaultQuery("scope", "user") {
	case "event":
		eventID, err := strconv.ParseInt(c.Query("event_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		response, err := h.services.Stats.EventStats(ctx, userID, isAdmin, eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)

	case "user":
		response, err := h.services.Stats.UserStats(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)

	case "global":
		response, err := h.services.Stats.GlobalStats(ctx, isAdmin)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be event, user or global"})
	}
}
