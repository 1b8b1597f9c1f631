package handlers

import (
	"net/http"

	"eventhive/internal/models"

	"github.com/gin-gonic/gin"
)

// CheckIn - POST /api/checkin
func (h *Handlers) CheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.CheckIn.CheckIn(c.Request.Context(), req.Credential)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BulkCheckIn - POST /api/checkin/bulk
func (h *Handlers) BulkCheckIn(c *gin.Context) {
	var req models.BulkCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Credentials) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credentials must not be empty"})
		return
	}

	response := h.services.CheckIn.BulkCheckIn(c.Request.Context(), req.Credentials)
	c.JSON(http.StatusOK, response)
}
