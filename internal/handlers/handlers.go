package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"eventhive/internal/cache"
	apperrors "eventhive/internal/errors"
	"eventhive/internal/middleware"
	"eventhive/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Contention
// returns 503 with Retry-After so clients know the request is safe to
// replay as-is.
func respondError(c *gin.Context, err error) {
	c.Error(err)

	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.IsBusiness(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsRetryable(err):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser pulls the authenticated identity set by BasicAuth. All
// routes using it sit behind the auth middleware, so the id is present.
func currentUser(c *gin.Context) (userID int64, isAdmin bool) {
	ctx := c.Request.Context()
	userID, _ = middleware.UserIDFromContext(ctx)
	return userID, middleware.IsAdmin(ctx)
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
