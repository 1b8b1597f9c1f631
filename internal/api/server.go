package api

import (
	"fmt"
	"net/http"

	"eventhive/internal/cache"
	"eventhive/internal/config"
	"eventhive/internal/database"
	"eventhive/internal/handlers"
	"eventhive/internal/logger"
	"eventhive/internal/messaging"
	"eventhive/internal/metrics"
	"eventhive/internal/middleware"
	"eventhive/internal/models"
	"eventhive/internal/repository"
	"eventhive/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// The cache is an optimization; the API stays up without it.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, running without cache", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, natsClient, cfg.Booking)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/tickets", h.ListTickets)
			events.GET("/:id/attendees", h.ListEventAttendees)

			organizer := events.Group("")
			organizer.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))
			{
				organizer.POST("", h.CreateEvent)
				organizer.POST("/:id/tickets", h.CreateTicket)
			}
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:code", h.GetBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		checkin := api.Group("/checkin")
		checkin.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))
		{
			checkin.POST("", h.CheckIn)
			checkin.POST("/bulk", h.BulkCheckIn)
		}

		api.GET("/stats", h.GetStats)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   health.Status,
		"service":  "eventhive-api",
		"database": health,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
