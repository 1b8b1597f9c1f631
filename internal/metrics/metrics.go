package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the booking core counters.
const (
	OutcomeOK               = "ok"
	OutcomeRejected         = "rejected"
	OutcomeContended        = "contended"
	OutcomeError            = "error"
	OutcomeAlreadyCheckedIn = "already_checked_in"
)

var (
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventhive_bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	CancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventhive_cancellations_total",
		Help: "Cancellation attempts by outcome",
	}, []string{"outcome"})

	CheckInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventhive_checkins_total",
		Help: "Check-in attempts by outcome",
	}, []string{"outcome"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventhive_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware observes request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
