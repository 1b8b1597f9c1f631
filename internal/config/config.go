package config

import (
	"os"
	"strconv"
	"time"

	"eventhive/internal/cache"
	"eventhive/internal/database"
	"eventhive/internal/messaging"
)

// Config holds the full application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config

	Booking BookingPolicy
}

// BookingPolicy carries the tunable business constants of the booking
// core. Defaults mirror the production policy; none of them are
// hard-coded at call sites.
type BookingPolicy struct {
	// MaxQuantityPerBooking bounds the quantity of a single booking.
	MaxQuantityPerBooking int
	// CancellationCutoff is the minimum lead time before event start
	// for which cancellation is still allowed.
	CancellationCutoff time.Duration
	// CheckInTolerance is how far from the event start date a
	// credential is still accepted at the door, in either direction.
	CheckInTolerance time.Duration
	// CheckInLocation is the timezone whose calendar days the check-in
	// window is evaluated in. Defaults to UTC.
	CheckInLocation *time.Location
	// InventoryLockTimeout bounds how long a booking waits on a
	// contended ticket row before failing retryably.
	InventoryLockTimeout time.Duration
	// BookingCodeRetries bounds retries on a booking code collision.
	BookingCodeRetries int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "eventhive"),
			Password:           getEnv("DB_PASSWORD", "eventhive123"),
			DBName:             getEnv("DB_NAME", "eventhive"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "eventhive"),
			ClientID:  getEnv("NATS_CLIENT_ID", "eventhive-api"),
		},

		Valkey: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", ""),
			Password:     getEnv("VALKEY_PASSWORD", ""),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
			AvailabilityTTL: time.Duration(
				getEnvInt("VALKEY_AVAILABILITY_TTL_SEC", 5)) * time.Second,
		},

		Booking: BookingPolicy{
			MaxQuantityPerBooking: getEnvInt("MAX_QTY_PER_BOOKING", 10),
			CancellationCutoff: time.Duration(
				getEnvInt("CANCELLATION_CUTOFF_HOURS", 24)) * time.Hour,
			CheckInTolerance: time.Duration(
				getEnvInt("CHECKIN_TOLERANCE_HOURS", 24)) * time.Hour,
			CheckInLocation: getEnvLocation("CHECKIN_TIMEZONE"),
			InventoryLockTimeout: time.Duration(
				getEnvInt("INVENTORY_LOCK_TIMEOUT_MS", 3000)) * time.Millisecond,
			BookingCodeRetries: getEnvInt("BOOKING_CODE_RETRIES", 3),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvLocation(key string) *time.Location {
	if name := os.Getenv(key); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
