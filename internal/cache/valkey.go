package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr            string
	Password        string
	UsersHashKey    string
	AvailabilityTTL time.Duration
}

// ValkeyClient is the read-path cache: Basic Auth lookups and the
// short-TTL ticket availability listing. The booking transaction never
// consults it; availability truth stays in the tickets table.
type ValkeyClient struct {
	client          *redis.Client
	usersHashKey    string
	availabilityTTL time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:          rdb,
		usersHashKey:    cfg.UsersHashKey,
		availabilityTTL: cfg.AvailabilityTTL,
	}, nil
}

// GetUserByAuth returns the cached user id and role for an email plus
// password hash pair. The hash value is "id:role".
func (v *ValkeyClient) GetUserByAuth(ctx context.Context, email, passwordHash string) (int64, string, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	value, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", fmt.Errorf("user not found in cache")
		}
		return 0, "", fmt.Errorf("cache lookup error: %w", err)
	}

	idStr, role, found := strings.Cut(value, ":")
	if !found {
		return 0, "", fmt.Errorf("malformed auth cache entry")
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, role, nil
}

// SetUserAuth primes the auth cache after a database fallback.
func (v *ValkeyClient) SetUserAuth(ctx context.Context, email, passwordHash string, userID int64, role string) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))
	value := strconv.FormatInt(userID, 10) + ":" + role
	return v.client.HSet(ctx, v.usersHashKey, cacheKey, value).Err()
}

func availabilityKey(eventID int64) string {
	return fmt.Sprintf("availability:event:%d", eventID)
}

// GetTicketAvailabilityRaw returns the cached availability listing as
// raw JSON to skip the unmarshal/marshal round trip on the hot path.
func (v *ValkeyClient) GetTicketAvailabilityRaw(ctx context.Context, eventID int64) ([]byte, error) {
	data, err := v.client.Get(ctx, availabilityKey(eventID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("availability not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

func (v *ValkeyClient) SetTicketAvailability(ctx context.Context, eventID int64, response interface{}) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	return v.client.Set(ctx, availabilityKey(eventID), data, v.availabilityTTL).Err()
}

// InvalidateTicketAvailability drops the cached listing after a
// booking or cancellation changes sold_count.
func (v *ValkeyClient) InvalidateTicketAvailability(ctx context.Context, eventID int64) error {
	return v.client.Del(ctx, availabilityKey(eventID)).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
