package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingCodeFormat(t *testing.T) {
	code := NewBookingCode()

	assert.True(t, strings.HasPrefix(code, "EVH-"), "code %q must carry the EVH prefix", code)

	parts := strings.Split(code, "-")
	assert.Len(t, parts, 3)
	assert.NotEmpty(t, parts[1])
	assert.Len(t, parts[2], 4)
}

func TestNewBookingCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewBookingCode()] = true
	}

	// The random suffix alone gives 65536 values per millisecond; a
	// hundred draws colliding down to a handful would be broken.
	assert.Greater(t, len(seen), 90)
}

func TestCancellable(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cutoff := 24 * time.Hour

	cases := []struct {
		name       string
		eventStart time.Time
		want       bool
	}{
		{"well before cutoff", now.Add(72 * time.Hour), true},
		{"exactly at cutoff", now.Add(24 * time.Hour), true},
		{"one second inside cutoff", now.Add(24*time.Hour - time.Second), false},
		{"event already started", now.Add(-time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Cancellable(tc.eventStart, now, cutoff))
		})
	}
}

func TestCancellableCustomCutoff(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	eventStart := now.Add(6 * time.Hour)

	assert.False(t, Cancellable(eventStart, now, 24*time.Hour))
	assert.True(t, Cancellable(eventStart, now, 2*time.Hour))
}

func TestWithinCheckInWindow(t *testing.T) {
	eventStart := time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC)
	tolerance := 24 * time.Hour

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same day, morning", time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC), true},
		{"same day, late night", time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC), true},
		{"day before", time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), true},
		{"day after", time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC), true},
		{"two days before", time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC), false},
		{"two days after", time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WithinCheckInWindow(eventStart, tc.now, tolerance, time.UTC))
		})
	}
}

func TestWithinCheckInWindowZeroTolerance(t *testing.T) {
	eventStart := time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC)

	assert.True(t, WithinCheckInWindow(eventStart,
		time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC), 0, time.UTC))
	assert.False(t, WithinCheckInWindow(eventStart,
		time.Date(2025, 6, 11, 7, 0, 0, 0, time.UTC), 0, time.UTC))
}

func TestWithinCheckInWindowNilLocationDefaultsToUTC(t *testing.T) {
	eventStart := time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)

	assert.True(t, WithinCheckInWindow(eventStart, now, 0, nil))
}

func TestWithinCheckInWindowUsesConfiguredCalendarDay(t *testing.T) {
	// 03:30 UTC on June 11 is still the evening of June 10 at UTC-5.
	loc := time.FixedZone("UTC-5", -5*3600)
	eventStart := time.Date(2025, 6, 11, 3, 30, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, WithinCheckInWindow(eventStart, now, 0, loc),
		"same local day must pass even when UTC days differ")
	assert.False(t, WithinCheckInWindow(eventStart, now, 0, time.UTC))

	// The day after the event's local day, one day tolerance admits it.
	dayAfter := time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC)
	assert.True(t, WithinCheckInWindow(eventStart, dayAfter, 24*time.Hour, loc))
	assert.False(t, WithinCheckInWindow(eventStart, dayAfter, 0, loc))
}
