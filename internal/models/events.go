package models

import "time"

// NATS Event Types
const (
	EventBookingCreated    = "booking.created"
	EventBookingCancelled  = "booking.cancelled"
	EventAttendeeCheckedIn = "attendee.checked_in"
)

// BookingCreatedEvent represents a booking creation event
type BookingCreatedEvent struct {
	BookingID   int64     `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	EventID     int64     `json:"event_id"`
	TicketID    int64     `json:"ticket_id"`
	UserID      int64     `json:"user_id"`
	Quantity    int       `json:"quantity"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent represents a booking cancellation event
type BookingCancelledEvent struct {
	BookingID   int64     `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	EventID     int64     `json:"event_id"`
	TicketID    int64     `json:"ticket_id"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// AttendeeCheckedInEvent represents a door check-in event
type AttendeeCheckedInEvent struct {
	AttendeeID  int64     `json:"attendee_id"`
	BookingID   int64     `json:"booking_id"`
	EventID     int64     `json:"event_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Timestamp   time.Time `json:"timestamp"`
}
