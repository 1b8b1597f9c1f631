package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	Role         string    `json:"role" db:"role"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// User roles.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Event represents an event in the catalog. Events are owned by their
// organizer and are never hard-deleted while bookings reference them.
type Event struct {
	ID                   int64     `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Category             string    `json:"category" db:"category"`
	Location             *string   `json:"location" db:"location"`
	OrganizerID          int64     `json:"organizer_id" db:"organizer_id"`
	StartsAt             time.Time `json:"starts_at" db:"starts_at"`
	EndsAt               time.Time `json:"ends_at" db:"ends_at"`
	RegistrationStartsAt time.Time `json:"registration_starts_at" db:"registration_starts_at"`
	RegistrationEndsAt   time.Time `json:"registration_ends_at" db:"registration_ends_at"`
	Published            bool      `json:"published" db:"published"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Ticket is a ticket type. sold_count is the authoritative availability
// counter and is mutated only by the inventory ledger.
type Ticket struct {
	ID           int64      `json:"id" db:"id"`
	EventID      int64      `json:"event_id" db:"event_id"`
	Name         string     `json:"name" db:"name"`
	PriceCents   int64      `json:"price_cents" db:"price_cents"`
	MaxPerUser   int        `json:"max_per_user" db:"max_per_user"`
	MaxTotal     int        `json:"max_total" db:"max_total"`
	SoldCount    int        `json:"sold_count" db:"sold_count"`
	SaleStartsAt *time.Time `json:"sale_starts_at" db:"sale_starts_at"`
	SaleEndsAt   *time.Time `json:"sale_ends_at" db:"sale_ends_at"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Remaining returns the units still available for sale.
func (t *Ticket) Remaining() int {
	return t.MaxTotal - t.SoldCount
}

// Booking statuses. A booking is immutable once created except for the
// completed -> refunded transition.
const (
	BookingStatusCompleted = "completed"
	BookingStatusRefunded  = "refunded"
)

// Booking is a completed purchase of one ticket type. Persisted in the
// transactions table; owns its attendees.
type Booking struct {
	ID               int64      `json:"id" db:"id"`
	BookingCode      string     `json:"booking_code" db:"booking_code"`
	UserID           int64      `json:"user_id" db:"user_id"`
	EventID          int64      `json:"event_id" db:"event_id"`
	TicketID         int64      `json:"ticket_id" db:"ticket_id"`
	Quantity         int        `json:"quantity" db:"quantity"`
	TotalAmountCents int64      `json:"total_amount_cents" db:"total_amount_cents"`
	Status           string     `json:"status" db:"status"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	Attendees        []Attendee `json:"attendees,omitempty"` // Not from DB, filled separately
}

// Attendee is one admission under a booking. The credential token is
// the QR payload; it is assigned once and never reused.
type Attendee struct {
	ID            int64      `json:"id" db:"id"`
	TransactionID int64      `json:"transaction_id" db:"transaction_id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Phone         *string    `json:"phone,omitempty" db:"phone"`
	Gender        *string    `json:"gender,omitempty" db:"gender"`
	Credential    string     `json:"credential" db:"credential"`
	Attended      bool       `json:"attended" db:"attended"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
