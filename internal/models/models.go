package models

import "time"

// CreateEventRequest creates a catalog event.
type CreateEventRequest struct {
	Name                 string    `json:"name" binding:"required"`
	Category             string    `json:"category"`
	Location             *string   `json:"location"`
	StartsAt             time.Time `json:"starts_at" binding:"required"`
	EndsAt               time.Time `json:"ends_at" binding:"required"`
	RegistrationStartsAt time.Time `json:"registration_starts_at" binding:"required"`
	RegistrationEndsAt   time.Time `json:"registration_ends_at" binding:"required"`
	Published            bool      `json:"published"`
}

// CreateEventResponse carries the new event id.
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// CreateTicketRequest adds a ticket type to an event.
type CreateTicketRequest struct {
	Name         string     `json:"name" binding:"required"`
	PriceCents   int64      `json:"price_cents"`
	MaxPerUser   int        `json:"max_per_user" binding:"required"`
	MaxTotal     int        `json:"max_total" binding:"required"`
	SaleStartsAt *time.Time `json:"sale_starts_at"`
	SaleEndsAt   *time.Time `json:"sale_ends_at"`
}

// CreateTicketResponse carries the new ticket type id.
type CreateTicketResponse struct {
	ID int64 `json:"id"`
}

// TicketAvailabilityItem is the read-side view of one ticket type.
// Remaining is derived from the ledger's sold_count, never from
// booking rows.
type TicketAvailabilityItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	MaxPerUser int    `json:"max_per_user"`
	Remaining  int    `json:"remaining"`
	Active     bool   `json:"active"`
}

// AttendeeInput is one attendee record supplied at booking time.
type AttendeeInput struct {
	Name   string  `json:"name" binding:"required"`
	Email  string  `json:"email" binding:"required,email"`
	Phone  *string `json:"phone"`
	Gender *string `json:"gender"`
}

// CreateBookingRequest books quantity units of one ticket type.
// len(Attendees) must equal Quantity.
type CreateBookingRequest struct {
	EventID   int64           `json:"event_id" binding:"required"`
	TicketID  int64           `json:"ticket_id" binding:"required"`
	Quantity  int             `json:"quantity"`
	Attendees []AttendeeInput `json:"attendees" binding:"required"`
}

// BookingResponse is the full booking view. Credentials appear here
// exactly once, at creation; list endpoints omit them.
type BookingResponse struct {
	ID               int64              `json:"id"`
	BookingCode      string             `json:"booking_code"`
	EventID          int64              `json:"event_id"`
	TicketID         int64              `json:"ticket_id"`
	Quantity         int                `json:"quantity"`
	TotalAmountCents int64              `json:"total_amount_cents"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	Attendees        []AttendeeResponse `json:"attendees"`
}

// AttendeeResponse is one attendee under a booking.
type AttendeeResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Credential  string     `json:"credential,omitempty"`
	Attended    bool       `json:"attended"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// ListBookingsResponseItem is one row of a user's booking list.
type ListBookingsResponseItem struct {
	ID               int64     `json:"id"`
	BookingCode      string    `json:"booking_code"`
	EventID          int64     `json:"event_id"`
	TicketID         int64     `json:"ticket_id"`
	Quantity         int       `json:"quantity"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListBookingsResponse is a paginated booking list.
type ListBookingsResponse struct {
	Items    []ListBookingsResponseItem `json:"items"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
	Total    int64                      `json:"total"`
}

// CancelBookingRequest cancels a booking by its shareable code.
type CancelBookingRequest struct {
	BookingCode string `json:"booking_code" binding:"required"`
}

// CheckInRequest presents one credential at the door.
type CheckInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// CheckInResponse reports a check-in. AlreadyCheckedIn distinguishes
// the idempotent repeat from a first check-in; CheckedInAt is the
// original timestamp in both cases.
type CheckInResponse struct {
	AttendeeName     string    `json:"attendee_name"`
	EventID          int64     `json:"event_id"`
	CheckedInAt      time.Time `json:"checked_in_at"`
	AlreadyCheckedIn bool      `json:"already_checked_in"`
}

// BulkCheckInRequest presents a batch of credentials.
type BulkCheckInRequest struct {
	Credentials []string `json:"credentials" binding:"required"`
}

// BulkCheckInResult is the per-credential outcome of a bulk check-in.
type BulkCheckInResult struct {
	Credential       string     `json:"credential"`
	OK               bool       `json:"ok"`
	AlreadyCheckedIn bool       `json:"already_checked_in,omitempty"`
	AttendeeName     string     `json:"attendee_name,omitempty"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// BulkCheckInResponse carries per-item results and summary counts.
type BulkCheckInResponse struct {
	Results          []BulkCheckInResult `json:"results"`
	Total            int                 `json:"total"`
	Succeeded        int                 `json:"succeeded"`
	AlreadyCheckedIn int                 `json:"already_checked_in"`
	Failed           int                 `json:"failed"`
}

// EventAttendeeRow is one row of the organizer's attendee listing.
type EventAttendeeRow struct {
	ID          int64      `json:"id"`
	BookingCode string     `json:"booking_code"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Attended    bool       `json:"attended"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// ListEventAttendeesResponse is a paginated attendee listing.
type ListEventAttendeesResponse struct {
	Items    []EventAttendeeRow `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int64              `json:"total"`
}

// EventStatsResponse aggregates one event.
type EventStatsResponse struct {
	EventID           int64 `json:"event_id"`
	TicketsSold       int64 `json:"tickets_sold"`
	BookingsCount     int64 `json:"bookings_count"`
	RefundedCount     int64 `json:"refunded_count"`
	AttendeesCount    int64 `json:"attendees_count"`
	CheckedInCount    int64 `json:"checked_in_count"`
	RevenueCents      int64 `json:"revenue_cents"`
	CapacityTotal     int64 `json:"capacity_total"`
	CapacityRemaining int64 `json:"capacity_remaining"`
}

// UserStatsResponse aggregates one user's bookings.
type UserStatsResponse struct {
	UserID        int64 `json:"user_id"`
	BookingsCount int64 `json:"bookings_count"`
	TicketsBought int64 `json:"tickets_bought"`
	EventsCount   int64 `json:"events_count"`
	SpentCents    int64 `json:"spent_cents"`
}

// GlobalStatsResponse aggregates the whole system.
type GlobalStatsResponse struct {
	EventsCount    int64 `json:"events_count"`
	BookingsCount  int64 `json:"bookings_count"`
	TicketsSold    int64 `json:"tickets_sold"`
	AttendeesCount int64 `json:"attendees_count"`
	CheckedInCount int64 `json:"checked_in_count"`
	RevenueCents   int64 `json:"revenue_cents"`
}
