package repository

import (
	"eventhive/internal/database"
)

type Repositories struct {
	Events    *EventRepository
	Tickets   *TicketRepository
	Bookings  *BookingRepository
	Attendees *AttendeeRepository
	Users     *UserRepository
	Stats     *StatsRepository
	Audit     *AuditRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:    NewEventRepository(db),
		Tickets:   NewTicketRepository(db),
		Bookings:  NewBookingRepository(db),
		Attendees: NewAttendeeRepository(db),
		Users:     NewUserRepository(db),
		Stats:     NewStatsRepository(db),
		Audit:     NewAuditRepository(db),
	}
}
