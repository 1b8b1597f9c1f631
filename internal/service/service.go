package service

import (
	"eventhive/internal/config"
	"eventhive/internal/database"
	"eventhive/internal/messaging"
	"eventhive/internal/repository"
)

type Services struct {
	Events   *EventService
	Bookings *BookingService
	CheckIn  *CheckInService
	Stats    *StatsService
}

func NewServices(repos *repository.Repositories, db *database.DB, natsClient *messaging.NATSClient, policy config.BookingPolicy) *Services {
	return &Services{
		Events:   NewEventService(repos),
		Bookings: NewBookingService(repos, db, natsClient, policy),
		CheckIn:  NewCheckInService(repos, db, natsClient, policy),
		Stats:    NewStatsService(repos),
	}
}
