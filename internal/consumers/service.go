package consumers

import (
	"log/slog"

	"eventhive/internal/config"
	"eventhive/internal/database"
	"eventhive/internal/messaging"
	"eventhive/internal/models"
	"eventhive/internal/repository"
)

// ConsumerService subscribes to booking lifecycle subjects and feeds
// the audit trail. It runs as its own binary so audit writes never sit
// on the API's request path.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repos),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting audit consumers")

	if _, err := cs.nats.SubscribeQueue(models.EventBookingCreated, "audit", cs.handlers.HandleBookingCreated); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventBookingCancelled, "audit", cs.handlers.HandleBookingCancelled); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventAttendeeCheckedIn, "audit", cs.handlers.HandleAttendeeCheckedIn); err != nil {
		return err
	}

	slog.Info("Audit consumers subscribed",
		"subjects", []string{
			models.EventBookingCreated,
			models.EventBookingCancelled,
			models.EventAttendeeCheckedIn,
		})
	return nil
}

func (cs *ConsumerService) Stop() {
	slog.Info("Stopping audit consumers")

	if cs.nats != nil {
		cs.nats.Close()
	}
	if cs.db != nil {
		cs.db.Close()
	}
}
