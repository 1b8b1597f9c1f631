package main

import (
	"os"
	"os/signal"
	"syscall"

	"eventhive/internal/config"
	"eventhive/internal/consumers"
	"eventhive/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	log.Info("Starting consumers service")

	cfg.NATS.ClientID = "eventhive-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	log.Info("Consumers service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down consumers service")
	consumerService.Stop()
	log.Info("Consumers service stopped")
}
