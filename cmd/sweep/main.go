package main

import (
	"context"
	"log"

	"eventgenie/internal/config"
	"eventgenie/internal/database"
	"eventgenie/internal/jobs"
	"eventgenie/internal/modules/notification"
	"eventgenie/internal/pkg/logging"
	"eventgenie/internal/repository"
)

// One-shot expiry sweep for cron-style deployments. The API server runs the
// same sweep on a ticker; this binary exists for setups where the enforcement
// schedule is owned by the platform.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.Environment)
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("database connect failed", "error", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	notificationService := notification.NewService(repository.NewNotificationRepository(db))

	sweeper := jobs.NewExpirySweeper(bookingRepo, notificationService, logger, cfg.SweepInterval)
	cancelled := sweeper.Sweep(context.Background())
	logger.Infow("sweep finished", "cancelled", cancelled)
}
