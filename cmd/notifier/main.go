// Event notifier worker: consumes the NATS events stream and turns selected
// events into emails. Runs as its own process next to the REST server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/pkg/mailer"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"
	"cv-adapter-be/pkg/database"
	"cv-adapter-be/pkg/events"
	pktNats "cv-adapter-be/pkg/nats"

	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect to NATS: %v", err)
	}
	defer sub.Close()

	handler := func(ctx context.Context, event events.Event) error {
		switch event.EventType() {
		case events.TypeQuotaExhausted:
			return handleQuotaExhausted(ctx, uowFactory, emailService, event)
		default:
			// Not ours; ack and move on
			return nil
		}
	}

	err = sub.Subscribe("events."+events.TypeQuotaExhausted, "cv-adapter-notifier", handler)
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	log.Println("Notifier running, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Notifier shutting down")
}

func handleQuotaExhausted(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	event events.Event,
) error {
	rawId, ok := event.Payload()["user_id"].(string)
	if !ok {
		// Malformed payload: drop it rather than redeliver forever
		log.Printf("Warn: QUOTA_EXHAUSTED event without user_id: %v", event.Payload())
		return nil
	}
	userId, err := uuid.Parse(rawId)
	if err != nil {
		log.Printf("Warn: QUOTA_EXHAUSTED event with bad user_id %q", rawId)
		return nil
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return fmt.Errorf("loading user %s: %w", userId, err)
	}
	if user == nil {
		return nil
	}

	return emailService.SendUpgradeNudge(user.Email, user.FullName)
}
