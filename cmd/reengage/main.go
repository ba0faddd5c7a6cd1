// Re-engagement batch: emails users who have not generated anything for a
// while. Intended to run from cron, e.g. daily.
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/pkg/mailer"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"
	"cv-adapter-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	inactiveDays := 14
	if v := os.Getenv("REENGAGE_INACTIVE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			inactiveDays = n
		}
	}
	cutoff := time.Now().AddDate(0, 0, -inactiveDays)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx,
		specification.ActiveUsers{},
		specification.InactiveSince{Cutoff: cutoff},
	)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	log.Printf("Found %d users inactive for %d+ days", len(users), inactiveDays)

	sent := 0
	for _, u := range users {
		if err := emailService.SendReEngagement(u.Email, u.FullName); err != nil {
			log.Printf("Warn: send to %s failed: %v", u.Email, err)
			continue
		}
		sent++
	}

	log.Printf("Done: %d re-engagement emails sent", sent)
}
