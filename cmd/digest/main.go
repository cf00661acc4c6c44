package main

import (
	"context"
	"flag"
	"log"
	"time"

	"brightsteps/internal/config"
	"brightsteps/internal/database"
	"brightsteps/internal/progress"
	"brightsteps/internal/repository"
	"brightsteps/internal/service"
)

// Sends parent emails for every kid with an email on file. The default
// mode mails the weekly progress digest (run from cron on Sunday
// evenings); -reminders instead nudges parents whose kid's streak lapses
// unless a task is completed today (run daily in the late afternoon).
func main() {
	dryRun := flag.Bool("dry-run", false, "Log what would be sent without sending")
	reminders := flag.Bool("reminders", false, "Send streak-at-risk reminders instead of the weekly digest")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	kidRepo := repository.NewKidRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	progressService := service.NewProgressService(progressRepo)

	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	kids, err := kidRepo.GetAllKids()
	if err != nil {
		log.Fatalf("Failed to list kids: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	sent := 0
	skipped := 0
	for _, kid := range kids {
		if kid.ParentEmail == "" {
			skipped++
			continue
		}

		doc, totals := progressService.GetProgress(kid.ID)

		if *reminders {
			if !doc.Streak.AtRisk(now) {
				skipped++
				continue
			}
			if *dryRun {
				log.Printf("Would send streak reminder for %s to %s: streak %d ends today",
					kid.Name, kid.ParentEmail, doc.Streak.CurrentStreak)
				continue
			}
			if err := emailService.SendStreakReminder(ctx, kid.ParentEmail, kid.Name, doc.Streak.CurrentStreak); err != nil {
				log.Printf("Warning: Failed to send streak reminder for kid %d: %v", kid.ID, err)
				continue
			}
			sent++
			continue
		}

		unlocked := progress.Unlocked(doc)

		if *dryRun {
			log.Printf("Would send digest for %s to %s: %d tasks, streak %d, %d achievements",
				kid.Name, kid.ParentEmail, totals.Completed, doc.Streak.CurrentStreak, len(unlocked))
			continue
		}

		if err := emailService.SendWeeklyDigest(ctx, kid.ParentEmail, kid.Name, totals, doc.Streak, unlocked); err != nil {
			log.Printf("Warning: Failed to send digest for kid %d: %v", kid.ID, err)
			continue
		}
		sent++
	}

	if *reminders {
		log.Printf("Reminder run complete: %d sent, %d skipped", sent, skipped)
	} else {
		log.Printf("Digest run complete: %d sent, %d skipped (no parent email)", sent, skipped)
	}
}
