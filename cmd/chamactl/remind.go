package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/chamabot/internal/config"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/reminder"
)

// runReminders runs the daily reminder task once, through the same
// scheduler the server uses, and reports when the schedule fires next.
func runReminders(ctx context.Context, cfg config.ReminderConfig, ledger reminder.UnpaidLister, gateway messaging.Gateway, logger *slog.Logger, now time.Time) (*models.SweepResult, time.Time, error) {
	sweeper := reminder.NewSweeper(ledger, gateway, reminder.Options{
		Throttle:    cfg.Throttle,
		SendTimeout: cfg.SendTimeout,
	}, logger)

	var result *models.SweepResult
	scheduler, err := reminder.NewScheduler("daily_reminders", cfg.Schedule, reminder.FixedZone(cfg.UTCOffsetHours),
		func(ctx context.Context) error {
			var err error
			result, err = sweeper.Run(ctx)
			return err
		}, logger)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer scheduler.Stop(context.Background())

	if err := scheduler.RunNow(ctx); err != nil {
		return nil, time.Time{}, err
	}
	return result, scheduler.Next(now), nil
}
