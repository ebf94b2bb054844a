package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/chamabot/internal/auth"
	"github.com/mmynk/chamabot/internal/config"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/payment"
	"github.com/mmynk/chamabot/internal/reminder"
	"github.com/mmynk/chamabot/internal/server"
	"github.com/mmynk/chamabot/internal/storage/sqlite"
	"github.com/mmynk/chamabot/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	var gateway messaging.Gateway
	if cfg.Twilio.Enabled() {
		gateway = messaging.NewTwilioGateway(messaging.TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			From:       cfg.Twilio.WhatsAppNumber,
			Timeout:    cfg.Reminder.SendTimeout,
		}, logger)
		logger.Info("Twilio gateway enabled", "from", cfg.Twilio.WhatsAppNumber)
	} else {
		gateway = messaging.NewLogGateway(logger)
		logger.Warn("Twilio credentials not set, outbound messages are only logged")
	}

	machine := payment.NewMachine(store, cfg.ContributionAmount, logger)
	sweeper := reminder.NewSweeper(store, gateway, reminder.Options{
		Throttle:    cfg.Reminder.Throttle,
		SendTimeout: cfg.Reminder.SendTimeout,
	}, logger)

	loc := reminder.FixedZone(cfg.Reminder.UTCOffsetHours)
	opts := server.Options{
		Store:         store,
		Machine:       machine,
		Sweeper:       sweeper,
		PublicBaseURL: cfg.PublicBaseURL,
		Location:      loc,
		Logger:        logger,
	}
	if cfg.Twilio.ValidateSignature {
		opts.Validator = messaging.NewSignatureValidator(cfg.Twilio.AuthToken)
	}
	if cfg.Admin.AuthEnabled() {
		opts.JWTManager = auth.NewJWTManager(cfg.Admin.JWTSecret, cfg.Admin.JWTTTL)
		opts.Authenticator = auth.NewPasswordAuthenticator(cfg.Admin.Username, cfg.Admin.PasswordHash)
		logger.Info("Admin authentication enabled", "username", cfg.Admin.Username)
	} else {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin API is unauthenticated")
	}

	var scheduler *reminder.Scheduler
	if cfg.Reminder.Enabled {
		scheduler, err = reminder.NewScheduler("daily_reminders", cfg.Reminder.Schedule, loc,
			func(ctx context.Context) error {
				_, err := sweeper.Run(ctx)
				return err
			}, logger)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		scheduler.Start()
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(server.New(opts), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
