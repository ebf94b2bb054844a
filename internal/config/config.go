// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/reminder"
)

// Config holds every setting the server and CLI need.
type Config struct {
	Port   int
	DBPath string

	// PublicBaseURL is the externally visible URL of the server, used to
	// verify webhook signatures.
	PublicBaseURL string

	// ContributionAmount is the fixed per-member amount for each cycle.
	ContributionAmount float64

	Twilio   TwilioConfig
	Reminder ReminderConfig
	Admin    AdminConfig
}

// TwilioConfig holds messaging credentials.
type TwilioConfig struct {
	AccountSID        string
	AuthToken         string
	WhatsAppNumber    string
	ValidateSignature bool
}

// Enabled reports whether real messages can be sent.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

// ReminderConfig controls the daily reminder sweep.
type ReminderConfig struct {
	Enabled        bool
	Schedule       string
	UTCOffsetHours int
	Throttle       time.Duration
	SendTimeout    time.Duration
}

// AdminConfig controls access to the admin API.
type AdminConfig struct {
	Username string

	// PasswordHash is a bcrypt hash. When empty the admin API is unauthenticated.
	PasswordHash string

	JWTSecret string
	JWTTTL    time.Duration
}

// AuthEnabled reports whether the admin API requires a token.
func (a AdminConfig) AuthEnabled() bool {
	return a.PasswordHash != ""
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	// Optional - fails silently if not found
	_ = godotenv.Load()

	var errs []string
	intVar := func(key string, fallback int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}
	floatVar := func(key string, fallback float64) float64 {
		v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}
	boolVar := func(key string, fallback bool) bool {
		v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnv(key, fallback.String()))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}

	cfg := &Config{
		Port:               intVar("PORT", 8080),
		DBPath:             getEnv("DB_PATH", "./data/chama.db"),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		ContributionAmount: floatVar("CONTRIBUTION_AMOUNT", models.DefaultContribution),
		Twilio: TwilioConfig{
			AccountSID:        os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:         os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppNumber:    getEnv("TWILIO_WHATSAPP_NUMBER", "+14155238886"),
			ValidateSignature: boolVar("TWILIO_VALIDATE_SIGNATURE", false),
		},
		Reminder: ReminderConfig{
			Enabled:        boolVar("REMINDERS_ENABLED", true),
			Schedule:       getEnv("REMINDER_SCHEDULE", reminder.DefaultSchedule),
			UTCOffsetHours: intVar("REMINDER_UTC_OFFSET_HOURS", 3),
			Throttle:       durationVar("REMINDER_THROTTLE", time.Second),
			SendTimeout:    durationVar("REMINDER_SEND_TIMEOUT", 15*time.Second),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTTTL:       durationVar("JWT_TTL", 12*time.Hour),
		},
	}

	if cfg.ContributionAmount <= 0 {
		errs = append(errs, "CONTRIBUTION_AMOUNT: must be positive")
	}
	if cfg.Reminder.UTCOffsetHours < -12 || cfg.Reminder.UTCOffsetHours > 14 {
		errs = append(errs, "REMINDER_UTC_OFFSET_HOURS: must be between -12 and 14")
	}
	if cfg.Admin.AuthEnabled() && len(cfg.Admin.JWTSecret) < 16 {
		errs = append(errs, "JWT_SECRET: at least 16 characters required when ADMIN_PASSWORD_HASH is set")
	}
	if cfg.Twilio.ValidateSignature && (cfg.PublicBaseURL == "" || cfg.Twilio.AuthToken == "") {
		errs = append(errs, "TWILIO_VALIDATE_SIGNATURE: requires PUBLIC_BASE_URL and TWILIO_AUTH_TOKEN")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
