package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/chamabot/internal/config"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/reminder"
	"github.com/mmynk/chamabot/internal/storage/sqlite"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRunReminders(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "chama.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	now := time.Date(2025, 6, 10, 5, 0, 0, 0, time.UTC)
	_, err = seed(ctx, store, 1000, now)
	require.NoError(t, err)

	cfg := config.ReminderConfig{Schedule: reminder.DefaultSchedule, UTCOffsetHours: 3}
	result, next, err := runReminders(ctx, cfg, store, messaging.NewLogGateway(discardLogger), discardLogger, now)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalUnpaid)
	assert.Equal(t, 5, result.Sent)
	assert.Zero(t, result.Failed)
	// 09:00 in UTC+3 is 06:00 UTC, later the same day.
	assert.Equal(t, time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC), next.UTC())
}

func TestRunReminders_InvalidSchedule(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "chama.db"))
	require.NoError(t, err)
	defer store.Close()

	cfg := config.ReminderConfig{Schedule: "every morning"}
	_, _, err = runReminders(context.Background(), cfg, store, messaging.NewLogGateway(discardLogger), discardLogger, time.Now())
	assert.ErrorContains(t, err, "invalid schedule")
}
