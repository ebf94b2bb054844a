package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/chamabot/internal/storage/sqlite"
)

func TestSeed(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "chama.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	res, err := seed(ctx, store, 1000, now)
	require.NoError(t, err)
	assert.Equal(t, &seedResult{Members: 10, Payments: 5, Unpaid: 5}, res)

	total, paid, collected, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, 5, paid)
	assert.Equal(t, 5000.0, collected)

	alice, err := store.GetMemberByPhone(ctx, "+254712345678")
	require.NoError(t, err)
	require.NotNil(t, alice.LastPayment)
	assert.True(t, alice.LastPayment.Equal(now.Add(-24*time.Hour)))

	// Re-seeding leaves the ledger as it was.
	res, err = seed(ctx, store, 1000, now)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Skipped)
	assert.Zero(t, res.Members)

	_, _, collected, err = store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, collected)
}

func TestSeed_UsesConfiguredAmount(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "chama.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = seed(ctx, store, 500, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, _, collected, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, collected)
}
