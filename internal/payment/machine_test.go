package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
	"github.com/mmynk/chamabot/internal/storage/sqlite"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupMachine(t *testing.T) (*Machine, *sqlite.SQLiteStore) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "chamabot-payment-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewMachine(store, models.DefaultContribution, discardLogger), store
}

func addMember(t *testing.T, store storage.Store, name, phone string) *models.Member {
	t.Helper()
	m := &models.Member{Name: name, PhoneNumber: phone}
	require.NoError(t, store.CreateMember(context.Background(), m))
	return m
}

func TestClassify(t *testing.T) {
	tests := []struct {
		body string
		want Signal
	}{
		{"PAID", SignalAffirmative},
		{"  done ", SignalAffirmative},
		{"Complete", SignalAffirmative},
		{"yes", SignalAffirmative},
		{"status", SignalStatus},
		{"CHECK\n", SignalStatus},
		{"paid already", SignalUnknown},
		{"", SignalUnknown},
		{"hello", SignalUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.body))
		})
	}
}

func TestHandleInbound_AliceScenario(t *testing.T) {
	machine, store := setupMachine(t)
	ctx := context.Background()
	alice := addMember(t, store, "Alice", "+254712345678")

	reply := machine.HandleInbound(ctx, "whatsapp:+254712345678", "PAID")
	assert.True(t, reply.Recorded)
	assert.Equal(t, alice.ID, reply.MemberID)
	assert.Contains(t, reply.Text, "Thank you Alice")

	got, err := store.GetMember(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPaid)
	assert.NotNil(t, got.LastPayment)

	payments, err := store.RecentPayments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 1000.0, payments[0].Amount)

	reply = machine.HandleInbound(ctx, "whatsapp:+254712345678", "status")
	assert.False(t, reply.Recorded)
	assert.Contains(t, reply.Text, "all paid up")

	payments, _ = store.RecentPayments(ctx, 10)
	assert.Len(t, payments, 1)
}

func TestHandleInbound_AlreadyPaidIsIdempotent(t *testing.T) {
	machine, store := setupMachine(t)
	ctx := context.Background()
	addMember(t, store, "Mary", "+254734567890")

	first := machine.HandleInbound(ctx, "+254734567890", "paid")
	require.True(t, first.Recorded)

	for _, body := range []string{"paid", "DONE", "yes"} {
		reply := machine.HandleInbound(ctx, "+254734567890", body)
		assert.False(t, reply.Recorded)
		assert.Contains(t, reply.Text, "already paid")
	}

	payments, _ := store.RecentPayments(ctx, 10)
	assert.Len(t, payments, 1)
}

func TestHandleInbound_StatusAndHelp(t *testing.T) {
	machine, store := setupMachine(t)
	ctx := context.Background()
	addMember(t, store, "Peter", "+254745678901")

	reply := machine.HandleInbound(ctx, "whatsapp:+254745678901", "check")
	assert.Contains(t, reply.Text, "pending payment")

	reply = machine.HandleInbound(ctx, "whatsapp:+254745678901", "when is the meeting?")
	assert.Equal(t, SignalUnknown, reply.Signal)
	assert.Contains(t, reply.Text, "Reply 'PAID'")
	assert.Contains(t, reply.Text, "'STATUS'")

	total, paid, collected, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, paid)
	assert.Zero(t, collected)
}

func TestHandleInbound_Unregistered(t *testing.T) {
	machine, store := setupMachine(t)
	ctx := context.Background()

	for _, body := range []string{"PAID", "status", "hi"} {
		reply := machine.HandleInbound(ctx, "whatsapp:+19999999999", body)
		assert.Zero(t, reply.MemberID)
		assert.Contains(t, reply.Text, "not registered")
	}

	total, _, collected, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, collected)
}

// brokenLedger fails every call.
type brokenLedger struct{}

func (brokenLedger) GetMember(context.Context, int64) (*models.Member, error) {
	return nil, errors.New("connection refused")
}

func (brokenLedger) GetMemberByPhone(context.Context, string) (*models.Member, error) {
	return nil, errors.New("connection refused")
}

func (brokenLedger) RecordPayment(context.Context, int64, float64, time.Time, bool) (*models.Payment, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestHandleInbound_StoreFailureYieldsSafeReply(t *testing.T) {
	machine := NewMachine(brokenLedger{}, 0, discardLogger)

	reply := machine.HandleInbound(context.Background(), "whatsapp:+254712345678", "PAID")
	assert.Equal(t, replyError, reply.Text)
	assert.False(t, reply.Recorded)
}

func TestMarkPaid(t *testing.T) {
	machine, store := setupMachine(t)
	ctx := context.Background()
	grace := addMember(t, store, "Grace", "+254756789012")

	t.Run("defaults amount", func(t *testing.T) {
		res, err := machine.MarkPaid(ctx, grace.ID, 0, false)
		require.NoError(t, err)
		require.NotNil(t, res.Payment)
		assert.Equal(t, 1000.0, res.Payment.Amount)
		assert.False(t, res.AlreadyPaid)
		assert.True(t, res.Member.HasPaid)
	})

	t.Run("guarded repeat records nothing", func(t *testing.T) {
		res, err := machine.MarkPaid(ctx, grace.ID, 1000, false)
		require.NoError(t, err)
		assert.Nil(t, res.Payment)
		assert.True(t, res.AlreadyPaid)

		payments, _ := store.RecentPayments(ctx, 10)
		assert.Len(t, payments, 1)
	})

	t.Run("forced repeat appends", func(t *testing.T) {
		res, err := machine.MarkPaid(ctx, grace.ID, 250, true)
		require.NoError(t, err)
		require.NotNil(t, res.Payment)
		assert.Equal(t, 250.0, res.Payment.Amount)

		_, _, collected, _ := store.Totals(ctx)
		assert.Equal(t, 1250.0, collected)
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := machine.MarkPaid(ctx, 777, 0, false)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
