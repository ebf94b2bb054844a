// Package reminder runs the reminder sweep over unpaid members and schedules it.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/metrics"
	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/payment"
)

// UnpaidLister is the ledger read the sweep depends on.
type UnpaidLister interface {
	ListUnpaidMembers(ctx context.Context) ([]*models.Member, error)
}

// Options tunes the sweep.
type Options struct {
	// Throttle is the pause between sends. Zero disables pacing.
	Throttle time.Duration

	// SendTimeout bounds each gateway call. Zero means no per-call timeout.
	SendTimeout time.Duration
}

// Sweeper sends a reminder to every unpaid member.
type Sweeper struct {
	ledger  UnpaidLister
	gateway messaging.Gateway
	opts    Options
	logger  *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(ledger UnpaidLister, gateway messaging.Gateway, opts Options, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		ledger:  ledger,
		gateway: gateway,
		opts:    opts,
		logger:  logger,
	}
}

// Run performs one sweep. It only reads the ledger.
//
// A failure to load the unpaid set aborts the sweep. Delivery failures are
// collected per member and never stop the pass. If ctx ends mid-pass the
// members not yet attempted are reported as failed.
func (s *Sweeper) Run(ctx context.Context) (*models.SweepResult, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := s.logger.With("run_id", runID)

	unpaid, err := s.ledger.ListUnpaidMembers(ctx)
	if err != nil {
		logger.Error("Reminder sweep aborted: could not load unpaid members", "error", err)
		return nil, fmt.Errorf("failed to load unpaid members: %w", err)
	}

	result := &models.SweepResult{
		RunID:       runID,
		TotalUnpaid: len(unpaid),
	}
	logger.Info("Reminder sweep started", "unpaid", len(unpaid))

	for i, member := range unpaid {
		if i > 0 && s.opts.Throttle > 0 {
			if err := sleep(ctx, s.opts.Throttle); err != nil {
				s.abandon(result, unpaid[i:], err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			s.abandon(result, unpaid[i:], err)
			break
		}

		if err := s.send(ctx, member); err != nil {
			logger.Warn("Reminder failed", "member_id", member.ID, "name", member.Name, "error", err)
			s.fail(result, member, err)
			continue
		}

		logger.Info("Reminder sent", "member_id", member.ID, "name", member.Name)
		result.Sent++
		metrics.RemindersSent.Inc()
	}

	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	logger.Info("Reminder sweep finished",
		"sent", result.Sent,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (s *Sweeper) send(ctx context.Context, member *models.Member) error {
	if s.opts.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SendTimeout)
		defer cancel()
	}
	return s.gateway.Send(ctx, member.PhoneNumber, payment.ReminderText(member.Name))
}

func (s *Sweeper) fail(result *models.SweepResult, member *models.Member, err error) {
	result.Failed++
	result.Failures = append(result.Failures, models.SweepFailure{
		MemberID:    member.ID,
		Name:        member.Name,
		PhoneNumber: member.PhoneNumber,
		Error:       err.Error(),
	})
	metrics.RemindersFailed.Inc()
}

func (s *Sweeper) abandon(result *models.SweepResult, rest []*models.Member, err error) {
	for _, member := range rest {
		s.fail(result, member, fmt.Errorf("sweep cancelled: %w", err))
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
