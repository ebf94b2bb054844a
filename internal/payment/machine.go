package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/metrics"
	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
)

// Ledger is the subset of storage.Store the state machine needs.
type Ledger interface {
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	GetMemberByPhone(ctx context.Context, phone string) (*models.Member, error)
	RecordPayment(ctx context.Context, memberID int64, amount float64, at time.Time, requireUnpaid bool) (*models.Payment, bool, error)
}

// Reply is the outcome of an inbound chat message.
type Reply struct {
	// Text is always set and safe to send back to the member.
	Text string

	Signal Signal

	// MemberID is zero when the sender is not registered.
	MemberID int64

	// Recorded is true when a payment was appended to the ledger.
	Recorded bool
}

// MarkPaidResult is the outcome of an admin mark-paid call.
type MarkPaidResult struct {
	Member *models.Member

	// Payment is nil when nothing was recorded.
	Payment *models.Payment

	// AlreadyPaid is true when the member was paid before the call.
	AlreadyPaid bool
}

// Machine applies payment transitions to the ledger.
type Machine struct {
	ledger Ledger
	amount float64
	now    func() time.Time
	logger *slog.Logger
}

// NewMachine creates a Machine. amount is the fixed per-cycle contribution
// recorded for chat confirmations and used as the admin default.
func NewMachine(ledger Ledger, amount float64, logger *slog.Logger) *Machine {
	if amount <= 0 {
		amount = models.DefaultContribution
	}
	return &Machine{
		ledger: ledger,
		amount: amount,
		now:    time.Now,
		logger: logger,
	}
}

// Amount returns the per-cycle contribution.
func (m *Machine) Amount() float64 {
	return m.amount
}

// HandleInbound processes a chat message from `from` and returns the reply.
// It never fails: lookup misses and store errors become safe reply texts.
func (m *Machine) HandleInbound(ctx context.Context, from, body string) (reply Reply) {
	signal := Classify(body)
	reply.Signal = signal

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Inbound message panicked", "from", from, "panic", r)
			reply = Reply{Text: replyError, Signal: signal}
			metrics.InboundMessages.WithLabelValues("error").Inc()
		}
	}()

	phone := messaging.NormalizePhone(from)
	member, err := m.ledger.GetMemberByPhone(ctx, phone)
	if errors.Is(err, storage.ErrNotFound) {
		m.logger.Info("Inbound message from unregistered number", "phone", phone)
		metrics.InboundMessages.WithLabelValues("unregistered").Inc()
		reply.Text = replyNotRegistered
		return reply
	}
	if err != nil {
		m.logger.Error("Inbound member lookup failed", "phone", phone, "error", err)
		metrics.InboundMessages.WithLabelValues("error").Inc()
		reply.Text = replyError
		return reply
	}

	reply.MemberID = member.ID
	metrics.InboundMessages.WithLabelValues(signal.String()).Inc()

	switch signal {
	case SignalAffirmative:
		if member.HasPaid {
			reply.Text = replyAlreadyPaid(member.Name)
			return reply
		}
		payment, recorded, err := m.ledger.RecordPayment(ctx, member.ID, m.amount, m.now(), true)
		if err != nil {
			m.logger.Error("Recording chat payment failed", "member_id", member.ID, "error", err)
			reply.Text = replyError
			return reply
		}
		if !recorded {
			// Lost a race with another confirmation; the member is paid either way.
			reply.Text = replyAlreadyPaid(member.Name)
			return reply
		}
		m.logger.Info("Payment recorded",
			"source", models.SourceChat,
			"member_id", member.ID,
			"payment_id", payment.ID,
			"amount", payment.Amount,
		)
		metrics.PaymentsRecorded.WithLabelValues(models.SourceChat).Inc()
		reply.Recorded = true
		reply.Text = replyRecorded(member.Name)

	case SignalStatus:
		if member.HasPaid {
			reply.Text = replyPaidUp(member.Name)
		} else {
			reply.Text = replyPending(member.Name)
		}

	default:
		reply.Text = replyHelp(member.Name)
	}

	return reply
}

// MarkPaid records a payment for memberID from the admin API.
//
// A non-positive amount defaults to the per-cycle contribution. Members that
// have already paid this cycle are left untouched unless force is set, in
// which case another ledger entry is appended.
func (m *Machine) MarkPaid(ctx context.Context, memberID int64, amount float64, force bool) (*MarkPaidResult, error) {
	if amount <= 0 {
		amount = m.amount
	}

	before, err := m.ledger.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	payment, recorded, err := m.ledger.RecordPayment(ctx, memberID, amount, m.now(), !force)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	member, err := m.ledger.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := &MarkPaidResult{
		Member:      member,
		AlreadyPaid: before.HasPaid,
	}
	if recorded {
		result.Payment = payment
		metrics.PaymentsRecorded.WithLabelValues(models.SourceAdmin).Inc()
		m.logger.Info("Payment recorded",
			"source", models.SourceAdmin,
			"member_id", memberID,
			"payment_id", payment.ID,
			"amount", amount,
			"forced", force,
		)
	} else {
		m.logger.Info("Mark-paid skipped, member already paid", "member_id", memberID)
	}

	return result, nil
}
