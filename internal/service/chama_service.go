package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/chamabot/internal/calculator"
	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/payment"
	"github.com/mmynk/chamabot/internal/storage"
)

// ErrValidation is returned for malformed admin input.
var ErrValidation = errors.New("validation failed")

const (
	defaultRecentLimit = 10
	defaultSearchLimit = 20
	minSearchLength    = 2
)

// SweepRunner runs one reminder sweep.
type SweepRunner interface {
	Run(ctx context.Context) (*models.SweepResult, error)
}

// ChamaService implements the admin API.
type ChamaService struct {
	store   storage.Store
	machine *payment.Machine
	sweeper SweepRunner
	now     func() time.Time
	logger  *slog.Logger

	// loc decides where calendar months start for GetMonthlyStats.
	loc *time.Location
}

// NewChamaService creates a new ChamaService. A nil loc means UTC.
func NewChamaService(store storage.Store, machine *payment.Machine, sweeper SweepRunner, loc *time.Location, logger *slog.Logger) *ChamaService {
	if loc == nil {
		loc = time.UTC
	}
	return &ChamaService{
		store:   store,
		machine: machine,
		sweeper: sweeper,
		now:     time.Now,
		logger:  logger,
		loc:     loc,
	}
}

// ListMembers returns every member, newest first.
func (s *ChamaService) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		s.logger.Error("ListMembers failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*Member, len(members))
	for i, m := range members {
		out[i] = toMember(m)
	}
	return connect.NewResponse(&ListMembersResponse{Members: out}), nil
}

// CreateMember registers a new member.
func (s *ChamaService) CreateMember(ctx context.Context, req *connect.Request[CreateMemberRequest]) (*connect.Response[CreateMemberResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	phone := messaging.NormalizePhone(req.Msg.PhoneNumber)
	if name == "" || phone == "" {
		return nil, toConnectError(fmt.Errorf("%w: name and phone number are required", ErrValidation))
	}

	member := &models.Member{
		Name:        name,
		PhoneNumber: phone,
		HasPaid:     req.Msg.HasPaid,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		s.logger.Warn("CreateMember failed", "phone", phone, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Member created", "member_id", member.ID, "name", member.Name)
	return connect.NewResponse(&CreateMemberResponse{Member: toMember(member)}), nil
}

// MarkPaid records a payment for a member.
func (s *ChamaService) MarkPaid(ctx context.Context, req *connect.Request[MarkPaidRequest]) (*connect.Response[MarkPaidResponse], error) {
	if req.Msg.MemberID <= 0 {
		return nil, toConnectError(fmt.Errorf("%w: member_id is required", ErrValidation))
	}
	if req.Msg.Amount < 0 {
		return nil, toConnectError(fmt.Errorf("%w: amount must not be negative", ErrValidation))
	}

	result, err := s.machine.MarkPaid(ctx, req.Msg.MemberID, req.Msg.Amount, req.Msg.Force)
	if err != nil {
		s.logger.Warn("MarkPaid failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&MarkPaidResponse{
		Member:      toMember(result.Member),
		Payment:     toPayment(result.Payment),
		Recorded:    result.Payment != nil,
		AlreadyPaid: result.AlreadyPaid,
	}), nil
}

// SendReminders runs a reminder sweep now and reports per-member outcomes.
func (s *ChamaService) SendReminders(ctx context.Context, req *connect.Request[SendRemindersRequest]) (*connect.Response[SendRemindersResponse], error) {
	result, err := s.sweeper.Run(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	failures := make([]*ReminderFailure, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = &ReminderFailure{
			MemberID:    f.MemberID,
			Name:        f.Name,
			PhoneNumber: f.PhoneNumber,
			Error:       f.Error,
		}
	}

	return connect.NewResponse(&SendRemindersResponse{
		RunID:       result.RunID,
		TotalUnpaid: result.TotalUnpaid,
		Sent:        result.Sent,
		Failed:      result.Failed,
		Failures:    failures,
	}), nil
}

// GetSummary returns the collection summary.
func (s *ChamaService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	total, paid, collected, err := s.store.Totals(ctx)
	if err != nil {
		s.logger.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}

	due, err := s.store.GetDueDate(ctx)
	if err != nil {
		s.logger.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}

	sum := calculator.Collection(total, paid, collected, s.machine.Amount())
	return connect.NewResponse(&GetSummaryResponse{
		DueDate: formatDate(due),
		Summary: &Summary{
			TotalMembers:         sum.TotalMembers,
			PaidMembers:          sum.PaidMembers,
			UnpaidMembers:        sum.UnpaidMembers,
			TotalCollected:       sum.TotalCollected,
			ExpectedTotal:        sum.ExpectedTotal,
			CollectionPercentage: sum.CollectionPercentage,
		},
	}), nil
}

// ListRecentPayments returns the latest ledger entries.
func (s *ChamaService) ListRecentPayments(ctx context.Context, req *connect.Request[ListRecentPaymentsRequest]) (*connect.Response[ListRecentPaymentsResponse], error) {
	limit := req.Msg.Limit
	if limit < 0 {
		return nil, toConnectError(fmt.Errorf("%w: limit must not be negative", ErrValidation))
	}
	if limit == 0 {
		limit = defaultRecentLimit
	}

	recent, err := s.store.RecentPayments(ctx, limit)
	if err != nil {
		s.logger.Error("ListRecentPayments failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*RecentPayment, len(recent))
	for i, p := range recent {
		out[i] = &RecentPayment{
			PaymentID:  p.PaymentID,
			MemberName: p.MemberName,
			Amount:     p.Amount,
			Date:       p.Date,
		}
	}
	return connect.NewResponse(&ListRecentPaymentsResponse{Payments: out}), nil
}

// ListPendingReminders lists unpaid members and how long they have been registered.
func (s *ChamaService) ListPendingReminders(ctx context.Context, req *connect.Request[ListPendingRemindersRequest]) (*connect.Response[ListPendingRemindersResponse], error) {
	unpaid, err := s.store.ListUnpaidMembers(ctx)
	if err != nil {
		s.logger.Error("ListPendingReminders failed", "error", err)
		return nil, toConnectError(err)
	}

	now := s.now()
	reminders := make([]*PendingReminder, len(unpaid))
	for i, m := range unpaid {
		reminders[i] = &PendingReminder{
			MemberID:         m.ID,
			Name:             m.Name,
			PhoneNumber:      m.PhoneNumber,
			DaysSinceCreated: int(now.Sub(m.CreatedAt) / (24 * time.Hour)),
		}
	}
	return connect.NewResponse(&ListPendingRemindersResponse{
		Count:     len(reminders),
		Reminders: reminders,
	}), nil
}

// ResetCycle starts a new contribution cycle.
func (s *ChamaService) ResetCycle(ctx context.Context, req *connect.Request[ResetCycleRequest]) (*connect.Response[ResetCycleResponse], error) {
	n, err := s.store.ResetCycle(ctx)
	if err != nil {
		s.logger.Error("ResetCycle failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Contribution cycle reset", "members_reset", n)
	return connect.NewResponse(&ResetCycleResponse{MembersReset: n}), nil
}

// SearchMembers finds members by a case-insensitive name fragment.
// Queries shorter than two characters match nothing.
func (s *ChamaService) SearchMembers(ctx context.Context, req *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error) {
	limit := req.Msg.Limit
	if limit < 0 {
		return nil, toConnectError(fmt.Errorf("%w: limit must not be negative", ErrValidation))
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}

	query := strings.TrimSpace(req.Msg.Query)
	if len([]rune(query)) < minSearchLength {
		return connect.NewResponse(&SearchMembersResponse{Members: []*Member{}}), nil
	}

	members, err := s.store.SearchMembers(ctx, query, limit)
	if err != nil {
		s.logger.Error("SearchMembers failed", "query", query, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*Member, len(members))
	for i, m := range members {
		out[i] = toMember(m)
	}
	return connect.NewResponse(&SearchMembersResponse{Members: out}), nil
}

// GetPaymentHistory returns a member and every payment they made, newest first.
func (s *ChamaService) GetPaymentHistory(ctx context.Context, req *connect.Request[GetPaymentHistoryRequest]) (*connect.Response[GetPaymentHistoryResponse], error) {
	if req.Msg.MemberID <= 0 {
		return nil, toConnectError(fmt.Errorf("%w: member_id is required", ErrValidation))
	}

	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	payments, err := s.store.ListPaymentsByMember(ctx, member.ID)
	if err != nil {
		s.logger.Error("GetPaymentHistory failed", "member_id", member.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*Payment, len(payments))
	var total float64
	for i, p := range payments {
		out[i] = toPayment(p)
		total += p.Amount
	}
	member.TotalPaid = total

	return connect.NewResponse(&GetPaymentHistoryResponse{
		Member:   toMember(member),
		Payments: out,
	}), nil
}

// GetDueDate returns the configured contribution due date.
func (s *ChamaService) GetDueDate(ctx context.Context, req *connect.Request[GetDueDateRequest]) (*connect.Response[GetDueDateResponse], error) {
	due, err := s.store.GetDueDate(ctx)
	if err != nil {
		s.logger.Error("GetDueDate failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetDueDateResponse{DueDate: formatDate(due)}), nil
}

// SetDueDate replaces the contribution due date.
func (s *ChamaService) SetDueDate(ctx context.Context, req *connect.Request[SetDueDateRequest]) (*connect.Response[SetDueDateResponse], error) {
	due, err := time.Parse(models.DateLayout, strings.TrimSpace(req.Msg.DueDate))
	if err != nil {
		return nil, toConnectError(fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrValidation))
	}

	if err := s.store.SetDueDate(ctx, due); err != nil {
		s.logger.Error("SetDueDate failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due date updated", "due_date", due.Format(models.DateLayout))
	return connect.NewResponse(&SetDueDateResponse{DueDate: formatDate(&due)}), nil
}

// GetMonthlyStats compares this calendar month's collections with last month's.
func (s *ChamaService) GetMonthlyStats(ctx context.Context, req *connect.Request[GetMonthlyStatsRequest]) (*connect.Response[GetMonthlyStatsResponse], error) {
	lastStart, thisStart, nextStart := calculator.MonthBounds(s.now().In(s.loc))

	thisMonth, err := s.store.SumPayments(ctx, thisStart, nextStart)
	if err != nil {
		s.logger.Error("GetMonthlyStats failed", "error", err)
		return nil, toConnectError(err)
	}
	lastMonth, err := s.store.SumPayments(ctx, lastStart, thisStart)
	if err != nil {
		s.logger.Error("GetMonthlyStats failed", "error", err)
		return nil, toConnectError(err)
	}

	stats := calculator.Monthly(thisMonth, lastMonth)
	return connect.NewResponse(&GetMonthlyStatsResponse{
		ThisMonth: stats.ThisMonth,
		LastMonth: stats.LastMonth,
		Growth:    stats.Growth,
	}), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
