package service

import (
	"time"

	"github.com/mmynk/chamabot/internal/models"
)

// Member is the wire form of models.Member.
type Member struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	HasPaid     bool       `json:"has_paid"`
	CreatedAt   time.Time  `json:"created_at"`
	LastPayment *time.Time `json:"last_payment,omitempty"`
	TotalPaid   float64    `json:"total_paid"`
}

// Payment is the wire form of models.Payment.
type Payment struct {
	ID       int64     `json:"id"`
	MemberID int64     `json:"member_id"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// RecentPayment is a ledger entry joined with the member's name.
type RecentPayment struct {
	PaymentID  int64     `json:"payment_id"`
	MemberName string    `json:"member_name"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
}

// Summary is the wire form of models.Summary.
type Summary struct {
	TotalMembers         int     `json:"total_members"`
	PaidMembers          int     `json:"paid_members"`
	UnpaidMembers        int     `json:"unpaid_members"`
	TotalCollected       float64 `json:"total_collected"`
	ExpectedTotal        float64 `json:"expected_total"`
	CollectionPercentage float64 `json:"collection_percentage"`
}

// PendingReminder is an unpaid member awaiting a reminder.
type PendingReminder struct {
	MemberID         int64  `json:"member_id"`
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	DaysSinceCreated int    `json:"days_since_created"`
}

// ReminderFailure describes one reminder that could not be delivered.
type ReminderFailure struct {
	MemberID    int64  `json:"member_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Error       string `json:"error"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type CreateMemberRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	HasPaid     bool   `json:"has_paid"`
}

type CreateMemberResponse struct {
	Member *Member `json:"member"`
}

type MarkPaidRequest struct {
	MemberID int64 `json:"member_id"`

	// Amount defaults to the per-cycle contribution when zero.
	Amount float64 `json:"amount"`

	// Force appends another payment even if the member already paid.
	Force bool `json:"force"`
}

type MarkPaidResponse struct {
	Member      *Member  `json:"member"`
	Payment     *Payment `json:"payment,omitempty"`
	Recorded    bool     `json:"recorded"`
	AlreadyPaid bool     `json:"already_paid"`
}

type SendRemindersRequest struct{}

type SendRemindersResponse struct {
	RunID       string             `json:"run_id"`
	TotalUnpaid int                `json:"total_unpaid"`
	Sent        int                `json:"sent"`
	Failed      int                `json:"failed"`
	Failures    []*ReminderFailure `json:"failures"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`

	// DueDate is the configured due date as YYYY-MM-DD, empty when unset.
	DueDate string `json:"due_date"`
}

type ListRecentPaymentsRequest struct {
	// Limit defaults to 10 when zero.
	Limit int `json:"limit"`
}

type ListRecentPaymentsResponse struct {
	Payments []*RecentPayment `json:"payments"`
}

type ListPendingRemindersRequest struct{}

type ListPendingRemindersResponse struct {
	Count     int                `json:"count"`
	Reminders []*PendingReminder `json:"reminders"`
}

type ResetCycleRequest struct{}

type ResetCycleResponse struct {
	MembersReset int64 `json:"members_reset"`
}

type SearchMembersRequest struct {
	Query string `json:"query"`

	// Limit defaults to 20 when zero.
	Limit int `json:"limit"`
}

type SearchMembersResponse struct {
	Members []*Member `json:"members"`
}

type GetPaymentHistoryRequest struct {
	MemberID int64 `json:"member_id"`
}

type GetPaymentHistoryResponse struct {
	Member   *Member    `json:"member"`
	Payments []*Payment `json:"payments"`
}

type GetDueDateRequest struct{}

type GetDueDateResponse struct {
	DueDate string `json:"due_date"`
}

type SetDueDateRequest struct {
	// DueDate is a calendar date in YYYY-MM-DD form.
	DueDate string `json:"due_date"`
}

type SetDueDateResponse struct {
	DueDate string `json:"due_date"`
}

type GetMonthlyStatsRequest struct{}

type GetMonthlyStatsResponse struct {
	ThisMonth float64 `json:"this_month"`
	LastMonth float64 `json:"last_month"`
	Growth    float64 `json:"growth"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toMember(m *models.Member) *Member {
	return &Member{
		ID:          m.ID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		HasPaid:     m.HasPaid,
		CreatedAt:   m.CreatedAt,
		LastPayment: m.LastPayment,
		TotalPaid:   m.TotalPaid,
	}
}

func toPayment(p *models.Payment) *Payment {
	if p == nil {
		return nil
	}
	return &Payment{
		ID:       p.ID,
		MemberID: p.MemberID,
		Amount:   p.Amount,
		Date:     p.Date,
	}
}
