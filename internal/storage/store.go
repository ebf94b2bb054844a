// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/chamabot/internal/models"
)

var (
	// ErrNotFound is returned when a member lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a member with the same phone number exists.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateMember persists a new member. ID and CreatedAt are populated by the store.
	// Returns ErrConflict if the phone number is already registered.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by ID. Returns ErrNotFound on miss.
	GetMember(ctx context.Context, id int64) (*models.Member, error)

	// GetMemberByPhone retrieves a member by canonical phone number.
	// Returns ErrNotFound on miss.
	GetMemberByPhone(ctx context.Context, phone string) (*models.Member, error)

	// ListMembers returns all members, newest first, with TotalPaid populated.
	ListMembers(ctx context.Context) ([]*models.Member, error)

	// SearchMembers returns up to limit members whose name contains query,
	// ignoring ASCII case, ordered by name, with TotalPaid populated.
	SearchMembers(ctx context.Context, query string, limit int) ([]*models.Member, error)

	// ListUnpaidMembers returns members whose HasPaid flag is false, ordered by ID.
	ListUnpaidMembers(ctx context.Context) ([]*models.Member, error)

	// RecordPayment marks the member paid and appends a payment in one transaction.
	// When requireUnpaid is true and the member has already paid, nothing is
	// written and recorded is false. Returns ErrNotFound if the member is missing.
	RecordPayment(ctx context.Context, memberID int64, amount float64, at time.Time, requireUnpaid bool) (payment *models.Payment, recorded bool, err error)

	// ListPaymentsByMember returns the member's payments, newest first.
	// Returns ErrNotFound if the member does not exist.
	ListPaymentsByMember(ctx context.Context, memberID int64) ([]*models.Payment, error)

	// SumPayments returns the total of payments dated in [from, to).
	SumPayments(ctx context.Context, from, to time.Time) (float64, error)

	// ResetCycle marks every member unpaid and returns how many rows changed.
	// Payment history is left untouched.
	ResetCycle(ctx context.Context) (int64, error)

	// Totals returns member counts and the sum of all payments.
	Totals(ctx context.Context) (total, paid int, collected float64, err error)

	// RecentPayments returns the n most recent payments joined with member
	// names, ordered by date descending then ID ascending.
	RecentPayments(ctx context.Context, n int) ([]*models.RecentPayment, error)

	// GetDueDate returns the contribution due date, or nil if unset.
	GetDueDate(ctx context.Context) (*time.Time, error)

	// SetDueDate stores the contribution due date (calendar date only).
	SetDueDate(ctx context.Context, due time.Time) error

	// Close releases any resources held by the store.
	Close() error
}
