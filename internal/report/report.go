// Package report assembles the chama status report and renders it as HTML or PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/chamabot/internal/calculator"
	"github.com/mmynk/chamabot/internal/models"
)

// DefaultRecentLimit is how many recent payments the exported report lists.
const DefaultRecentLimit = 20

// Source is the ledger read access the report needs.
type Source interface {
	Totals(ctx context.Context) (total, paid int, collected float64, err error)
	ListMembers(ctx context.Context) ([]*models.Member, error)
	RecentPayments(ctx context.Context, n int) ([]*models.RecentPayment, error)
}

// Report is a point-in-time view of the ledger.
type Report struct {
	GeneratedAt    time.Time
	Summary        models.Summary
	PaidRate       float64
	Members        []*models.Member
	RecentPayments []*models.RecentPayment
}

// Build reads the ledger and assembles a Report.
func Build(ctx context.Context, src Source, perMember float64, recentLimit int, now time.Time) (*Report, error) {
	total, paid, collected, err := src.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	members, err := src.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	recent, err := src.RecentPayments(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent payments: %w", err)
	}

	return &Report{
		GeneratedAt:    now,
		Summary:        calculator.Collection(total, paid, collected, perMember),
		PaidRate:       calculator.PaidRate(paid, total),
		Members:        members,
		RecentPayments: recent,
	}, nil
}

// Filename returns the download name for the report, e.g. chama_report_20250610.pdf.
func (r *Report) Filename(ext string) string {
	return fmt.Sprintf("chama_report_%s.%s", r.GeneratedAt.Format("20060102"), ext)
}

func statusLabel(hasPaid bool) string {
	if hasPaid {
		return "PAID"
	}
	return "PENDING"
}

func formatAmount(v float64) string {
	return fmt.Sprintf("KSh %.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
