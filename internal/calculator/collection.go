// Package calculator computes collection figures from ledger totals.
package calculator

import (
	"math"

	"github.com/mmynk/chamabot/internal/models"
)

// Collection builds a Summary from raw ledger totals.
//
// Expected total is totalMembers × perMember. The collection percentage is
// 100 × collected / expected, or 0 when nothing is expected. Paid members
// above the total are clamped so UnpaidMembers never goes negative.
func Collection(totalMembers, paidMembers int, collected, perMember float64) models.Summary {
	if paidMembers > totalMembers {
		paidMembers = totalMembers
	}

	expected := float64(totalMembers) * perMember

	return models.Summary{
		TotalMembers:         totalMembers,
		PaidMembers:          paidMembers,
		UnpaidMembers:        totalMembers - paidMembers,
		TotalCollected:       collected,
		ExpectedTotal:        expected,
		CollectionPercentage: Percentage(collected, expected),
	}
}

// Percentage returns 100 × part / whole, or 0 when whole is not positive.
func Percentage(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// PaidRate is the share of members flagged paid, rounded to one decimal
// place as shown in the exported report.
func PaidRate(paidMembers, totalMembers int) float64 {
	return Round1(Percentage(float64(paidMembers), float64(totalMembers)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
