package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
)

type seedMember struct {
	name    string
	phone   string
	hasPaid bool
}

var seedMembers = []seedMember{
	{"Alice Wanjiku", "+254712345678", true},
	{"John Kimani", "+254723456789", false},
	{"Mary Achieng", "+254734567890", true},
	{"Peter Mwangi", "+254745678901", false},
	{"Grace Njeri", "+254756789012", true},
	{"David Ochieng", "+254767890123", false},
	{"Sarah Wanjiru", "+254778901234", false},
	{"James Kiprotich", "+254789012345", true},
	{"Lucy Nyambura", "+254790123456", false},
	{"Michael Omondi", "+254701234567", true},
}

type seedResult struct {
	Members, Payments, Unpaid, Skipped int
}

// seed registers the sample members. Paid members get one contribution of
// amount dated a day before now. Numbers already registered are left alone.
func seed(ctx context.Context, store storage.Store, amount float64, now time.Time) (*seedResult, error) {
	res := &seedResult{}
	paidAt := now.Add(-24 * time.Hour)

	for _, sm := range seedMembers {
		member := &models.Member{Name: sm.name, PhoneNumber: sm.phone}
		err := store.CreateMember(ctx, member)
		if errors.Is(err, storage.ErrConflict) {
			res.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", sm.name, err)
		}
		res.Members++

		if !sm.hasPaid {
			res.Unpaid++
			continue
		}
		if _, _, err := store.RecordPayment(ctx, member.ID, amount, paidAt, true); err != nil {
			return nil, fmt.Errorf("failed to seed payment for %s: %w", sm.name, err)
		}
		res.Payments++
	}

	return res, nil
}
