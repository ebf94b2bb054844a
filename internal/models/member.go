package models

import "time"

// DefaultContribution is the fixed amount each member owes per cycle.
const DefaultContribution = 1000.0

// Member represents a registered chama contributor.
type Member struct {
	// ID is assigned by the store and never changes.
	ID int64

	// Name is the display name used in replies and reminders.
	Name string

	// PhoneNumber is the canonical phone number (e.g. "+254712345678").
	// Unique across members.
	PhoneNumber string

	// HasPaid is the current-cycle payment flag.
	HasPaid bool

	// CreatedAt is when the member was registered.
	CreatedAt time.Time

	// LastPayment is set on each transition to paid. Nil if the member
	// has never paid.
	LastPayment *time.Time

	// TotalPaid is the sum of the member's ledger entries.
	// Only populated by listing queries.
	TotalPaid float64
}

// PendingReminder is an unpaid member as shown in the reminders listing.
type PendingReminder struct {
	MemberID         int64
	Name             string
	PhoneNumber      string
	DaysSinceCreated int
}
