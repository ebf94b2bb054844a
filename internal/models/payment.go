package models

import "time"

// Payment is a single ledger entry. Payments are never updated or deleted.
type Payment struct {
	// ID is assigned by the store.
	ID int64

	// MemberID is the member who paid.
	MemberID int64

	// Amount is in currency units (KSh).
	Amount float64

	// Date is when the payment was recorded.
	Date time.Time

	// ChamaID optionally links the payment to a chama. Unused for now.
	ChamaID *int64
}

// RecentPayment is a payment joined with the paying member's name.
type RecentPayment struct {
	PaymentID  int64
	MemberName string
	Amount     float64
	Date       time.Time
}

// Payment sources, used for logging and metrics labels.
const (
	SourceChat  = "chat"
	SourceAdmin = "admin"
)
