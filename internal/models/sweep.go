package models

// SweepResult is the outcome of one reminder sweep.
type SweepResult struct {
	// RunID identifies the sweep in logs.
	RunID string

	// TotalUnpaid is the size of the unpaid set at the start of the sweep.
	TotalUnpaid int

	Sent   int
	Failed int

	// Failures lists each member that could not be reminded.
	Failures []SweepFailure
}

// SweepFailure records a single failed delivery.
type SweepFailure struct {
	MemberID    int64
	Name        string
	PhoneNumber string
	Error       string
}
