package models

// Summary aggregates the ledger for dashboards and reports.
type Summary struct {
	TotalMembers  int
	PaidMembers   int
	UnpaidMembers int

	// TotalCollected is the sum of all payment amounts.
	TotalCollected float64

	// ExpectedTotal is TotalMembers × per-member contribution.
	ExpectedTotal float64

	// CollectionPercentage is 100 × TotalCollected / ExpectedTotal,
	// or 0 when nothing is expected.
	CollectionPercentage float64
}

// MonthlyStats compares collections in the current and previous calendar month.
type MonthlyStats struct {
	ThisMonth float64
	LastMonth float64

	// Growth is the percentage change from LastMonth, one decimal.
	Growth float64
}

// DateLayout is the calendar-date format used for the due date.
const DateLayout = "2006-01-02"
