package calculator

import (
	"testing"
	"time"
)

func TestMonthly(t *testing.T) {
	tests := []struct {
		name       string
		this, last float64
		wantGrowth float64
	}{
		{name: "no payments", wantGrowth: 0},
		{name: "first month", this: 5000, wantGrowth: 100},
		{name: "growth", this: 6000, last: 4000, wantGrowth: 50},
		{name: "decline", this: 1000, last: 3000, wantGrowth: -66.7},
		{name: "nothing this month", last: 2000, wantGrowth: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Monthly(tt.this, tt.last)
			if got.Growth != tt.wantGrowth {
				t.Errorf("Growth: got %v, want %v", got.Growth, tt.wantGrowth)
			}
			if got.ThisMonth != tt.this || got.LastMonth != tt.last {
				t.Errorf("totals not carried through: %+v", got)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	eat := time.FixedZone("UTC+3", 3*3600)

	// 00:30 on 1 March in UTC+3 is still February in UTC.
	now := time.Date(2025, 3, 1, 0, 30, 0, 0, eat)
	last, this, next := MonthBounds(now)

	if want := time.Date(2025, 2, 1, 0, 0, 0, 0, eat); !last.Equal(want) {
		t.Errorf("last: got %v, want %v", last, want)
	}
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, eat); !this.Equal(want) {
		t.Errorf("this: got %v, want %v", this, want)
	}
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, eat); !next.Equal(want) {
		t.Errorf("next: got %v, want %v", next, want)
	}

	// January wraps to the previous December.
	last, _, _ = MonthBounds(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	if want := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Errorf("January last: got %v, want %v", last, want)
	}
}
