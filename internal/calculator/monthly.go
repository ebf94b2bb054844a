package calculator

import (
	"time"

	"github.com/mmynk/chamabot/internal/models"
)

// MonthBounds returns the start of the month containing now, the start of
// the previous month and the start of the next month, all in now's location.
func MonthBounds(now time.Time) (lastStart, thisStart, nextStart time.Time) {
	thisStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return thisStart.AddDate(0, -1, 0), thisStart, thisStart.AddDate(0, 1, 0)
}

// Monthly builds month-over-month stats. Growth is the percentage change
// from lastMonth; with nothing collected last month it is 100 if anything
// came in this month and 0 otherwise.
func Monthly(thisMonth, lastMonth float64) models.MonthlyStats {
	var growth float64
	switch {
	case lastMonth > 0:
		growth = Round1((thisMonth - lastMonth) / lastMonth * 100)
	case thisMonth > 0:
		growth = 100
	}
	return models.MonthlyStats{
		ThisMonth: thisMonth,
		LastMonth: lastMonth,
		Growth:    growth,
	}
}
