// Package period resolves named reporting periods to concrete closed date
// ranges, using calendar-correct month and year boundaries.
package period

import (
	"fmt"
	"time"

	"ledger/internal/core"
)

// Clock supplies the current time. Injecting it keeps the month-rollover
// logic deterministic in tests instead of depending on the ambient wall
// clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// MonthRange returns the first and last calendar day of the given month,
// accounting for month-length variation and leap-year February.
func MonthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC)
	return first.Format(core.DateLayout), last.Format(core.DateLayout)
}

// YearRange returns January 1st through December 31st of the given year.
func YearRange(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

// LastNFullMonths returns the range covering the n most recently completed
// calendar months. The current, in-progress month is always excluded: the
// end date is the last day of the month before the current one, and the
// start date is the first day of the month n-1 months before that. Year
// boundaries roll over in both directions.
//
// n must be positive; a non-positive count is a caller error.
func LastNFullMonths(clock Clock, n int) (string, string, error) {
	if n <= 0 {
		return "", "", fmt.Errorf("month count must be positive, got %d", n)
	}

	today := clock.Now()
	firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfCurrent.AddDate(0, 0, -1) // last day of previous month
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	return start.Format(core.DateLayout), end.Format(core.DateLayout), nil
}

// CurrentMonthRange returns the range of the month containing today.
func CurrentMonthRange(clock Clock) (string, string) {
	today := clock.Now()
	return MonthRange(today.Year(), int(today.Month()))
}

// PreviousMonthRange returns the range of the month before the one
// containing today, rolling into December of the previous year when today
// is in January.
func PreviousMonthRange(clock Clock) (string, string) {
	today := clock.Now()
	year, month := today.Year(), int(today.Month())
	if month == 1 {
		year, month = year-1, 12
	} else {
		month--
	}
	return MonthRange(year, month)
}

// CurrentYearRange returns the range of the year containing today.
func CurrentYearRange(clock Clock) (string, string) {
	return YearRange(clock.Now().Year())
}
