package stats

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
)

// calendarUnit defines one granularity for the bucketer: how a date maps to
// its bucket label and how to advance to a date in the next unit. All four
// granularities share the same accumulate-then-enumerate engine so the
// gap-free and conservation invariants hold uniformly.
type calendarUnit struct {
	key  func(t time.Time) string
	next func(t time.Time) time.Time
}

var calendarUnits = map[core.Granularity]calendarUnit{
	core.Day: {
		key:  func(t time.Time) string { return t.Format(core.DateLayout) },
		next: func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
	},
	core.Week: {
		// ISO-8601 week: starts Monday, belongs to the year containing its
		// Thursday. Stepping day-by-day visits partial weeks at the range
		// edges; duplicate labels are collapsed by the enumeration loop.
		key: func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		},
		next: func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
	},
	core.Month: {
		key: func(t time.Time) string { return t.Format("2006-01") },
		next: func(t time.Time) time.Time {
			// First day of the following month; increments the year past
			// December.
			return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		},
	},
	core.Year: {
		key: func(t time.Time) string { return t.Format("2006") },
		next: func(t time.Time) time.Time {
			return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		},
	},
}

// TrendData aggregates per-day totals into a continuous, gap-filled bucket
// sequence at the requested granularity. Every calendar unit between start
// and end (inclusive) appears exactly once, in ascending order, zero-filled
// where no data exists. A non-empty category restricts the expense side
// only. An unrecognized Granularity value keeps the historical behaviour of
// falling back to day buckets; explicit API input is validated separately
// by core.ParseGranularity. A range with start after end yields an empty,
// valid result.
func (s *Service) TrendData(ctx context.Context, startDate, endDate string, granularity core.Granularity, category string) (core.TrendResult, error) {
	unit, ok := calendarUnits[granularity]
	if !ok {
		granularity = core.Day
		unit = calendarUnits[granularity]
	}

	start, err := core.ParseDate(startDate)
	if err != nil {
		return core.TrendResult{}, err
	}
	end, err := core.ParseDate(endDate)
	if err != nil {
		return core.TrendResult{}, err
	}

	rows, err := s.reader.DailySummaryByCategory(ctx, startDate, endDate, category)
	if err != nil {
		return core.TrendResult{}, fmt.Errorf("daily summary: %w", err)
	}

	// Accumulate sparse per-day rows into per-unit totals, in cents.
	type cents struct {
		income  int64
		expense int64
	}
	totals := make(map[string]*cents, len(rows))
	for _, row := range rows {
		day, err := core.ParseDate(row.Date)
		if err != nil {
			return core.TrendResult{}, fmt.Errorf("stored daily total: %w", err)
		}
		label := unit.key(day)
		c := totals[label]
		if c == nil {
			c = &cents{}
			totals[label] = c
		}
		c.income += row.IncomeCents
		c.expense += row.ExpenseCents
	}

	// Enumerate every unit in the range, emitting each label once in
	// chronological order of first occurrence. Conversion to display units
	// happens only here, after all summation.
	buckets := []core.TrendBucket{}
	seen := make(map[string]struct{})
	for t := start; !t.After(end); t = unit.next(t) {
		label := unit.key(t)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}

		var income, expense int64
		if c := totals[label]; c != nil {
			income, expense = c.income, c.expense
		}
		buckets = append(buckets, core.TrendBucket{
			Label:   label,
			Income:  float64(income) / 100.0,
			Expense: float64(expense) / 100.0,
		})
	}

	return core.TrendResult{Granularity: granularity, Data: buckets}, nil
}

// AutoTrendData picks the granularity from the range length: day buckets
// for ranges up to 31 days, month buckets beyond that.
func (s *Service) AutoTrendData(ctx context.Context, startDate, endDate string) (core.TrendResult, error) {
	start, err := core.ParseDate(startDate)
	if err != nil {
		return core.TrendResult{}, err
	}
	end, err := core.ParseDate(endDate)
	if err != nil {
		return core.TrendResult{}, err
	}

	granularity := core.Day
	if end.Sub(start).Hours()/24+1 > 31 {
		granularity = core.Month
	}
	return s.TrendData(ctx, startDate, endDate, granularity, "")
}
