// Package stats is the period reporting engine: it turns the sparse per-day
// totals read from storage into period summaries, category breakdowns and
// continuous multi-granularity trend series.
package stats

import (
	"context"
	"fmt"
	"sort"

	"ledger/internal/core"
	"ledger/internal/period"
)

// Reader is the storage read contract the engine depends on. Both date
// bounds are inclusive. DailySummaryByCategory is sparse: days without
// matching activity have no row. When category is non-empty it restricts
// the expense side only; income always reflects the full unfiltered total.
type Reader interface {
	SummaryByDateRange(ctx context.Context, start, end string) (core.PeriodSummary, error)
	CategorySummary(ctx context.Context, start, end string, txType core.TransactionType) ([]core.CategoryAmount, error)
	DailySummaryByCategory(ctx context.Context, start, end, category string) ([]core.DailyTotal, error)
}

// Service computes reporting aggregates on demand. Nothing is cached:
// every call recomputes from storage, so results can never go stale.
type Service struct {
	reader Reader
	clock  period.Clock
}

func NewService(reader Reader, clock period.Clock) *Service {
	if clock == nil {
		clock = period.SystemClock{}
	}
	return &Service{reader: reader, clock: clock}
}

// PeriodSummary sums income and expense over a closed date range.
func (s *Service) PeriodSummary(ctx context.Context, start, end string) (core.PeriodSummary, error) {
	summary, err := s.reader.SummaryByDateRange(ctx, start, end)
	if err != nil {
		return core.PeriodSummary{}, fmt.Errorf("summary by date range: %w", err)
	}
	return summary, nil
}

// CurrentMonthSummary sums the month containing today.
func (s *Service) CurrentMonthSummary(ctx context.Context) (core.PeriodSummary, error) {
	start, end := period.CurrentMonthRange(s.clock)
	return s.PeriodSummary(ctx, start, end)
}

// LastMonthSummary sums the month before the one containing today.
func (s *Service) LastMonthSummary(ctx context.Context) (core.PeriodSummary, error) {
	start, end := period.PreviousMonthRange(s.clock)
	return s.PeriodSummary(ctx, start, end)
}

// CurrentYearSummary sums the year containing today.
func (s *Service) CurrentYearSummary(ctx context.Context) (core.PeriodSummary, error) {
	start, end := period.CurrentYearRange(s.clock)
	return s.PeriodSummary(ctx, start, end)
}

// CategoryBreakdown returns per-category totals of the given transaction
// type over a range, sorted by descending amount, each with its share of
// the breakdown total. The share is 0 when the total is 0.
func (s *Service) CategoryBreakdown(ctx context.Context, start, end string, txType core.TransactionType) ([]core.CategoryShare, error) {
	rows, err := s.reader.CategorySummary(ctx, start, end, txType)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}

	var total int64
	for _, row := range rows {
		total += row.AmountCents
	}

	result := make([]core.CategoryShare, len(rows))
	for i, row := range rows {
		share := core.CategoryShare{
			Category:    row.Category,
			AmountCents: row.AmountCents,
			Amount:      float64(row.AmountCents) / 100.0,
		}
		if total > 0 {
			share.Percentage = float64(row.AmountCents) / float64(total) * 100.0
		}
		result[i] = share
	}

	// Stable sort keeps insertion order for equal amounts.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AmountCents > result[j].AmountCents
	})

	return result, nil
}

// ExpenseCategories lists the names of expense categories active in the
// range, for populating filter selectors.
func (s *Service) ExpenseCategories(ctx context.Context, start, end string) ([]string, error) {
	rows, err := s.reader.CategorySummary(ctx, start, end, core.Expense)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Category
	}
	return names, nil
}

// DailyTrend returns the sparse per-day totals for a range in display
// units, without zero-filling. Charting callers that need continuity use
// TrendData instead.
func (s *Service) DailyTrend(ctx context.Context, start, end string) ([]core.TrendBucket, error) {
	rows, err := s.reader.DailySummaryByCategory(ctx, start, end, "")
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	buckets := make([]core.TrendBucket, len(rows))
	for i, row := range rows {
		buckets[i] = core.TrendBucket{
			Label:   row.Date,
			Income:  float64(row.IncomeCents) / 100.0,
			Expense: float64(row.ExpenseCents) / 100.0,
		}
	}
	return buckets, nil
}

// MonthOverMonthChange compares the current month's totals against the
// previous month's. Percentage deltas are 0 when the previous month's
// corresponding total is 0; a zero baseline is never an error.
func (s *Service) MonthOverMonthChange(ctx context.Context) (core.MonthOverMonth, error) {
	current, err := s.CurrentMonthSummary(ctx)
	if err != nil {
		return core.MonthOverMonth{}, fmt.Errorf("current month summary: %w", err)
	}
	last, err := s.LastMonthSummary(ctx)
	if err != nil {
		return core.MonthOverMonth{}, fmt.Errorf("last month summary: %w", err)
	}

	expenseChange := current.ExpenseCents - last.ExpenseCents
	incomeChange := current.IncomeCents - last.IncomeCents

	change := core.MonthOverMonth{
		ExpenseChangeCents: expenseChange,
		ExpenseChange:      float64(expenseChange) / 100.0,
		IncomeChangeCents:  incomeChange,
		IncomeChange:       float64(incomeChange) / 100.0,
	}
	if last.ExpenseCents > 0 {
		change.ExpenseChangePct = float64(expenseChange) / float64(last.ExpenseCents) * 100.0
	}
	if last.IncomeCents > 0 {
		change.IncomeChangePct = float64(incomeChange) / float64(last.IncomeCents) * 100.0
	}
	return change, nil
}
