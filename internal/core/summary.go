package core

import "fmt"

// Granularity selects the time-bucket size for trend aggregation.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity validates an explicit granularity string. Unknown values
// are rejected here so API callers get an error instead of a silent default.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Day, Week, Month, Year:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

// DailyTotal is one day's summed income and expense in cents. The storage
// layer returns these sparsely: days without activity have no row.
type DailyTotal struct {
	Date         string `json:"date"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// CategoryAmount is a raw per-category sum as read from storage, in
// arbitrary order and without percentages.
type CategoryAmount struct {
	Category    string
	AmountCents int64
}

// PeriodSummary aggregates income and expense over a date range.
type PeriodSummary struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
}

// BalanceCents is income minus expense, still in cents.
func (p PeriodSummary) BalanceCents() int64 {
	return p.IncomeCents - p.ExpenseCents
}

// Income returns the income total in display units.
func (p PeriodSummary) Income() float64 { return float64(p.IncomeCents) / 100.0 }

// Expense returns the expense total in display units.
func (p PeriodSummary) Expense() float64 { return float64(p.ExpenseCents) / 100.0 }

// Balance returns the balance in display units.
func (p PeriodSummary) Balance() float64 { return float64(p.BalanceCents()) / 100.0 }

// CategoryShare is one row of a category breakdown: the summed amount plus
// its share of the breakdown total.
type CategoryShare struct {
	Category    string  `json:"category"`
	AmountCents int64   `json:"amount_cents"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
}

// TrendBucket is one labeled time-unit slot in a trend result. Income and
// expense are display units; the label format depends on the granularity
// (YYYY-MM-DD, YYYY-Www, YYYY-MM or YYYY).
type TrendBucket struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// TrendResult is a continuous, gap-free bucket sequence at one granularity.
type TrendResult struct {
	Granularity Granularity   `json:"granularity"`
	Data        []TrendBucket `json:"data"`
}

// MonthOverMonth compares the current month's totals against the previous
// month's. Percentage deltas are 0 when the previous total is 0.
type MonthOverMonth struct {
	ExpenseChangeCents int64   `json:"expense_change_cents"`
	ExpenseChange      float64 `json:"expense_change"`
	ExpenseChangePct   float64 `json:"expense_change_pct"`
	IncomeChangeCents  int64   `json:"income_change_cents"`
	IncomeChange       float64 `json:"income_change"`
	IncomeChangePct    float64 `json:"income_change_pct"`
}
