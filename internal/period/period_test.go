package period

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		start string
		end   string
	}{
		{"january", 2026, 1, "2026-01-01", "2026-01-31"},
		{"thirty day month", 2026, 4, "2026-04-01", "2026-04-30"},
		{"february non leap", 2025, 2, "2025-02-01", "2025-02-28"},
		{"february leap", 2024, 2, "2024-02-01", "2024-02-29"},
		{"december", 2026, 12, "2026-12-01", "2026-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			if start != tt.start || end != tt.end {
				t.Errorf("MonthRange(%d, %d) = %q..%q, want %q..%q",
					tt.year, tt.month, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2026)
	if start != "2026-01-01" || end != "2026-12-31" {
		t.Errorf("YearRange(2026) = %q..%q", start, end)
	}
}

func TestLastNFullMonths(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		n     int
		start string
		end   string
	}{
		{
			name:  "three months across year boundary",
			today: date(2026, 1, 12),
			n:     3,
			start: "2025-10-01",
			end:   "2025-12-31",
		},
		{
			name:  "single previous month",
			today: date(2026, 1, 12),
			n:     1,
			start: "2025-12-01",
			end:   "2025-12-31",
		},
		{
			name:  "end in leap february",
			today: date(2024, 3, 15),
			n:     2,
			start: "2024-01-01",
			end:   "2024-02-29",
		},
		{
			name:  "twelve months",
			today: date(2025, 12, 5),
			n:     12,
			start: "2024-12-01",
			end:   "2025-11-30",
		},
		{
			name:  "first day of month still excludes current",
			today: date(2026, 3, 1),
			n:     1,
			start: "2026-02-01",
			end:   "2026-02-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := LastNFullMonths(FixedClock{T: tt.today}, tt.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.start || end != tt.end {
				t.Errorf("LastNFullMonths(%s, %d) = %q..%q, want %q..%q",
					tt.today.Format("2006-01-02"), tt.n, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestLastNFullMonthsRejectsNonPositive(t *testing.T) {
	clock := FixedClock{T: date(2026, 1, 12)}
	for _, n := range []int{0, -1, -12} {
		if _, _, err := LastNFullMonths(clock, n); err == nil {
			t.Errorf("LastNFullMonths(n=%d) expected error, got nil", n)
		}
	}
}

func TestCurrentMonthRange(t *testing.T) {
	start, end := CurrentMonthRange(FixedClock{T: date(2026, 2, 14)})
	if start != "2026-02-01" || end != "2026-02-28" {
		t.Errorf("CurrentMonthRange = %q..%q", start, end)
	}
}

func TestPreviousMonthRange(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		start string
		end   string
	}{
		{"mid year", date(2026, 7, 20), "2026-06-01", "2026-06-30"},
		{"january rolls into previous year", date(2026, 1, 3), "2025-12-01", "2025-12-31"},
		{"march after leap february", date(2024, 3, 10), "2024-02-01", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PreviousMonthRange(FixedClock{T: tt.today})
			if start != tt.start || end != tt.end {
				t.Errorf("PreviousMonthRange = %q..%q, want %q..%q", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestCurrentYearRange(t *testing.T) {
	start, end := CurrentYearRange(FixedClock{T: date(2026, 6, 15)})
	if start != "2026-01-01" || end != "2026-12-31" {
		t.Errorf("CurrentYearRange = %q..%q", start, end)
	}
}
