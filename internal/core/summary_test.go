package core

import "testing"

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"day", "week", "month", "year"} {
		g, err := ParseGranularity(s)
		if err != nil {
			t.Errorf("ParseGranularity(%q) unexpected error: %v", s, err)
		}
		if string(g) != s {
			t.Errorf("ParseGranularity(%q) = %q", s, g)
		}
	}

	for _, s := range []string{"", "daily", "WEEK", "fortnight"} {
		if _, err := ParseGranularity(s); err == nil {
			t.Errorf("ParseGranularity(%q) expected error", s)
		}
	}
}

func TestPeriodSummaryBalance(t *testing.T) {
	p := PeriodSummary{IncomeCents: 250000, ExpenseCents: 100000}
	if p.BalanceCents() != 150000 {
		t.Errorf("BalanceCents() = %d, want 150000", p.BalanceCents())
	}
	if p.Income() != 2500.00 || p.Expense() != 1000.00 || p.Balance() != 1500.00 {
		t.Errorf("display values = %v/%v/%v", p.Income(), p.Expense(), p.Balance())
	}

	negative := PeriodSummary{IncomeCents: 0, ExpenseCents: 4200}
	if negative.BalanceCents() != -4200 {
		t.Errorf("BalanceCents() = %d, want -4200", negative.BalanceCents())
	}
}
