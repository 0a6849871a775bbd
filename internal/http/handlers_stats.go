package http

import (
	"errors"
	"net/http"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/period"
)

type summaryResponse struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	IncomeCents  int64   `json:"income_cents"`
	ExpenseCents int64   `json:"expense_cents"`
	BalanceCents int64   `json:"balance_cents"`
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Balance      float64 `json:"balance"`
}

// rangeParams resolves start/end query parameters, defaulting to the
// current month when both are absent. Dates are validated here so the
// stats endpoints fail fast with a 400.
func (s *Server) rangeParams(r *http.Request) (start, end string, err error) {
	q := r.URL.Query()
	start, end = q.Get("start"), q.Get("end")

	if start == "" && end == "" {
		start, end = period.CurrentMonthRange(s.clock)
		return start, end, nil
	}
	if start == "" || end == "" {
		return "", "", errors.New("both start and end are required")
	}
	if _, err := core.ParseDate(start); err != nil {
		return "", "", err
	}
	if _, err := core.ParseDate(end); err != nil {
		return "", "", err
	}
	return start, end, nil
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := sanitizeInput(r.URL.Query().Get("category"))

	var result core.TrendResult
	if raw := r.URL.Query().Get("granularity"); raw != "" {
		granularity, err := core.ParseGranularity(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err = s.stats.TrendData(r.Context(), start, end, granularity, category)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		result, err = s.stats.AutoTrendData(r.Context(), start, end)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.stats.PeriodSummary(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Start:        start,
		End:          end,
		IncomeCents:  summary.IncomeCents,
		ExpenseCents: summary.ExpenseCents,
		BalanceCents: summary.BalanceCents(),
		Income:       summary.Income(),
		Expense:      summary.Expense(),
		Balance:      summary.Balance(),
	})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txType := core.Expense
	if raw := r.URL.Query().Get("type"); raw != "" {
		txType = core.TransactionType(raw)
		if !txType.Valid() {
			writeError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
	}

	breakdown, err := s.stats.CategoryBreakdown(r.Context(), start, end, txType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleMonthOverMonth(w http.ResponseWriter, r *http.Request) {
	change, err := s.stats.MonthOverMonthChange(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, change)
}

// handlePeriods resolves the date range covering the last N fully
// completed months, so clients can ask for "last 3 months" without
// doing calendar math themselves.
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	months := 3
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "months must be an integer")
			return
		}
		months = parsed
	}

	start, end, err := period.LastNFullMonths(s.clock, months)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"months": months,
		"start":  start,
		"end":    end,
	})
}
