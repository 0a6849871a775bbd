package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/period"
	"ledger/internal/services"
	"ledger/internal/stats"
	"ledger/internal/storage"
)

// fixedNow keeps the stats endpoints deterministic: mid-January 2026.
var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *storage.MemoryRepository) {
	t.Helper()
	store := storage.NewMemoryRepository()
	clock := period.FixedClock{T: fixedNow}
	txService := services.NewTransactionService(store, nil)
	statsService := stats.NewService(store, clock)
	server := NewServer(":0", store, txService, statsService, clock, nil)
	t.Cleanup(func() {
		server.Shutdown(context.Background())
	})
	return server, store
}

func doJSON(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, server, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"type":         "expense",
		"amount_cents": 1500,
		"date":         "2026-01-10",
		"category":     "food",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[transactionResponse](t, rec)
	if resp.ID == 0 || resp.AmountCents != 1500 || resp.Amount != 15.00 {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateTransactionDecimalAmount(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"type":   "expense",
		"amount": "12,34",
		"date":   "2026-01-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[transactionResponse](t, rec)
	if resp.AmountCents != 1234 {
		t.Errorf("amount_cents = %d, want 1234", resp.AmountCents)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad type", map[string]any{"type": "transfer", "amount_cents": 100, "date": "2026-01-10"}, http.StatusUnprocessableEntity},
		{"zero amount", map[string]any{"type": "expense", "amount_cents": 0, "date": "2026-01-10"}, http.StatusUnprocessableEntity},
		{"bad date", map[string]any{"type": "expense", "amount_cents": 100, "date": "10/01/2026"}, http.StatusUnprocessableEntity},
		{"bad decimal", map[string]any{"type": "expense", "amount": "-5.00", "date": "2026-01-10"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodPost, "/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTransactionLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	created := decode[transactionResponse](t, doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"type": "expense", "amount_cents": 1000, "date": "2026-01-10", "category": "food",
	}))

	rec := doJSON(t, server, http.MethodGet, "/transactions/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPut, "/transactions/1", map[string]any{
		"type": "expense", "amount_cents": 2000, "date": "2026-01-11", "category": "food",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[transactionResponse](t, rec)
	if updated.AmountCents != 2000 || updated.ID != created.ID {
		t.Errorf("updated = %+v", updated)
	}

	rec = doJSON(t, server, http.MethodDelete, "/transactions/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, server, http.MethodGet, "/transactions/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet, "/transactions/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestListTransactionsRange(t *testing.T) {
	server, _ := newTestServer(t)
	for _, date := range []string{"2025-12-31", "2026-01-10", "2026-02-01"} {
		doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
			"type": "expense", "amount_cents": 100, "date": date,
		})
	}

	rec := doJSON(t, server, http.MethodGet, "/transactions?start=2026-01-01&end=2026-01-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decode[[]transactionResponse](t, rec)
	if len(list) != 1 || list[0].Date != "2026-01-10" {
		t.Errorf("list = %+v", list)
	}

	rec = doJSON(t, server, http.MethodGet, "/transactions?start=2026-01-01", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("half-open range status = %d, want 400", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/categories", map[string]any{
		"name": "Food", "type": "expense",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodPost, "/categories", map[string]any{
		"name": "Bad", "type": "misc",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid type status = %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet, "/categories?type=expense", nil)
	list := decode[[]categoryResponse](t, rec)
	if len(list) != 1 || list[0].Name != "Food" {
		t.Errorf("list = %+v", list)
	}

	rec = doJSON(t, server, http.MethodPut, "/categories/1", map[string]any{
		"name": "Groceries", "type": "expense",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("update status = %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodDelete, "/categories/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/accounts", map[string]any{
		"name": "Wallet", "type": "cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/accounts", nil)
	list := decode[[]accountResponse](t, rec)
	if len(list) != 1 || list[0].Name != "Wallet" {
		t.Errorf("list = %+v", list)
	}
}

func seedStatsData(t *testing.T, server *Server) {
	t.Helper()
	seed := []map[string]any{
		{"type": "income", "amount_cents": 500000, "date": "2026-01-01"},
		{"type": "expense", "amount_cents": 1000, "date": "2026-01-05", "category": "food"},
		{"type": "expense", "amount_cents": 2000, "date": "2026-01-05", "category": "food"},
		{"type": "expense", "amount_cents": 3000, "date": "2026-01-10", "category": "transport"},
		{"type": "expense", "amount_cents": 40000, "date": "2025-12-10", "category": "food"},
	}
	for _, body := range seed {
		rec := doJSON(t, server, http.MethodPost, "/transactions", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", rec.Code, rec.Body.String())
		}
	}
}

func TestTrendEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	seedStatsData(t, server)

	rec := doJSON(t, server, http.MethodGet,
		"/stats/trend?start=2026-01-01&end=2026-01-15&granularity=day", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decode[core.TrendResult](t, rec)
	if result.Granularity != core.Day || len(result.Data) != 15 {
		t.Errorf("result = %q with %d buckets", result.Granularity, len(result.Data))
	}

	rec = doJSON(t, server, http.MethodGet,
		"/stats/trend?start=2026-01-01&end=2026-01-15&granularity=fortnight", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown granularity status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet,
		"/stats/trend?start=2026-13-01&end=2026-01-15&granularity=day", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed date status = %d, want 400", rec.Code)
	}

	// No explicit range defaults to the clock's current month.
	rec = doJSON(t, server, http.MethodGet, "/stats/trend", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("default range status = %d", rec.Code)
	}
	result = decode[core.TrendResult](t, rec)
	if len(result.Data) != 31 {
		t.Errorf("january day buckets = %d, want 31", len(result.Data))
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	seedStatsData(t, server)

	rec := doJSON(t, server, http.MethodGet, "/stats/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[summaryResponse](t, rec)
	if resp.Start != "2026-01-01" || resp.End != "2026-01-31" {
		t.Errorf("default range = %s..%s", resp.Start, resp.End)
	}
	if resp.IncomeCents != 500000 || resp.ExpenseCents != 6000 {
		t.Errorf("summary = %+v", resp)
	}
	if resp.BalanceCents != 494000 {
		t.Errorf("balance = %d", resp.BalanceCents)
	}
}

func TestCategoryBreakdownEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	seedStatsData(t, server)

	rec := doJSON(t, server, http.MethodGet,
		"/stats/categories?start=2026-01-01&end=2026-01-31&type=expense", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	shares := decode[[]core.CategoryShare](t, rec)
	if len(shares) != 2 || shares[0].Category != "food" || shares[0].AmountCents != 3000 {
		t.Errorf("shares = %+v", shares)
	}

	rec = doJSON(t, server, http.MethodGet, "/stats/categories?type=loan", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", rec.Code)
	}
}

func TestMonthOverMonthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	seedStatsData(t, server)

	rec := doJSON(t, server, http.MethodGet, "/stats/month-over-month", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	change := decode[core.MonthOverMonth](t, rec)
	// January spent 6000 against December's 40000.
	if change.ExpenseChangeCents != -34000 {
		t.Errorf("expense change = %d, want -34000", change.ExpenseChangeCents)
	}
	if change.ExpenseChangePct >= 0 {
		t.Errorf("expense change pct = %v, want negative", change.ExpenseChangePct)
	}
}

func TestPeriodsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/stats/periods?months=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[map[string]any](t, rec)
	if resp["start"] != "2025-10-01" || resp["end"] != "2025-12-31" {
		t.Errorf("resolved range = %v..%v", resp["start"], resp["end"])
	}

	rec = doJSON(t, server, http.MethodGet, "/stats/periods?months=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("months=0 status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, server, http.MethodGet, "/stats/periods?months=x", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("months=x status = %d, want 400", rec.Code)
	}
}
