package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ledger/internal/core"
)

// MemoryRepository is an in-memory Store used by tests and by the memory
// data backend. All methods are safe for concurrent use.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	txs        map[int64]core.Transaction
	categories map[int64]core.Category
	accounts   map[int64]core.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		txs:        make(map[int64]core.Transaction),
		categories: make(map[int64]core.Category),
		accounts:   make(map[int64]core.Account),
	}
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) allocID() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository) CreateTransaction(_ context.Context, t core.Transaction) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.allocID()
	t.CreatedAt = time.Now().Format(time.RFC3339)
	r.txs[t.ID] = t
	return t.ID, nil
}

func (r *MemoryRepository) UpdateTransaction(_ context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.txs[t.ID]
	if !ok {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	t.CreatedAt = existing.CreatedAt
	r.txs[t.ID] = t
	return nil
}

func (r *MemoryRepository) DeleteTransaction(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	delete(r.txs, id)
	return nil
}

func (r *MemoryRepository) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (r *MemoryRepository) snapshot(filter func(core.Transaction) bool) []core.Transaction {
	var result []core.Transaction
	for _, t := range r.txs {
		if filter == nil || filter(t) {
			result = append(result, t)
		}
	}
	// Date descending, newest ID first within a date.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *MemoryRepository) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(nil), nil
}

func (r *MemoryRepository) ListTransactionsByDateRange(_ context.Context, start, end string) ([]core.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(func(t core.Transaction) bool {
		return t.Date >= start && t.Date <= end
	}), nil
}

func (r *MemoryRepository) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return 0, fmt.Errorf("category %q already exists", c.Name)
		}
	}
	c.ID = r.allocID()
	c.CreatedAt = time.Now().Format(time.RFC3339)
	r.categories[c.ID] = c
	return c.ID, nil
}

func (r *MemoryRepository) UpdateCategory(_ context.Context, c core.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	r.categories[c.ID] = c
	return nil
}

func (r *MemoryRepository) DeleteCategory(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepository) ListCategories(_ context.Context) ([]core.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []core.Category
	for _, c := range r.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *MemoryRepository) ListCategoriesByType(_ context.Context, categoryType string) ([]core.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []core.Category
	for _, c := range r.categories {
		if c.Type == categoryType || c.Type == "both" {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryRepository) CreateAccount(_ context.Context, a core.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Name == a.Name {
			return 0, fmt.Errorf("account %q already exists", a.Name)
		}
	}
	a.ID = r.allocID()
	a.CreatedAt = time.Now().Format(time.RFC3339)
	r.accounts[a.ID] = a
	return a.ID, nil
}

func (r *MemoryRepository) UpdateAccount(_ context.Context, a core.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return fmt.Errorf("account %d: %w", a.ID, core.ErrNotFound)
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *MemoryRepository) DeleteAccount(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *MemoryRepository) ListAccounts(_ context.Context) ([]core.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []core.Account
	for _, a := range r.accounts {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryRepository) SummaryByDateRange(_ context.Context, start, end string) (core.PeriodSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var summary core.PeriodSummary
	for _, t := range r.txs {
		if t.Date < start || t.Date > end {
			continue
		}
		switch t.Type {
		case core.Income:
			summary.IncomeCents += t.Amount.Cents
		case core.Expense:
			summary.ExpenseCents += t.Amount.Cents
		}
	}
	return summary, nil
}

func (r *MemoryRepository) CategorySummary(_ context.Context, start, end string, txType core.TransactionType) ([]core.CategoryAmount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := make(map[string]int64)
	for _, t := range r.txs {
		if t.Date < start || t.Date > end || t.Type != txType {
			continue
		}
		name := t.Category
		if name == "" {
			name = UncategorizedLabel
		}
		totals[name] += t.Amount.Cents
	}
	result := make([]core.CategoryAmount, 0, len(totals))
	for name, cents := range totals {
		result = append(result, core.CategoryAmount{Category: name, AmountCents: cents})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AmountCents != result[j].AmountCents {
			return result[i].AmountCents > result[j].AmountCents
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (r *MemoryRepository) DailySummary(ctx context.Context, start, end string) ([]core.DailyTotal, error) {
	return r.DailySummaryByCategory(ctx, start, end, "")
}

// DailySummaryByCategory mirrors the SQLite aggregation: sparse rows, and a
// non-empty category narrows the expense side only while income stays
// unfiltered.
func (r *MemoryRepository) DailySummaryByCategory(_ context.Context, start, end, category string) ([]core.DailyTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := make(map[string]*core.DailyTotal)
	for _, t := range r.txs {
		if t.Date < start || t.Date > end {
			continue
		}
		dt := totals[t.Date]
		if dt == nil {
			dt = &core.DailyTotal{Date: t.Date}
			totals[t.Date] = dt
		}
		switch t.Type {
		case core.Income:
			dt.IncomeCents += t.Amount.Cents
		case core.Expense:
			if category == "" || t.Category == category {
				dt.ExpenseCents += t.Amount.Cents
			}
		}
	}
	result := make([]core.DailyTotal, 0, len(totals))
	for _, dt := range totals {
		result = append(result, *dt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
