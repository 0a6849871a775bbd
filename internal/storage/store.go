package storage

import (
	"context"

	"ledger/internal/core"
)

// Store is the full persistence contract: transaction, category and account
// CRUD plus the aggregate reads the reporting engine consumes. Implemented
// by SQLiteRepository and by MemoryRepository for tests and
// dependency-free runs.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListTransactionsByDateRange(ctx context.Context, start, end string) ([]core.Transaction, error)

	CreateCategory(ctx context.Context, c core.Category) (int64, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListCategoriesByType(ctx context.Context, categoryType string) ([]core.Category, error)

	CreateAccount(ctx context.Context, a core.Account) (int64, error)
	UpdateAccount(ctx context.Context, a core.Account) error
	DeleteAccount(ctx context.Context, id int64) error
	ListAccounts(ctx context.Context) ([]core.Account, error)

	// Aggregate reads; date ranges are closed on both ends.
	SummaryByDateRange(ctx context.Context, start, end string) (core.PeriodSummary, error)
	CategorySummary(ctx context.Context, start, end string, txType core.TransactionType) ([]core.CategoryAmount, error)
	DailySummary(ctx context.Context, start, end string) ([]core.DailyTotal, error)
	DailySummaryByCategory(ctx context.Context, start, end, category string) ([]core.DailyTotal, error)

	Close() error
}

// UncategorizedLabel is the bucket name used for transactions without a
// category in breakdowns.
const UncategorizedLabel = "Uncategorized"
