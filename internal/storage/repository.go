package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Store over a single SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// CreateTransaction inserts a transaction and returns its new ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	createdAt := time.Now().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (type, amount_cents, date, category, account, note, created_at, category_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.Type), t.Amount.Cents, t.Date,
		nullStr(t.Category), nullStr(t.Account), nullStr(t.Note),
		createdAt, nullID(t.CategoryID), nullID(t.AccountID))
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date)

	return id, nil
}

// UpdateTransaction rewrites a transaction in place, keeping its ID and
// created_at.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			type = ?, amount_cents = ?, date = ?, category = ?, account = ?,
			note = ?, category_id = ?, account_id = ?
		WHERE id = ?`,
		string(t.Type), t.Amount.Cents, t.Date,
		nullStr(t.Category), nullStr(t.Account), nullStr(t.Note),
		nullID(t.CategoryID), nullID(t.AccountID), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

const transactionColumns = `id, type, amount_cents, date, category, account, note, created_at, category_id, account_id`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t                       core.Transaction
		txType                  string
		category, account, note sql.NullString
		createdAt               sql.NullString
		categoryID, accountID   sql.NullInt64
	)
	err := row.Scan(&t.ID, &txType, &t.Amount.Cents, &t.Date,
		&category, &account, &note, &createdAt, &categoryID, &accountID)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(txType)
	t.Category = category.String
	t.Account = account.String
	t.Note = note.String
	t.CreatedAt = createdAt.String
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	if accountID.Valid {
		t.AccountID = &accountID.Int64
	}
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) listTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var result []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}

// ListTransactions returns all transactions, most recent date first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, created_at DESC`)
}

// ListTransactionsByDateRange returns transactions with start <= date <= end.
func (r *SQLiteRepository) ListTransactionsByDateRange(ctx context.Context, start, end string) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE date >= ? AND date <= ?
		 ORDER BY date DESC, created_at DESC`, start, end)
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	createdAt := time.Now().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, parent_id, type, created_at)
		VALUES (?, ?, ?, ?)`,
		c.Name, nullID(c.ParentID), c.Type, createdAt)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, parent_id = ?, type = ? WHERE id = ?`,
		c.Name, nullID(c.ParentID), c.Type, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) listCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []core.Category
	for rows.Next() {
		var (
			c         core.Category
			parentID  sql.NullInt64
			createdAt sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &parentID, &c.Type, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		c.CreatedAt = createdAt.String
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, name, parent_id, type, created_at FROM categories ORDER BY type, name`)
}

// ListCategoriesByType returns categories usable for the given transaction
// type; categories typed 'both' match either.
func (r *SQLiteRepository) ListCategoriesByType(ctx context.Context, categoryType string) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, name, parent_id, type, created_at FROM categories
		 WHERE type = ? OR type = 'both' ORDER BY name`, categoryType)
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	createdAt := time.Now().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (name, type, created_at) VALUES (?, ?, ?)`,
		a.Name, a.Type, createdAt)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ? WHERE id = ?`, a.Name, a.Type, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("account %d: %w", a.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, created_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var result []core.Account
	for rows.Next() {
		var (
			a         core.Account
			createdAt sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &createdAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt = createdAt.String
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return result, nil
}

// SummaryByDateRange sums income and expense cents over a closed range.
func (r *SQLiteRepository) SummaryByDateRange(ctx context.Context, start, end string) (core.PeriodSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY type`, start, end)
	if err != nil {
		return core.PeriodSummary{}, fmt.Errorf("summary by date range: %w", err)
	}
	defer rows.Close()

	var summary core.PeriodSummary
	for rows.Next() {
		var (
			txType string
			total  int64
		)
		if err := rows.Scan(&txType, &total); err != nil {
			return core.PeriodSummary{}, fmt.Errorf("scan summary: %w", err)
		}
		switch core.TransactionType(txType) {
		case core.Income:
			summary.IncomeCents = total
		case core.Expense:
			summary.ExpenseCents = total
		}
	}
	if err := rows.Err(); err != nil {
		return core.PeriodSummary{}, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

// CategorySummary sums amounts per category for one transaction type.
// Transactions without a category land in the Uncategorized bucket. Order
// is descending by total; the stats layer re-sorts after computing shares.
func (r *SQLiteRepository) CategorySummary(ctx context.Context, start, end string, txType core.TransactionType) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(category, ''), ?) AS category_name,
		       SUM(amount_cents) AS total
		FROM transactions
		WHERE date >= ? AND date <= ? AND type = ?
		GROUP BY category_name
		ORDER BY total DESC`,
		UncategorizedLabel, start, end, string(txType))
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	var result []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Category, &ca.AmountCents); err != nil {
			return nil, fmt.Errorf("scan category summary: %w", err)
		}
		result = append(result, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category summary: %w", err)
	}
	return result, nil
}

// DailySummary returns per-day income/expense totals for days with
// activity, ascending by date.
func (r *SQLiteRepository) DailySummary(ctx context.Context, start, end string) ([]core.DailyTotal, error) {
	return r.dailySummary(ctx, `
		SELECT date,
		       SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END) AS income,
		       SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END) AS expense
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date`, start, end)
}

// DailySummaryByCategory is DailySummary with an optional expense-side
// category filter. Income is never filtered: it always reflects the full
// total for the day, which is what the expense-analysis consumers expect.
func (r *SQLiteRepository) DailySummaryByCategory(ctx context.Context, start, end, category string) ([]core.DailyTotal, error) {
	if category == "" {
		return r.DailySummary(ctx, start, end)
	}
	return r.dailySummary(ctx, `
		SELECT date,
		       SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END) AS income,
		       SUM(CASE WHEN type = 'expense' AND category = ? THEN amount_cents ELSE 0 END) AS expense
		FROM transactions
		WHERE date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date`, category, start, end)
}

func (r *SQLiteRepository) dailySummary(ctx context.Context, query string, args ...any) ([]core.DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var result []core.DailyTotal
	for rows.Next() {
		var dt core.DailyTotal
		if err := rows.Scan(&dt.Date, &dt.IncomeCents, &dt.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		result = append(result, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily summary: %w", err)
	}
	return result, nil
}
