// Package storage persists expenses in SQLite. The idempotency contract
// rides on the table's UNIQUE constraint: concurrent inserts with the same
// key are serialized by the database, not by this process.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outgo/internal/core"
	"outgo/internal/log"
	"outgo/internal/services"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ services.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for readiness checks.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const expenseColumns = "id, amount_cents, category, description, date, created_at, idempotency_key"

func (s *SQLiteStore) Insert(ctx context.Context, in core.NewExpense) (core.Expense, error) {
	var key any
	if in.IdempotencyKey != "" {
		key = in.IdempotencyKey
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (amount_cents, category, description, date, created_at, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.AmountCents, in.Category, in.Description, in.Date, time.Now().UTC(), key)
	if err != nil {
		if isIdempotencyKeyConflict(err) {
			return core.Expense{}, core.ErrDuplicateIdempotencyKey
		}
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	exp, err := s.byID(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).
		InfoContext(ctx, "Expense saved",
			"id", exp.ID,
			"amount_cents", exp.AmountCents,
			"category", exp.Category,
			"date", exp.Date)

	return exp, nil
}

// isIdempotencyKeyConflict matches the UNIQUE violation raised by the
// idempotency_key constraint and nothing else; any other constraint
// failure propagates as a hard error.
func isIdempotencyKeyConflict(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE &&
		strings.Contains(serr.Error(), "idempotency_key")
}

func (s *SQLiteStore) byID(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	exp, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return exp, nil
}

func (s *SQLiteStore) ByIdempotencyKey(ctx context.Context, key string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE idempotency_key = ?", key)
	exp, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by idempotency key: %w", err)
	}
	return exp, nil
}

func (s *SQLiteStore) List(ctx context.Context, f services.ListFilter) ([]core.Expense, int64, error) {
	where := ""
	var args []any
	if strings.TrimSpace(f.Category) != "" {
		where = "WHERE lower(category) = lower(?)"
		args = append(args, strings.TrimSpace(f.Category))
	}

	direction := "DESC"
	if f.DateAscending {
		direction = "ASC"
	}

	// id DESC breaks date ties in both directions to keep the order total.
	query := fmt.Sprintf("SELECT %s FROM expenses %s ORDER BY date %s, id DESC",
		expenseColumns, where, direction)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	sumQuery := "SELECT COALESCE(SUM(amount_cents), 0) FROM expenses " + where
	if err := s.db.QueryRowContext(ctx, sumQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sum expenses: %w", err)
	}

	return expenses, total, nil
}

func (s *SQLiteStore) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT MIN(category), SUM(amount_cents) AS total, COUNT(*)
		FROM expenses
		GROUP BY lower(category)
		ORDER BY total DESC, lower(category) ASC`)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()
	return scanCategoryTotals(rows)
}

func (s *SQLiteStore) MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date) AS month, SUM(amount_cents), COUNT(*)
		FROM expenses
		GROUP BY month
		ORDER BY month ASC`)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []core.MonthTotal
	for rows.Next() {
		var t core.MonthTotal
		if err := rows.Scan(&t.Month, &t.TotalCents, &t.Count); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (s *SQLiteStore) MonthCategoryTotals(ctx context.Context, month string) ([]core.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT MIN(category), SUM(amount_cents) AS total, COUNT(*)
		FROM expenses
		WHERE strftime('%Y-%m', date) = ?
		GROUP BY lower(category)
		ORDER BY total DESC, lower(category) ASC`, month)
	if err != nil {
		return nil, fmt.Errorf("month category totals: %w", err)
	}
	defer rows.Close()
	return scanCategoryTotals(rows)
}

func (s *SQLiteStore) MonthCategoryExpenses(ctx context.Context, month, category string) ([]core.Expense, int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE strftime('%Y-%m', date) = ? AND lower(category) = lower(?)
		ORDER BY date DESC, created_at DESC, id DESC`, month, strings.TrimSpace(category))
	if err != nil {
		return nil, 0, fmt.Errorf("month category expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, e := range expenses {
		total += e.AmountCents
	}
	return expenses, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(r rowScanner) (core.Expense, error) {
	var e core.Expense
	var createdAt sql.NullTime
	var key sql.NullString
	if err := r.Scan(&e.ID, &e.AmountCents, &e.Category, &e.Description, &e.Date, &createdAt, &key); err != nil {
		return core.Expense{}, err
	}
	e.CreatedAt = createdAt.Time
	e.IdempotencyKey = key.String
	return e, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func scanCategoryTotals(rows *sql.Rows) ([]core.CategoryTotal, error) {
	var totals []core.CategoryTotal
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.Category, &t.TotalCents, &t.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
