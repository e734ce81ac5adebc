// Package services implements the expense ledger: idempotent creation and
// the calendar/category aggregations behind the dashboard endpoints.
package services

import (
	"context"
	"errors"
	"fmt"

	"outgo/internal/amqp"
	"outgo/internal/core"
	"outgo/internal/log"
)

// Store is the persistence surface the ledger runs on. Both the SQLite
// repository and the in-memory backend implement it with identical
// ordering semantics.
type Store interface {
	// Insert persists one expense and returns the stored row. An insert
	// that collides on the idempotency key uniqueness constraint returns
	// core.ErrDuplicateIdempotencyKey.
	Insert(ctx context.Context, in core.NewExpense) (core.Expense, error)

	// ByIdempotencyKey returns the row previously stored under key.
	ByIdempotencyKey(ctx context.Context, key string) (core.Expense, error)

	// List returns rows matching the filter in the requested order,
	// together with the sum of their amounts in cents.
	List(ctx context.Context, f ListFilter) ([]core.Expense, int64, error)

	// CategorySummary groups all rows by category, total descending.
	CategorySummary(ctx context.Context) ([]core.CategoryTotal, error)

	// MonthlyTotals groups all rows by YYYY-MM month, ascending.
	MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error)

	// MonthCategoryTotals groups one month's rows by category, total
	// descending.
	MonthCategoryTotals(ctx context.Context, month string) ([]core.CategoryTotal, error)

	// MonthCategoryExpenses returns one month+category's rows ordered by
	// date, then creation time, newest first, plus their sum in cents.
	MonthCategoryExpenses(ctx context.Context, month, category string) ([]core.Expense, int64, error)
}

// ListFilter narrows and orders a listing. Category is matched
// case-insensitively after trimming; empty means no filter. DateAscending
// flips the date order only; the id tie-break stays descending.
type ListFilter struct {
	Category      string
	DateAscending bool
}

// CreateResult reports the stored row and whether it pre-existed under the
// same idempotency key. The request layer turns Duplicate into 200 vs 201.
type CreateResult struct {
	Expense   core.Expense
	Duplicate bool
}

// ListResult is a listing plus its aggregate sum and count.
type ListResult struct {
	Expenses   []core.Expense
	TotalCents int64
	Count      int
}

// ExpenseService is stateless: no cached totals, no session state, so
// concurrent callers and replicated instances need no coordination beyond
// the store's own uniqueness constraint.
type ExpenseService struct {
	store  Store
	events *amqp.Publisher
}

func NewExpenseService(store Store, events *amqp.Publisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// Create inserts one expense. A replay carrying an idempotency key that
// already exists is not an error: the original row comes back flagged as a
// duplicate and nothing new is stored. The race between two concurrent
// creates with the same key resolves through the store's constraint; the
// loser reads back the winner's row.
func (s *ExpenseService) Create(ctx context.Context, in core.NewExpense) (CreateResult, error) {
	exp, err := s.store.Insert(ctx, in)
	if err != nil {
		if in.IdempotencyKey != "" && errors.Is(err, core.ErrDuplicateIdempotencyKey) {
			existing, lookupErr := s.store.ByIdempotencyKey(ctx, in.IdempotencyKey)
			if lookupErr != nil {
				return CreateResult{}, fmt.Errorf("fetch existing expense for key: %w", lookupErr)
			}
			log.FromContext(ctx).WithComponent(log.ComponentLedger).
				InfoContext(ctx, "Idempotent replay resolved to existing expense",
					"id", existing.ID, "idempotency_key", in.IdempotencyKey)
			return CreateResult{Expense: existing, Duplicate: true}, nil
		}
		return CreateResult{}, fmt.Errorf("insert expense: %w", err)
	}

	s.publishCreated(ctx, exp)
	return CreateResult{Expense: exp}, nil
}

// List returns expenses with an optional category filter, ordered by date
// in the requested direction with id descending breaking date ties.
func (s *ExpenseService) List(ctx context.Context, f ListFilter) (ListResult, error) {
	rows, total, err := s.store.List(ctx, f)
	if err != nil {
		return ListResult{}, fmt.Errorf("list expenses: %w", err)
	}
	return ListResult{Expenses: rows, TotalCents: total, Count: len(rows)}, nil
}

// CategorySummary totals every category, largest spend first.
func (s *ExpenseService) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := s.store.CategorySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	return rows, nil
}

// ByCategory lists one category's expenses, newest first. A category that
// matches nothing yields an empty result, not an error.
func (s *ExpenseService) ByCategory(ctx context.Context, category string) (ListResult, error) {
	return s.List(ctx, ListFilter{Category: category})
}

// MonthlyTotals returns per-month totals oldest first; dashboard trend
// lines read left-to-right from the past.
func (s *ExpenseService) MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error) {
	rows, err := s.store.MonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	return rows, nil
}

// MonthlyCategoryBreakdown returns one month's per-category totals with
// each category's share of the month. Shares are rounded independently and
// are not corrected to sum to 100. The month token's shape is the caller's
// responsibility; an unknown month simply matches no rows.
func (s *ExpenseService) MonthlyCategoryBreakdown(ctx context.Context, month string) ([]core.CategoryShare, error) {
	rows, err := s.store.MonthCategoryTotals(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("month category totals: %w", err)
	}

	var monthTotal int64
	for _, r := range rows {
		monthTotal += r.TotalCents
	}

	shares := make([]core.CategoryShare, len(rows))
	for i, r := range rows {
		shares[i] = core.CategoryShare{
			CategoryTotal: r,
			Percent:       core.SharePercent(r.TotalCents, monthTotal),
		}
	}
	return shares, nil
}

// MonthCategoryExpenses is the drill-down beneath the breakdown: one
// month+category's rows, newest first.
func (s *ExpenseService) MonthCategoryExpenses(ctx context.Context, month, category string) (ListResult, error) {
	rows, total, err := s.store.MonthCategoryExpenses(ctx, month, category)
	if err != nil {
		return ListResult{}, fmt.Errorf("month category expenses: %w", err)
	}
	return ListResult{Expenses: rows, TotalCents: total, Count: len(rows)}, nil
}

// publishCreated emits a best-effort expense.created event. Publishing
// failures are logged, never surfaced: the expense is already stored.
// Duplicate replays never reach here, so consumers see each expense once.
func (s *ExpenseService) publishCreated(ctx context.Context, exp core.Expense) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseCreated(ctx, amqp.ExpenseCreated{
		ID:          exp.ID,
		AmountCents: exp.AmountCents,
		Category:    exp.Category,
		Month:       exp.Month(),
	}); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentLedger).
			ErrorContext(ctx, "Failed to publish expense.created event",
				"id", exp.ID, log.FieldError, err)
	}
}
