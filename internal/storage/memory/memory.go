// Package memory is an in-memory Store used as the dev backend and as the
// test double. It reproduces the SQLite repository's ordering and grouping
// semantics exactly so tests exercise the same contract the API serves.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"outgo/internal/core"
	"outgo/internal/services"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	expenses []core.Expense
	byKey    map[string]int64
}

var _ services.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, byKey: make(map[string]int64)}
}

func (s *Store) Insert(ctx context.Context, in core.NewExpense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.IdempotencyKey != "" {
		if _, exists := s.byKey[in.IdempotencyKey]; exists {
			return core.Expense{}, core.ErrDuplicateIdempotencyKey
		}
	}

	exp := core.Expense{
		ID:             s.nextID,
		AmountCents:    in.AmountCents,
		Category:       in.Category,
		Description:    in.Description,
		Date:           in.Date,
		CreatedAt:      time.Now().UTC(),
		IdempotencyKey: in.IdempotencyKey,
	}
	s.nextID++
	s.expenses = append(s.expenses, exp)
	if in.IdempotencyKey != "" {
		s.byKey[in.IdempotencyKey] = exp.ID
	}
	return exp, nil
}

func (s *Store) ByIdempotencyKey(ctx context.Context, key string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) List(ctx context.Context, f services.ListFilter) ([]core.Expense, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := strings.TrimSpace(f.Category)
	var rows []core.Expense
	var total int64
	for _, e := range s.expenses {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		rows = append(rows, e)
		total += e.AmountCents
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			if f.DateAscending {
				return rows[i].Date < rows[j].Date
			}
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID > rows[j].ID
	})

	return rows, total, nil
}

func (s *Store) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return groupByCategory(s.expenses, ""), nil
}

func (s *Store) MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byMonth := make(map[string]*core.MonthTotal)
	for _, e := range s.expenses {
		m := e.Month()
		t, ok := byMonth[m]
		if !ok {
			t = &core.MonthTotal{Month: m}
			byMonth[m] = t
		}
		t.TotalCents += e.AmountCents
		t.Count++
	}

	totals := make([]core.MonthTotal, 0, len(byMonth))
	for _, t := range byMonth {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })
	if len(totals) == 0 {
		return nil, nil
	}
	return totals, nil
}

func (s *Store) MonthCategoryTotals(ctx context.Context, month string) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return groupByCategory(s.expenses, month), nil
}

func (s *Store) MonthCategoryExpenses(ctx context.Context, month, category string) ([]core.Expense, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category = strings.TrimSpace(category)
	var rows []core.Expense
	var total int64
	for _, e := range s.expenses {
		if e.Month() != month || !strings.EqualFold(e.Category, category) {
			continue
		}
		rows = append(rows, e)
		total += e.AmountCents
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	return rows, total, nil
}

// groupByCategory aggregates case-insensitively (lowercased group key,
// smallest stored casing as label) ordered by total descending with the
// group key breaking ties, mirroring the SQL GROUP BY.
func groupByCategory(expenses []core.Expense, month string) []core.CategoryTotal {
	type bucket struct {
		label string
		total int64
		count int64
	}
	buckets := make(map[string]*bucket)
	for _, e := range expenses {
		if month != "" && e.Month() != month {
			continue
		}
		key := strings.ToLower(e.Category)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: e.Category}
			buckets[key] = b
		} else if e.Category < b.label {
			b.label = e.Category
		}
		b.total += e.AmountCents
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := buckets[keys[i]], buckets[keys[j]]
		if bi.total != bj.total {
			return bi.total > bj.total
		}
		return keys[i] < keys[j]
	})

	var totals []core.CategoryTotal
	for _, k := range keys {
		b := buckets[k]
		totals = append(totals, core.CategoryTotal{Category: b.label, TotalCents: b.total, Count: b.count})
	}
	return totals
}
