package memory

import (
	"context"
	"errors"
	"testing"

	"outgo/internal/core"
	"outgo/internal/services"
)

func insert(t *testing.T, s *Store, cents int64, category, date, key string) core.Expense {
	t.Helper()
	exp, err := s.Insert(context.Background(), core.NewExpense{
		AmountCents:    cents,
		Category:       category,
		Date:           date,
		IdempotencyKey: key,
	})
	if err != nil {
		t.Fatalf("insert %s/%s: %v", category, date, err)
	}
	return exp
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	s := New()
	a := insert(t, s, 100, "food", "2025-03-10", "")
	b := insert(t, s, 200, "food", "2025-03-11", "")
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Fatalf("created_at not stamped")
	}
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	s := New()
	insert(t, s, 100, "food", "2025-03-10", "k1")

	_, err := s.Insert(context.Background(), core.NewExpense{
		AmountCents: 200, Category: "food", Date: "2025-03-11", IdempotencyKey: "k1",
	})
	if !errors.Is(err, core.ErrDuplicateIdempotencyKey) {
		t.Fatalf("err = %v, want ErrDuplicateIdempotencyKey", err)
	}

	rows, _, err := s.List(context.Background(), services.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

func TestByIdempotencyKey(t *testing.T) {
	s := New()
	stored := insert(t, s, 100, "food", "2025-03-10", "k1")

	got, err := s.ByIdempotencyKey(context.Background(), "k1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != stored.ID {
		t.Fatalf("id = %d, want %d", got.ID, stored.ID)
	}

	if _, err := s.ByIdempotencyKey(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing key err = %v, want ErrNotFound", err)
	}
}

func TestListTrimsAndMatchesCategoryCaseInsensitively(t *testing.T) {
	s := New()
	insert(t, s, 100, "Food", "2025-03-10", "")
	insert(t, s, 200, "travel", "2025-03-11", "")

	rows, total, err := s.List(context.Background(), services.ListFilter{Category: "  food  "})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || total != 100 {
		t.Fatalf("rows = %d total = %d, want 1 row totalling 100", len(rows), total)
	}
}

func TestGroupLabelUsesSmallestCasing(t *testing.T) {
	s := New()
	insert(t, s, 100, "food", "2025-03-10", "")
	insert(t, s, 200, "Food", "2025-03-11", "")

	rows, err := s.CategorySummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("groups = %+v, want 1", rows)
	}
	// MIN(category): byte order puts uppercase first.
	if rows[0].Category != "Food" || rows[0].TotalCents != 300 || rows[0].Count != 2 {
		t.Fatalf("group = %+v", rows[0])
	}
}

func TestMonthCategoryExpensesScopesToMonth(t *testing.T) {
	s := New()
	insert(t, s, 100, "food", "2025-03-10", "")
	insert(t, s, 200, "food", "2025-04-10", "")
	insert(t, s, 300, "travel", "2025-03-10", "")

	rows, total, err := s.MonthCategoryExpenses(context.Background(), "2025-03", "food")
	if err != nil {
		t.Fatalf("drilldown: %v", err)
	}
	if len(rows) != 1 || total != 100 {
		t.Fatalf("rows = %d total = %d, want 1 row totalling 100", len(rows), total)
	}
}
