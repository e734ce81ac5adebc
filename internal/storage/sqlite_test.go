package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"outgo/internal/core"
	"outgo/internal/services"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestInsertMapsUniqueKeyViolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Insert(ctx, core.NewExpense{
		AmountCents: 1234, Category: "food", Date: "2025-03-10", IdempotencyKey: "k1",
	})
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// The driver's UNIQUE violation on idempotency_key must surface as the
	// domain sentinel, not as a raw sqlite error.
	_, err = store.Insert(ctx, core.NewExpense{
		AmountCents: 9999, Category: "other", Date: "2025-04-01", IdempotencyKey: "k1",
	})
	if !errors.Is(err, core.ErrDuplicateIdempotencyKey) {
		t.Fatalf("duplicate insert err = %v, want ErrDuplicateIdempotencyKey", err)
	}

	got, err := store.ByIdempotencyKey(ctx, "k1")
	if err != nil {
		t.Fatalf("lookup by key: %v", err)
	}
	if got.ID != first.ID || got.AmountCents != 1234 {
		t.Fatalf("lookup returned %+v, want original row %+v", got, first)
	}

	rows, total, err := store.List(ctx, services.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || total != 1234 {
		t.Fatalf("rows = %d total = %d after rejected duplicate, want 1 row totalling 1234", len(rows), total)
	}
}

func TestInsertWithoutKeyNeverConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// idempotency_key stores NULL when absent; NULLs never collide under
	// the UNIQUE constraint.
	for i := 0; i < 2; i++ {
		if _, err := store.Insert(ctx, core.NewExpense{
			AmountCents: 500, Category: "food", Date: "2025-03-10",
		}); err != nil {
			t.Fatalf("keyless insert %d: %v", i, err)
		}
	}

	rows, _, err := store.List(ctx, services.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestByIdempotencyKeyMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.ByIdempotencyKey(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing key err = %v, want ErrNotFound", err)
	}
}
