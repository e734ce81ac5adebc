package core

import (
	"strings"
	"testing"
)

func TestExpenseInputValidate(t *testing.T) {
	valid := ExpenseInput{
		Amount:   "12.34",
		Category: "food",
		Date:     "2025-03-10",
	}

	t.Run("valid input normalizes", func(t *testing.T) {
		out, errs := valid.Validate()
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if out.AmountCents != 1234 || out.Category != "food" || out.Date != "2025-03-10" {
			t.Fatalf("unexpected payload: %+v", out)
		}
	})

	t.Run("category is trimmed", func(t *testing.T) {
		in := valid
		in.Category = "  Food  "
		out, errs := in.Validate()
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if out.Category != "Food" {
			t.Fatalf("category = %q, want trimmed with original casing", out.Category)
		}
	})

	cases := []struct {
		name   string
		mutate func(*ExpenseInput)
		want   string
	}{
		{"missing amount", func(in *ExpenseInput) { in.Amount = "" }, "amount is required"},
		{"zero amount", func(in *ExpenseInput) { in.Amount = "0" }, "amount must be a positive number"},
		{"negative amount", func(in *ExpenseInput) { in.Amount = "-4.00" }, "amount must be a positive number"},
		{"three decimals", func(in *ExpenseInput) { in.Amount = "10.005" }, "amount must be a positive number"},
		{"missing category", func(in *ExpenseInput) { in.Category = "   " }, "category is required"},
		{"category too long", func(in *ExpenseInput) { in.Category = strings.Repeat("x", 101) }, "at most 100 characters"},
		{"description too long", func(in *ExpenseInput) { in.Description = strings.Repeat("y", 501) }, "at most 500 characters"},
		{"missing date", func(in *ExpenseInput) { in.Date = "" }, "date is required"},
		{"impossible day", func(in *ExpenseInput) { in.Date = "2025-02-30" }, "real date"},
		{"impossible month", func(in *ExpenseInput) { in.Date = "2025-13-01" }, "real date"},
		{"wrong shape", func(in *ExpenseInput) { in.Date = "10-03-2025" }, "real date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, errs := in.Validate()
			if len(errs) == 0 {
				t.Fatalf("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors %v missing %q", errs, tc.want)
			}
		})
	}

	t.Run("all problems reported at once", func(t *testing.T) {
		_, errs := ExpenseInput{}.Validate()
		if len(errs) != 3 {
			t.Fatalf("expected 3 errors (amount, category, date), got %v", errs)
		}
	})
}

func TestValidMonth(t *testing.T) {
	for s, want := range map[string]bool{
		"2025-03":    true,
		"1999-12":    true,
		"2025-3":     false,
		"2025/03":    false,
		"202503":     false,
		"2025-03-01": false,
		"":           false,
	} {
		if got := ValidMonth(s); got != want {
			t.Fatalf("ValidMonth(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestExpenseMonth(t *testing.T) {
	e := Expense{Date: "2025-03-10"}
	if e.Month() != "2025-03" {
		t.Fatalf("Month() = %q", e.Month())
	}
}
