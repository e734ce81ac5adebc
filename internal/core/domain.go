package core

import (
	"strings"
	"time"
)

const (
	MaxCategoryLen    = 100
	MaxDescriptionLen = 500
)

type (
	// Expense is a stored ledger row. Rows are immutable after creation;
	// every aggregate is derived from them on demand.
	Expense struct {
		ID             int64
		AmountCents    int64
		Category       string
		Description    string
		Date           string // YYYY-MM-DD
		CreatedAt      time.Time
		IdempotencyKey string // empty means none
	}

	// NewExpense is a validated, normalized creation payload.
	NewExpense struct {
		AmountCents    int64
		Category       string
		Description    string
		Date           string
		IdempotencyKey string
	}

	// ExpenseInput carries raw request fields before validation. Amount
	// and date arrive as strings and stay strings until parsed.
	ExpenseInput struct {
		Amount         string
		Category       string
		Description    string
		Date           string
		IdempotencyKey string
	}
)

// ValidationErrors collects client-correctable reasons for a 422.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// Validate checks every field and returns the full list of problems plus
// the normalized payload when there are none.
func (in ExpenseInput) Validate() (NewExpense, ValidationErrors) {
	var errs ValidationErrors
	var out NewExpense

	amount := strings.TrimSpace(in.Amount)
	if amount == "" {
		errs = append(errs, "amount is required")
	} else if cents, err := ParseAmount(amount); err != nil {
		errs = append(errs, "amount must be a positive number with at most 2 decimal places")
	} else {
		out.AmountCents = cents
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		errs = append(errs, "category is required")
	} else if len(category) > MaxCategoryLen {
		errs = append(errs, "category must be at most 100 characters")
	} else {
		out.Category = category
	}

	if len(in.Description) > MaxDescriptionLen {
		errs = append(errs, "description must be at most 500 characters")
	} else {
		out.Description = in.Description
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		errs = append(errs, "date is required")
	} else if !ValidDate(date) {
		errs = append(errs, "date must be a real date in YYYY-MM-DD format")
	} else {
		out.Date = date
	}

	out.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if len(errs) > 0 {
		return NewExpense{}, errs
	}
	return out, nil
}

// ValidDate reports whether s is a calendrically real YYYY-MM-DD date.
// time.Parse rejects out-of-range days (2025-02-30) and months (2025-13-01).
func ValidDate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidMonth reports whether s has the YYYY-MM month-token shape.
func ValidMonth(s string) bool {
	if len(s) != len("2006-01") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Month returns the YYYY-MM token of the expense date.
func (e Expense) Month() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}
