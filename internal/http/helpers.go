package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"outgo/internal/core"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Errors []string `json:"errors"`
}

// expensePayload is the wire form of a stored expense. Amounts cross the
// boundary as two-decimal strings, never as numbers.
type expensePayload struct {
	ID             int64     `json:"id"`
	Amount         string    `json:"amount"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Date           string    `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
	IdempotencyKey *string   `json:"idempotency_key"`
}

func toExpensePayload(e core.Expense) expensePayload {
	p := expensePayload{
		ID:          e.ID,
		Amount:      core.FormatAmount(e.AmountCents),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
	if e.IdempotencyKey != "" {
		key := e.IdempotencyKey
		p.IdempotencyKey = &key
	}
	return p
}

func toExpensePayloads(expenses []core.Expense) []expensePayload {
	out := make([]expensePayload, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpensePayload(e))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeExpenseInput reads a create request body. The amount may arrive as
// a JSON string or number; either way it is kept textual so the money
// parser sees exactly what the client wrote.
func decodeExpenseInput(r *http.Request) (core.ExpenseInput, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return core.ExpenseInput{}, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return core.ExpenseInput{}, err
	}

	return core.ExpenseInput{
		Amount:      rawString(fields["amount"]),
		Category:    rawString(fields["category"]),
		Description: rawString(fields["description"]),
		Date:        rawString(fields["date"]),
	}, nil
}

// rawString renders a JSON scalar textually. Numbers keep their literal
// form ("10.005" stays "10.005"), so no precision is lost before
// validation.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return ""
	}
	lit := strings.TrimSpace(string(raw))
	if lit == "null" {
		return ""
	}
	return lit
}

// sortAscending interprets the list sort token: only "date_asc" flips the
// order, anything else keeps the descending default.
func sortAscending(token string) bool {
	return token == "date_asc"
}
