package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"outgo/internal/core"
	"outgo/internal/services"
)

// handleCreateExpense stores one expense. A replayed X-Idempotency-Key
// returns the original row with 200 instead of 201.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := decodeExpenseInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	in.IdempotencyKey = strings.TrimSpace(r.Header.Get("X-Idempotency-Key"))

	payload, verrs := in.Validate()
	if verrs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Errors: verrs})
		return
	}

	result, err := s.ledger.Create(r.Context(), payload)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, struct {
		Data expensePayload `json:"data"`
	}{Data: toExpensePayload(result.Expense)})
}

type listResponse struct {
	Data  []expensePayload `json:"data"`
	Total string           `json:"total"`
	Count int              `json:"count"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := services.ListFilter{
		Category:      r.URL.Query().Get("category"),
		DateAscending: sortAscending(r.URL.Query().Get("sort")),
	}

	result, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:  toExpensePayloads(result.Expenses),
		Total: core.FormatAmount(result.TotalCents),
		Count: result.Count,
	})
}

type categoryTotalPayload struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.CategorySummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category summary failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	data := make([]categoryTotalPayload, 0, len(rows))
	for _, row := range rows {
		data = append(data, categoryTotalPayload{
			Category: row.Category,
			Total:    core.FormatAmount(row.TotalCents),
			Count:    row.Count,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []categoryTotalPayload `json:"data"`
	}{Data: data})
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	result, err := s.ledger.ByCategory(r.Context(), category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expenses by category failed", "error", err, "category", category)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:  toExpensePayloads(result.Expenses),
		Total: core.FormatAmount(result.TotalCents),
		Count: result.Count,
	})
}
