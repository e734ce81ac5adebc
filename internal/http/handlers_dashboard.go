package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"outgo/internal/core"
)

type monthTotalPayload struct {
	Month string `json:"month"`
	Total string `json:"total"`
	Count int64  `json:"count"`
}

func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.MonthlyTotals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly totals failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	data := make([]monthTotalPayload, 0, len(rows))
	for _, row := range rows {
		data = append(data, monthTotalPayload{
			Month: row.Month,
			Total: core.FormatAmount(row.TotalCents),
			Count: row.Count,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []monthTotalPayload `json:"data"`
	}{Data: data})
}

type categorySharePayload struct {
	Category string  `json:"category"`
	Total    string  `json:"total"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
}

func (s *Server) handleMonthBreakdown(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if !core.ValidMonth(month) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "month must be in YYYY-MM format"})
		return
	}

	rows, err := s.ledger.MonthlyCategoryBreakdown(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month breakdown failed", "error", err, "month", month)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	data := make([]categorySharePayload, 0, len(rows))
	for _, row := range rows {
		data = append(data, categorySharePayload{
			Category: row.Category,
			Total:    core.FormatAmount(row.TotalCents),
			Count:    row.Count,
			Percent:  row.Percent,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []categorySharePayload `json:"data"`
	}{Data: data})
}

type drilldownResponse struct {
	Expenses []expensePayload `json:"expenses"`
	Total    string           `json:"total"`
	Count    int              `json:"count"`
}

func (s *Server) handleMonthCategoryExpenses(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if !core.ValidMonth(month) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "month must be in YYYY-MM format"})
		return
	}
	category := chi.URLParam(r, "category")

	result, err := s.ledger.MonthCategoryExpenses(r.Context(), month, category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month category expenses failed", "error", err,
			"month", month, "category", category)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, drilldownResponse{
		Expenses: toExpensePayloads(result.Expenses),
		Total:    core.FormatAmount(result.TotalCents),
		Count:    result.Count,
	})
}
