// Package http exposes the expense ledger as a JSON REST API and serves
// the embedded browser UI.
package http

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"outgo/internal/services"
	appweb "outgo/web"
)

type Server struct {
	http.Server
	ledger      *services.ExpenseService
	templates   *template.Template
	rateLimiter *rateLimiter
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, ledger *services.ExpenseService, allowedOrigins []string) *Server {
	s := &Server{
		ledger:      ledger,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Idempotency-Key"},
		MaxAge:         300,
	}))
	r.Use(s.requestLogger)
	r.Use(securityHeaders)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, req)
		})
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	r.Route("/expenses", func(r chi.Router) {
		r.With(s.limitWrites).Post("/", s.handleCreateExpense)
		r.Get("/", s.handleListExpenses)
		r.Get("/summary", s.handleCategorySummary)
		r.Get("/category/{category}", s.handleExpensesByCategory)
		r.Get("/dashboard/months", s.handleMonthlyTotals)
		r.Get("/dashboard/months/{month}/categories", s.handleMonthBreakdown)
		r.Get("/dashboard/months/{month}/categories/{category}", s.handleMonthCategoryExpenses)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{Today: time.Now().Format("2006-01-02")}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
