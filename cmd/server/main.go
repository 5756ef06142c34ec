package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	json "github.com/goccy/go-json"

	"github.com/factupro/cotizador/internal/config"
	"github.com/factupro/cotizador/internal/db"
	"github.com/factupro/cotizador/internal/migrations"
	"github.com/factupro/cotizador/internal/payroll"
	"github.com/factupro/cotizador/internal/quote"
)

type server struct {
	auth *authService
	db   *sql.DB
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "migrations"); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	auth := newAuthService(database, cfg.SessionSecret)
	if err := auth.ensureAdminUser(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	srv := &server{auth: auth, db: database}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes(cfg)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes(cfg config.Config) *chi.Mux {
	logFormat := httplog.SchemaECS.Concise(cfg.IsDev())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "cotizador"),
		slog.String("env", cfg.Env),
	)

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chimiddleware.CleanPath)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Heartbeat("/healthz"))

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/quote/totals", s.handleQuoteTotals)
		r.Post("/quote/labor", s.handleQuoteLabor)
		r.Post("/quote/overtime", s.handleQuoteOvertime)

		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes/import", s.handleQuoteImport)
		r.Get("/quotes/{id}", s.handleQuoteGet)
		r.Delete("/quotes/{id}", s.handleQuoteDelete)
		r.Get("/quotes/{id}/export.json", s.handleQuoteExportJSON)
		r.Get("/quotes/{id}/export.pdf", s.handleQuoteExportPDF)
		r.Get("/quotes/{id}/export.xlsx", s.handleQuoteExportXLSX)
	})

	return r
}

// handleQuoteTotals computes the full cost rollup and margin table for the
// quote state in the request body. Nothing is persisted.
func (s *server) handleQuoteTotals(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quote.ComputeTotals(state))
}

type laborResponse struct {
	Tech   payroll.CostBreakdown `json:"tech"`
	Helper payroll.CostBreakdown `json:"helper"`
}

func (s *server) handleQuoteLabor(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, laborResponse{
		Tech:   state.TechCost(),
		Helper: state.HelperCost(),
	})
}

func (s *server) handleQuoteOvertime(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quote.ComputeOvertime(state))
}

// decodeState parses a quote state from the request body on top of the
// product defaults, so partial documents keep the default schedule and rates.
func decodeState(w http.ResponseWriter, r *http.Request) (quote.State, bool) {
	state := quote.DefaultState()
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return quote.State{}, false
	}
	return state, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
