package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/factupro/cotizador/internal/export"
	"github.com/factupro/cotizador/internal/quote"
)

const maxImportBytes = 1 << 20

type quoteRecord struct {
	ID        string       `json:"id"`
	CreatedAt string       `json:"createdAt"`
	Title     string       `json:"title"`
	Notes     string       `json:"notes"`
	State     quote.State  `json:"state"`
	Totals    quote.Totals `json:"totals"`
}

type quoteListItem struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Title     string  `json:"title"`
	Subtotal  float64 `json:"subtotal"`
}

type saveQuoteRequest struct {
	Title string          `json:"title"`
	Notes string          `json:"notes"`
	State json.RawMessage `json:"state"`
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req saveQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if len(req.State) == 0 || string(req.State) == "null" {
		writeError(w, http.StatusBadRequest, "state es requerido")
		return
	}

	state := quote.DefaultState()
	if err := json.Unmarshal(req.State, &state); err != nil {
		writeError(w, http.StatusBadRequest, "state inválido")
		return
	}

	record, err := s.saveQuote(strings.TrimSpace(req.Title), strings.TrimSpace(req.Notes), state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo guardar la cotización")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudieron cargar las cotizaciones")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadQuoteOrError(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := s.db.Exec(`DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo eliminar la cotización")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo eliminar la cotización")
		return
	}
	if affected == 0 {
		writeError(w, http.StatusNotFound, "cotización no encontrada")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleQuoteImport accepts a previously exported quote document, validates
// it, and stores it as a new quote.
func (s *server) handleQuoteImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "no se pudo leer el archivo")
		return
	}

	state, err := quote.ParsePayload(body)
	if err != nil {
		if errors.Is(err, quote.ErrMissingState) {
			writeError(w, http.StatusBadRequest, "el documento no contiene una cotización")
			return
		}
		writeError(w, http.StatusBadRequest, "documento inválido")
		return
	}

	record, err := s.saveQuote("", "", state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo guardar la cotización")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *server) handleQuoteExportJSON(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadQuoteOrError(w, r)
	if !ok {
		return
	}

	payload := quote.BuildPayload(record.State, nowUTC())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cotizacion-"+record.ID+".json"))
	writeJSON(w, http.StatusOK, payload)
}

func (s *server) handleQuoteExportPDF(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadQuoteOrError(w, r)
	if !ok {
		return
	}

	doc, err := export.QuotePDF(quote.BuildPayload(record.State, nowUTC()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo generar el PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cotizacion-"+record.ID+".pdf"))
	_, _ = w.Write(doc)
}

func (s *server) handleQuoteExportXLSX(w http.ResponseWriter, r *http.Request) {
	record, ok := s.loadQuoteOrError(w, r)
	if !ok {
		return
	}

	doc, err := export.QuoteXLSX(quote.BuildPayload(record.State, nowUTC()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo generar el archivo XLSX")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cotizacion-"+record.ID+".xlsx"))
	_, _ = w.Write(doc)
}

func (s *server) loadQuoteOrError(w http.ResponseWriter, r *http.Request) (quoteRecord, bool) {
	record, err := s.getQuote(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "cotización no encontrada")
		return quoteRecord{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo cargar la cotización")
		return quoteRecord{}, false
	}
	return record, true
}

// saveQuote persists a snapshot of the quote state along with totals computed
// server side, so listings never trust client-supplied numbers.
func (s *server) saveQuote(title, notes string, state quote.State) (quoteRecord, error) {
	totals := quote.ComputeTotals(state)

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return quoteRecord{}, fmt.Errorf("marshal quote state: %w", err)
	}
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return quoteRecord{}, fmt.Errorf("marshal quote totals: %w", err)
	}

	record := quoteRecord{
		ID:        uuid.NewString(),
		CreatedAt: nowUTC().Format(time.RFC3339),
		Title:     title,
		Notes:     notes,
		State:     state,
		Totals:    totals,
	}

	_, err = s.db.Exec(`
		INSERT INTO quotes (id, created_at, title, notes, state_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.CreatedAt, record.Title, record.Notes, string(stateJSON), string(totalsJSON))
	if err != nil {
		return quoteRecord{}, fmt.Errorf("insert quote: %w", err)
	}

	return record, nil
}

func (s *server) getQuote(id string) (quoteRecord, error) {
	var record quoteRecord
	var stateJSON, totalsJSON string
	err := s.db.QueryRow(`
		SELECT id, created_at, COALESCE(title, ''), COALESCE(notes, ''), state_json, totals_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&record.ID, &record.CreatedAt, &record.Title, &record.Notes, &stateJSON, &totalsJSON)
	if err != nil {
		return quoteRecord{}, err
	}

	record.State = quote.DefaultState()
	if err := json.Unmarshal([]byte(stateJSON), &record.State); err != nil {
		return quoteRecord{}, fmt.Errorf("decode quote state: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &record.Totals); err != nil {
		return quoteRecord{}, fmt.Errorf("decode quote totals: %w", err)
	}

	return record, nil
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, created_at, COALESCE(title, ''), totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &totalsJSON); err != nil {
			return nil, err
		}
		item.Subtotal = extractSubtotalFromJSON(totalsJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return quotes, nil
}

func extractSubtotalFromJSON(totalsJSON string) float64 {
	var values struct {
		Subtotal float64 `json:"subtotal"`
	}
	if err := json.Unmarshal([]byte(totalsJSON), &values); err != nil {
		return 0
	}
	return values.Subtotal
}
