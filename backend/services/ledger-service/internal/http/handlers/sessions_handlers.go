package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/service"
)

// RateSource yields the rate table snapshot for one request.
type RateSource interface {
	Current() models.RateTable
}

// SessionsHandlers exposes the session lifecycle.
type SessionsHandlers struct {
	sessions *service.SessionsService
	rates    RateSource
	loc      *time.Location
	logger   *zap.Logger
}

// NewSessionsHandlers returns handler set. Timestamps without an offset are read in loc.
func NewSessionsHandlers(sessions *service.SessionsService, rates RateSource, loc *time.Location, logger *zap.Logger) *SessionsHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionsHandlers{sessions: sessions, rates: rates, loc: loc, logger: logger}
}

// Open handles POST /sessions.
func (h *SessionsHandlers) Open(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plate     string `json:"plate"`
		Category  string `json:"category"`
		EntryTime string `json:"entry_time"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := parseTime("entry_time", req.EntryTime, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessions.Open(r.Context(), service.OpenSessionInput{
		Plate:     req.Plate,
		Category:  category,
		EntryTime: entry,
	})
	if err != nil {
		writeServiceError(w, h.logger, "open session", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /sessions/{id}.
func (h *SessionsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Active handles GET /sessions/active.
func (h *SessionsHandlers) Active(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.Active(r.Context(), r.URL.Query().Get("plate"))
	if err != nil {
		writeServiceError(w, h.logger, "list active sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// History handles GET /sessions/history.
func (h *SessionsHandlers) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseTime("from", q.Get("from"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseRangeEnd("to", q.Get("to"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	sessions, err := h.sessions.History(r.Context(), service.HistoryQuery{
		From:  from,
		To:    to,
		Plate: q.Get("plate"),
		Limit: limit,
	})
	if err != nil {
		writeServiceError(w, h.logger, "list history", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Quote handles GET /sessions/{id}/quote.
func (h *SessionsHandlers) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input, ok := h.closeInput(w, r.PathValue("id"), q.Get("entry_time"), q.Get("exit_time"), q.Get("category"))
	if !ok {
		return
	}
	quote, err := h.sessions.Quote(r.Context(), input, h.rates.Current())
	if err != nil {
		writeServiceError(w, h.logger, "quote session", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Close handles POST /sessions/{id}/close.
func (h *SessionsHandlers) Close(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryTime string `json:"entry_time"`
		ExitTime  string `json:"exit_time"`
		Category  string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, ok := h.closeInput(w, r.PathValue("id"), req.EntryTime, req.ExitTime, req.Category)
	if !ok {
		return
	}
	session, err := h.sessions.Close(r.Context(), input, h.rates.Current())
	if err != nil {
		writeServiceError(w, h.logger, "close session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *SessionsHandlers) closeInput(w http.ResponseWriter, id, rawEntry, rawExit, rawCategory string) (service.CloseSessionInput, bool) {
	entry, err := parseTime("entry_time", rawEntry, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.CloseSessionInput{}, false
	}
	exit, err := parseTime("exit_time", rawExit, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.CloseSessionInput{}, false
	}
	category, err := parseCategory(rawCategory)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return service.CloseSessionInput{}, false
	}
	return service.CloseSessionInput{ID: id, EntryTime: entry, ExitTime: exit, Category: category}, true
}

// Remove handles DELETE /sessions/{id}.
func (h *SessionsHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, "remove session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Purge handles DELETE /sessions.
func (h *SessionsHandlers) Purge(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.sessions.Purge(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "purge sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
