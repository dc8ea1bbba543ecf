package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/service"
)

// ReportsHandlers serves revenue reports.
type ReportsHandlers struct {
	reports *service.ReportService
	loc     *time.Location
	logger  *zap.Logger
}

// NewReportsHandlers returns handler set.
func NewReportsHandlers(reports *service.ReportService, loc *time.Location, logger *zap.Logger) *ReportsHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandlers{reports: reports, loc: loc, logger: logger}
}

// Revenue handles GET /reports/revenue?from=&to=. A bare date in to covers that whole day.
func (h *ReportsHandlers) Revenue(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.reports.Revenue(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, h.logger, "revenue report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
