package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/service"
)

// RatesHandlers reads and replaces the rate table.
type RatesHandlers struct {
	rates  *service.RatesService
	logger *zap.Logger
}

// NewRatesHandlers returns handler set.
func NewRatesHandlers(rates *service.RatesService, logger *zap.Logger) *RatesHandlers {
	return &RatesHandlers{rates: rates, logger: logger}
}

type rateEntry struct {
	Category   models.Category `json:"category"`
	Label      string          `json:"label"`
	HourlyRate float64         `json:"hourly_rate"`
}

// Get handles GET /rates.
func (h *RatesHandlers) Get(w http.ResponseWriter, r *http.Request) {
	table := h.rates.Current()
	out := make([]rateEntry, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, rateEntry{Category: c, Label: c.Label(), HourlyRate: table.Rate(c)})
	}
	writeJSON(w, http.StatusOK, out)
}

// Put handles PUT /rates with a full {"Carro": 10, ...} object. Keys may
// also be english labels.
func (h *RatesHandlers) Put(w http.ResponseWriter, r *http.Request) {
	var raw map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	table := make(models.RateTable, len(raw))
	for key, rate := range raw {
		c, err := models.ParseCategory(key)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		table[c] = rate
	}
	if err := h.rates.Save(r.Context(), table); err != nil {
		writeServiceError(w, h.logger, "save rates", err)
		return
	}
	h.Get(w, r)
}
