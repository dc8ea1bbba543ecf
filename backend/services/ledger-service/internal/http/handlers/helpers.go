package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/billing"
	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body")
	}
	return nil
}

// parseTime returns the zero time for empty input.
func parseTime(name, raw string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := billing.ParseTimestamp(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return t, nil
}

// parseRangeEnd treats a bare date as the whole day.
func parseRangeEnd(name, raw string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := billing.ParseRangeEnd(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return t, nil
}

// parseCategory returns "" for empty input.
func parseCategory(raw string) (models.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return models.ParseCategory(raw)
}
