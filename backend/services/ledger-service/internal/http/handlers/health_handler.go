package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// StoragePinger reports whether the storage backend answers.
type StoragePinger interface {
	Driver() string
	Ping(ctx context.Context) error
}

// NewHealthHandler returns GET /health handler. It answers 503 while the
// storage backend is unreachable.
func NewHealthHandler(storage StoragePinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			logger.Warn("storage ping failed", zap.String("driver", storage.Driver()), zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"storage": storage.Driver(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": storage.Driver()})
	}
}
