package httpserver

import (
	"net/http"

	"parkledger/backend/services/ledger-service/internal/http/handlers"
	"parkledger/backend/services/ledger-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Login    http.HandlerFunc
	Health   http.HandlerFunc
	Sessions *handlers.SessionsHandlers
	Rates    *handlers.RatesHandlers
	Reports  *handlers.ReportsHandlers
	Events   http.HandlerFunc
}

// NewRouter wires HTTP routes. Routes that change or wipe data behind an
// operator decision go through adminOnly.
func NewRouter(deps RouterDeps, adminOnly func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	admin := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, adminOnly)
	}

	mux.HandleFunc("GET /health", deps.Health)
	mux.HandleFunc("POST /auth/login", deps.Login)

	mux.HandleFunc("POST /sessions", deps.Sessions.Open)
	mux.HandleFunc("GET /sessions/active", deps.Sessions.Active)
	mux.HandleFunc("GET /sessions/history", deps.Sessions.History)
	mux.HandleFunc("GET /sessions/{id}", deps.Sessions.Get)
	mux.HandleFunc("GET /sessions/{id}/quote", deps.Sessions.Quote)
	mux.HandleFunc("POST /sessions/{id}/close", deps.Sessions.Close)
	mux.Handle("DELETE /sessions/{id}", admin(deps.Sessions.Remove))
	mux.Handle("DELETE /sessions", admin(deps.Sessions.Purge))

	mux.HandleFunc("GET /rates", deps.Rates.Get)
	mux.Handle("PUT /rates", admin(deps.Rates.Put))

	mux.HandleFunc("GET /reports/revenue", deps.Reports.Revenue)

	if deps.Events != nil {
		mux.HandleFunc("GET /ws/events", deps.Events)
	}
	return mux
}
