package app

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "parkledger/backend/libs/redis"
	appconfig "parkledger/backend/services/ledger-service/internal/config"
	httpserver "parkledger/backend/services/ledger-service/internal/http"
	"parkledger/backend/services/ledger-service/internal/http/handlers"
	"parkledger/backend/services/ledger-service/internal/http/middleware"
	"parkledger/backend/services/ledger-service/internal/password"
	redisstore "parkledger/backend/services/ledger-service/internal/redis"
	"parkledger/backend/services/ledger-service/internal/service"
	"parkledger/backend/services/ledger-service/internal/ws"
)

// App wires dependencies for the ledger service.
type App struct {
	server *httpserver.Server
	hub    *ws.Hub
	stores *Stores
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{stores: stores, logger: logger}

	var locker service.PlateLocker
	if cfg.RedisEnabled() {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		locker = redisstore.NewPlateLocker(client, cfg.LockTTL(), logger)
	} else {
		logger.Info("redis not configured, plate locks are process local")
		locker = service.NewLocalPlateLocker()
	}

	hub := ws.NewHub(cfg.PingInterval(), logger)
	a.hub = hub

	ratesSvc := service.NewRatesService(stores.Prices, hub, logger)
	if _, err := ratesSvc.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	sessionsSvc := service.NewSessionsService(stores.Sessions, logger, service.SessionsOptions{
		Locker:       locker,
		Events:       hub,
		HistoryLimit: cfg.History.Limit,
	})
	reportSvc := service.NewReportService(stores.Sessions, logger)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authSvc := service.NewAuthService(service.AdminCredentials{
		Username:     cfg.Auth.AdminUser,
		PasswordHash: cfg.Auth.AdminPasswordHash,
	}, hasher, tokenSvc, logger)
	if cfg.Auth.AdminPasswordHash == "" {
		logger.Warn("admin password hash not configured, admin routes are unreachable")
	}

	wsServer := ws.NewServer(hub, cfg.WriteTimeout(), logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Login:    handlers.NewLoginHandler(authSvc, logger),
		Health:   handlers.NewHealthHandler(stores, logger),
		Sessions: handlers.NewSessionsHandlers(sessionsSvc, ratesSvc, loc, logger),
		Rates:    handlers.NewRatesHandlers(ratesSvc, logger),
		Reports:  handlers.NewReportsHandlers(reportSvc, loc, logger),
		Events:   wsServer.HandleWS,
	}, middleware.RequireRole(tokenSvc, service.RoleAdmin))

	a.server = httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.LoggingMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
	)
	return a, nil
}

// Run starts the dashboard hub and serves HTTP until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Start(ctx)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.stores != nil {
		a.stores.Close(ctx)
	}
}
