package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"parkledger/backend/libs/db"
	libmongo "parkledger/backend/libs/mongo"
	appconfig "parkledger/backend/services/ledger-service/internal/config"
	"parkledger/backend/services/ledger-service/internal/repository"
	"parkledger/backend/services/ledger-service/internal/repository/memstore"
	"parkledger/backend/services/ledger-service/internal/repository/mongostore"
	"parkledger/backend/services/ledger-service/internal/service"
)

// Stores is the storage backend selected by configuration.
type Stores struct {
	Sessions service.SessionStore
	Prices   service.PriceConfigStore

	driver  string
	sqlDB   *sql.DB
	mongo   *mongo.Client
	indexer *mongostore.SessionStore
	logger  *zap.Logger
}

// OpenStores connects to the configured backend. With autoMigrate set the
// schema or indexes are created before returning.
func OpenStores(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*Stores, error) {
	s := &Stores{driver: cfg.Storage.Driver, logger: logger}

	switch cfg.Storage.Driver {
	case appconfig.DriverPostgres:
		sqlDB, err := db.NewPostgresDB(ctx, cfg.Database.DSN, db.PoolOptions{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.sqlDB = sqlDB
		s.Sessions = repository.NewSessionRepository(sqlDB, logger)
		s.Prices = repository.NewPriceConfigRepository(sqlDB)
	case appconfig.DriverMongo:
		client, err := libmongo.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		s.mongo = client
		database := client.Database(cfg.Mongo.Database)
		sessions := mongostore.NewSessionStore(database, logger)
		s.indexer = sessions
		s.Sessions = sessions
		s.Prices = mongostore.NewPriceConfigStore(database)
	case appconfig.DriverMemory:
		store := memstore.New()
		s.Sessions = store
		s.Prices = store
		logger.Warn("using in-memory storage, data is lost on exit")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Database.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// Migrate creates tables or indexes, including the one-parked-session-per-plate constraint.
func (s *Stores) Migrate(ctx context.Context) error {
	switch {
	case s.sqlDB != nil:
		if err := repository.EnsureSchema(ctx, s.sqlDB); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	case s.indexer != nil:
		if err := s.indexer.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("migrate mongo: %w", err)
		}
	default:
		return nil
	}
	s.logger.Info("storage schema ensured", zap.String("driver", s.driver))
	return nil
}

// Driver names the selected backend.
func (s *Stores) Driver() string {
	return s.driver
}

// Ping checks that the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.PingContext(ctx)
	case s.mongo != nil:
		return s.mongo.Ping(ctx, nil)
	default:
		return nil
	}
}

// Close releases connections.
func (s *Stores) Close(ctx context.Context) {
	if s.sqlDB != nil {
		if err := s.sqlDB.Close(); err != nil {
			s.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			s.logger.Warn("failed to disconnect mongo", zap.Error(err))
		}
	}
}
