package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appconfig "parkledger/backend/services/ledger-service/internal/config"
	"parkledger/backend/services/ledger-service/internal/repository/memstore"
)

func memoryConfig() *appconfig.Config {
	cfg := &appconfig.Config{}
	cfg.Storage.Driver = appconfig.DriverMemory
	cfg.Auth.JWTSecret = "secret"
	cfg.Database.AutoMigrate = true
	return cfg
}

func TestOpenStoresMemory(t *testing.T) {
	stores, err := OpenStores(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer stores.Close(context.Background())

	assert.IsType(t, &memstore.Store{}, stores.Sessions)
	assert.NoError(t, stores.Migrate(context.Background()))
}

func TestOpenStoresUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"
	_, err := OpenStores(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewWiresRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis.Addr = mr.Addr()

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.redis)
	assert.NotNil(t, a.server)
}

func TestNewWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.redis)
}
