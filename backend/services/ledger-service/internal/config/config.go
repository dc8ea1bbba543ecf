package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parkledger/backend/libs/config"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config defines ledger service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" toml:"port" env:"LEDGER_HTTP_PORT"`
	} `yaml:"http" toml:"http"`
	// Timezone applies to timestamps sent without a UTC offset.
	Timezone string `yaml:"timezone" toml:"timezone" env:"LEDGER_TIMEZONE"`
	Storage  struct {
		Driver string `yaml:"driver" toml:"driver" env:"LEDGER_STORAGE_DRIVER"`
	} `yaml:"storage" toml:"storage"`
	Database struct {
		DSN         string `yaml:"dsn" toml:"dsn" env:"LEDGER_POSTGRES_DSN"`
		AutoMigrate bool   `yaml:"autoMigrate" toml:"autoMigrate" env:"LEDGER_AUTO_MIGRATE"`
		// MaxOpenConns and MaxIdleConns size the pool; zero keeps the driver defaults.
		MaxOpenConns int `yaml:"maxOpenConns" toml:"maxOpenConns" env:"LEDGER_POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns int `yaml:"maxIdleConns" toml:"maxIdleConns" env:"LEDGER_POSTGRES_MAX_IDLE_CONNS"`
	} `yaml:"database" toml:"database"`
	Mongo struct {
		URI      string `yaml:"uri" toml:"uri" env:"LEDGER_MONGO_URI"`
		Database string `yaml:"database" toml:"database" env:"LEDGER_MONGO_DATABASE"`
	} `yaml:"mongo" toml:"mongo"`
	Redis struct {
		Addr          string `yaml:"addr" toml:"addr" env:"LEDGER_REDIS_ADDR"`
		Password      string `yaml:"password" toml:"password" env:"LEDGER_REDIS_PASSWORD"`
		DB            int    `yaml:"db" toml:"db" env:"LEDGER_REDIS_DB"`
		LockTTLMillis int    `yaml:"lockTTLMillis" toml:"lockTTLMillis" env:"LEDGER_REDIS_LOCK_TTL_MS"`
	} `yaml:"redis" toml:"redis"`
	Auth struct {
		JWTSecret         string `yaml:"jwtSecret" toml:"jwtSecret" env:"LEDGER_JWT_SECRET"`
		AdminUser         string `yaml:"adminUser" toml:"adminUser" env:"LEDGER_ADMIN_USER"`
		AdminPasswordHash string `yaml:"adminPasswordHash" toml:"adminPasswordHash" env:"LEDGER_ADMIN_PASSWORD_HASH"`
		TokenTTLMinutes   int    `yaml:"tokenTTLMinutes" toml:"tokenTTLMinutes" env:"LEDGER_TOKEN_TTL_MINUTES"`
	} `yaml:"auth" toml:"auth"`
	History struct {
		Limit int `yaml:"limit" toml:"limit" env:"LEDGER_HISTORY_LIMIT"`
	} `yaml:"history" toml:"history"`
	WS struct {
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" toml:"writeTimeoutSeconds" env:"LEDGER_WS_WRITE_TIMEOUT"`
		PingIntervalSeconds int `yaml:"pingIntervalSeconds" toml:"pingIntervalSeconds" env:"LEDGER_WS_PING_INTERVAL"`
	} `yaml:"ws" toml:"ws"`
}

func defaults() *Config {
	cfg := &Config{Timezone: "UTC"}
	cfg.HTTP.Port = "8085"
	cfg.Storage.Driver = DriverPostgres
	cfg.Mongo.Database = "estacionamento"
	cfg.Redis.LockTTLMillis = 5000
	cfg.Auth.AdminUser = "admin"
	cfg.Auth.TokenTTLMinutes = 60
	cfg.History.Limit = 50
	cfg.WS.WriteTimeoutSeconds = 10
	cfg.WS.PingIntervalSeconds = 30
	return cfg
}

// Read loads defaults, the optional config file and env overrides, and
// checks only what every entry point needs: a usable storage backend.
func Read() (*Config, error) {
	cfg := defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch cfg.Storage.Driver {
	case DriverPostgres:
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return nil, errors.New("config: database dsn required for postgres storage")
		}
	case DriverMongo:
		if strings.TrimSpace(cfg.Mongo.URI) == "" {
			return nil, errors.New("config: mongo uri required for mongo storage")
		}
		if strings.TrimSpace(cfg.Mongo.Database) == "" {
			return nil, errors.New("config: mongo database required")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown storage driver %q", cfg.Storage.Driver)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration for the HTTP service.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8085"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// LockTTL converts the plate lock ttl to duration.
func (c *Config) LockTTL() time.Duration {
	if c.Redis.LockTTLMillis <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Redis.LockTTLMillis) * time.Millisecond
}

// TokenTTL converts configured expiry to duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// WriteTimeout bounds each websocket write.
func (c *Config) WriteTimeout() time.Duration {
	if c.WS.WriteTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WS.WriteTimeoutSeconds) * time.Second
}

// PingInterval is how often dashboards are pinged.
func (c *Config) PingInterval() time.Duration {
	if c.WS.PingIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.WS.PingIntervalSeconds) * time.Second
}
