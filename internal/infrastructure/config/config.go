package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the gateway's configuration.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
}

// BackendConfig locates the backend API. The base URL has no default.
type BackendConfig struct {
	URL               string `env:"BACKEND_URL, required"`
	RequestTimeoutMS  int    `env:"REQUEST_TIMEOUT_MS,  default=10000"`
	LicenseTenantPath string `env:"LICENSE_TENANT_PATH, default=/license/partner/{id}"`
}

// RequestTimeout is the bound applied to GET calls.
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutMS) * time.Millisecond
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// ConsoleConfig is the console CLI's configuration.
type ConsoleConfig struct {
	GatewayURL   string `env:"CONSOLE_GATEWAY_URL,   default=http://localhost:8080/api"`
	SessionStore string `env:"CONSOLE_SESSION_STORE, default=file"`
	SessionFile  string `env:"CONSOLE_SESSION_FILE"`
	Profile      string `env:"CONSOLE_PROFILE,       default=default"`
	LogLevel     string `env:"LOG_LEVEL,             default=warn"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=license_console"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Session store kinds accepted by CONSOLE_SESSION_STORE.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Load reads the gateway configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the gateway configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.Backend.URL)
	}
	if c.Backend.RequestTimeoutMS <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be positive, got %d", c.Backend.RequestTimeoutMS)
	}
	if !strings.Contains(c.Backend.LicenseTenantPath, "{id}") {
		return fmt.Errorf("LICENSE_TENANT_PATH must contain {id}, got %q", c.Backend.LicenseTenantPath)
	}
	return nil
}

// LoadConsole reads the console configuration from the environment.
func LoadConsole(ctx context.Context) (*ConsoleConfig, error) {
	return LoadConsoleWith(ctx, envconfig.OsLookuper())
}

// LoadConsoleWith reads the console configuration from l.
func LoadConsoleWith(ctx context.Context, l envconfig.Lookuper) (*ConsoleConfig, error) {
	var cfg ConsoleConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load console config: %w", err)
	}
	switch cfg.SessionStore {
	case StoreFile, StoreMemory, StoreRedis, StoreMongo:
	default:
		return nil, fmt.Errorf("CONSOLE_SESSION_STORE must be one of file, memory, redis, mongo; got %q", cfg.SessionStore)
	}
	return &cfg, nil
}
