package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Studioflow"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Timezone string `envconfig:"APP_TIMEZONE" default:"Local"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		// LogFormat is text, json or auto (json unless stderr is a terminal).
		LogFormat string `envconfig:"LOG_FORMAT" default:"auto"`
	}

	DB struct {
		Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER" default:"postgres"`
		Password   string `envconfig:"DB_PASSWORD" default:""`
		Name       string `envconfig:"DB_NAME" default:"studioflow"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"studioflow.db"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Auth struct {
		// Empty secret means identities come from the X-User-ID header set by the gateway.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	Scheduler struct {
		RunOnStart       bool          `envconfig:"SCHEDULER_RUN_ON_START" default:"true"`
		FallbackInterval time.Duration `envconfig:"SCHEDULER_FALLBACK_INTERVAL" default:"24h"`
		ErrorBackoff     time.Duration `envconfig:"SCHEDULER_ERROR_BACKOFF" default:"1h"`
		RunTimeout       time.Duration `envconfig:"SCHEDULER_RUN_TIMEOUT" default:"2m"`
	}

	Retry struct {
		Attempts  int           `envconfig:"STORE_RETRY_ATTEMPTS" default:"3"`
		BaseDelay time.Duration `envconfig:"STORE_RETRY_BASE_DELAY" default:"100ms"`
	}
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == DriverSQLite {
		return c.DB.SQLitePath
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location resolves the timezone deadlines are evaluated in.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || strings.EqualFold(c.App.Timezone, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.App.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.Retry.Attempts < 1 {
		cfg.Retry.Attempts = 1
	}

	return &cfg, nil
}
