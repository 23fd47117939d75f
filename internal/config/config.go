// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults so a bare `castdb serve` runs against SQLite.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are mapped onto koanf keys through envKeys. Two variables keep
	their historical, unprefixed names (DATABASE_URL and PORT) because hosting
	platforms inject them; everything else lives under the CASTDB_ prefix.

	Nested struct fields are addressed with "." as the delimiter, e.g.
	CASTDB_SERVER_READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix shared by every castdb-specific env var.
const EnvPrefix = "CASTDB_"

// envKeys maps env var names to koanf keys. Anything not listed is ignored.
var envKeys = map[string]string{
	"DATABASE_URL": "database.url",
	"PORT":         "server.port",

	EnvPrefix + "ENV": "primary.env",

	EnvPrefix + "SERVER_READ_TIMEOUT":         "server.read_timeout",
	EnvPrefix + "SERVER_WRITE_TIMEOUT":        "server.write_timeout",
	EnvPrefix + "SERVER_IDLE_TIMEOUT":         "server.idle_timeout",
	EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS": "server.cors_allowed_origins",
	EnvPrefix + "SERVER_RATE_LIMIT":           "server.rate_limit",

	EnvPrefix + "DATABASE_MAX_OPEN_CONNS":     "database.max_open_conns",
	EnvPrefix + "DATABASE_MAX_IDLE_CONNS":     "database.max_idle_conns",
	EnvPrefix + "DATABASE_CONN_MAX_LIFETIME":  "database.conn_max_lifetime",
	EnvPrefix + "DATABASE_CONN_MAX_IDLE_TIME": "database.conn_max_idle_time",

	EnvPrefix + "LOG_LEVEL":                "observability.logging.level",
	EnvPrefix + "LOG_FORMAT":               "observability.logging.format",
	EnvPrefix + "LOG_SLOW_QUERY_THRESHOLD": "observability.logging.slow_query_threshold",

	EnvPrefix + "NEW_RELIC_LICENSE_KEY":                 "observability.new_relic.license_key",
	EnvPrefix + "NEW_RELIC_APP_LOG_FORWARDING_ENABLED":  "observability.new_relic.app_log_forwarding_enabled",
	EnvPrefix + "NEW_RELIC_DISTRIBUTED_TRACING_ENABLED": "observability.new_relic.distributed_tracing_enabled",
	EnvPrefix + "NEW_RELIC_DEBUG_LOGGING":               "observability.new_relic.debug_logging",
}

// listKeys are split on commas before unmarshalling.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary"`
	Server        ServerConfig         `koanf:"server"`
	Database      DatabaseConfig       `koanf:"database"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig holds the connection string and pool tuning.
//
// URL accepts postgres://, postgresql:// and sqlite:// schemes, see
// database.ParseURL. Lifetimes are whole seconds.
type DatabaseConfig struct {
	URL             string `koanf:"url" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// DefaultConfig returns the configuration used when no env var overrides a
// value: port 3000 and a SQLite file under /tmp.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			URL:             "sqlite:////tmp/test.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load reads the environment, unmarshals it over DefaultConfig, validates the
// result and returns it.
//
// Behavior summary:
//   - Loads the env vars listed in envKeys; empty values count as unset
//   - Splits list-valued keys on commas
//   - Unmarshals into Config on top of the defaults
//   - Validates struct tags and the observability block
//   - Forces the observability service name and environment
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		if listKeys[mapped] {
			return mapped, splitList(value)
		}
		return mapped, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env so logs
	// and traces agree.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
