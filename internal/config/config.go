// Package config loads caloriepad configuration from an optional YAML file
// and CALORIEPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// DefaultConfigFile is looked up in the working directory when no file is given
var DefaultConfigFile = filepath.Join(storage.DataDirName, "config.yaml")

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	// Default: "warn"
	Level string `mapstructure:"level" yaml:"level"`

	// Encoding is console or json
	// Default: "console"
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// ZapLevel parses Level
func (c LogConfig) ZapLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Level)
}

// Validate checks if the configuration has valid values
func (c LogConfig) Validate() error {
	if _, err := c.ZapLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Encoding != "console" && c.Encoding != "json" {
		return fmt.Errorf("log.encoding must be 'console' or 'json' (got %q)", c.Encoding)
	}
	return nil
}

// Config wraps the entire caloriepad configuration
type Config struct {
	Storage storage.Config `mapstructure:"storage" yaml:"storage"`
	Remote  RemoteConfig   `mapstructure:"remote" yaml:"remote"`
	Search  SearchConfig   `mapstructure:"search" yaml:"search"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Storage: *storage.DefaultConfig(),
		Remote:  DefaultRemoteConfig(),
		Search:  DefaultSearchConfig(),
		Log:     LogConfig{Level: "warn", Encoding: "console"},
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// String returns a human-readable representation of the config. The
// Postgres password is never included.
func (c *Config) String() string {
	backend := c.Storage.Backend
	switch backend {
	case storage.BackendPostgres:
		if pg := c.Storage.Postgres; pg != nil {
			backend = fmt.Sprintf("postgres(%s@%s:%d/%s)", pg.User, pg.Host, pg.Port, pg.Database)
		}
	case storage.BackendSQLite:
		backend = fmt.Sprintf("sqlite(%s)", c.Storage.Path)
	}
	return fmt.Sprintf("Config{Storage: %s, %s, %s, Log: %s/%s}",
		backend, c.Remote, c.Search, c.Log.Level, c.Log.Encoding)
}

// Load loads the config from filePath, falling back to env vars if the file
// does not exist. Env vars that are set override values from the file. An
// empty filePath means DefaultConfigFile.
func Load(filePath string) (*Config, error) {
	if filePath == "" {
		filePath = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	setDefaults(v, DefaultConfig())

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", filePath, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	if pg := d.Storage.Postgres; pg != nil {
		v.SetDefault("storage.postgres.host", pg.Host)
		v.SetDefault("storage.postgres.port", pg.Port)
		v.SetDefault("storage.postgres.database", pg.Database)
		v.SetDefault("storage.postgres.user", pg.User)
		v.SetDefault("storage.postgres.sslmode", pg.SSLMode)
		v.SetDefault("storage.postgres.max_conns", pg.MaxConns)
		v.SetDefault("storage.postgres.min_conns", pg.MinConns)
		v.SetDefault("storage.postgres.max_conn_lifetime", pg.MaxConnLifetime)
		v.SetDefault("storage.postgres.max_conn_idle_time", pg.MaxConnIdleTime)
		v.SetDefault("storage.postgres.health_check", pg.HealthCheck)
	}

	v.SetDefault("remote.enabled", d.Remote.Enabled)
	v.SetDefault("remote.base_url", d.Remote.BaseURL)
	v.SetDefault("remote.user_agent", d.Remote.UserAgent)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("remote.page_size", d.Remote.PageSize)
	v.SetDefault("remote.max_retries", d.Remote.MaxRetries)
	v.SetDefault("remote.initial_backoff", d.Remote.InitialBackoff)
	v.SetDefault("remote.max_backoff", d.Remote.MaxBackoff)
	v.SetDefault("remote.circuit_failure_threshold", d.Remote.CircuitFailureThreshold)
	v.SetDefault("remote.circuit_success_threshold", d.Remote.CircuitSuccessThreshold)
	v.SetDefault("remote.circuit_open_timeout", d.Remote.CircuitOpenTimeout)
	v.SetDefault("remote.rate_limit", d.Remote.RateLimit)
	v.SetDefault("remote.rate_burst", d.Remote.RateBurst)

	v.SetDefault("search.min_query_length", d.Search.MinQueryLength)
	v.SetDefault("search.suggestion_limit", d.Search.SuggestionLimit)
	v.SetDefault("search.popular_limit", d.Search.PopularLimit)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
}

// envBindings maps config keys to the environment variables that can provide
// them. The first name wins when several are set.
var envBindings = map[string][]string{
	"storage.backend":            {"CALORIEPAD_STORAGE_BACKEND"},
	"storage.path":               {"CALORIEPAD_STORAGE_PATH", storage.DBPathEnv},
	"storage.postgres.host":      {"CALORIEPAD_PG_HOST"},
	"storage.postgres.port":      {"CALORIEPAD_PG_PORT"},
	"storage.postgres.database":  {"CALORIEPAD_PG_DATABASE"},
	"storage.postgres.user":      {"CALORIEPAD_PG_USER"},
	"storage.postgres.password":  {"CALORIEPAD_PG_PASSWORD"},
	"storage.postgres.sslmode":   {"CALORIEPAD_PG_SSLMODE"},
	"storage.postgres.max_conns": {"CALORIEPAD_PG_MAX_CONNS"},

	"remote.enabled":     {"CALORIEPAD_REMOTE_ENABLED"},
	"remote.base_url":    {"CALORIEPAD_REMOTE_BASE_URL"},
	"remote.timeout":     {"CALORIEPAD_REMOTE_TIMEOUT"},
	"remote.page_size":   {"CALORIEPAD_REMOTE_PAGE_SIZE"},
	"remote.max_retries": {"CALORIEPAD_REMOTE_MAX_RETRIES"},
	"remote.rate_limit":  {"CALORIEPAD_REMOTE_RATE_LIMIT"},

	"search.suggestion_limit": {"CALORIEPAD_SEARCH_SUGGESTION_LIMIT"},

	"log.level":    {"CALORIEPAD_LOG_LEVEL"},
	"log.encoding": {"CALORIEPAD_LOG_ENCODING"},
}

// bindEnvs binds the environment variables to the viper instance
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}
