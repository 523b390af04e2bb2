package storage

import (
	"context"
	"fmt"

	"github.com/caloriepad/caloriepad/internal/storage/memory"
	"github.com/caloriepad/caloriepad/internal/storage/postgres"
	"github.com/caloriepad/caloriepad/internal/storage/sqlite"
)

// Backend is a flat key-value store holding JSON documents
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Update runs a read-modify-write cycle on one key atomically.
	// Returning a nil value deletes the key.
	Update(ctx context.Context, key string, fn func(old []byte, exists bool) ([]byte, error)) error

	Clear(ctx context.Context) error
	Close() error
}

// Backend kinds
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var (
	_ Backend = (*sqlite.SQLiteStorage)(nil)
	_ Backend = (*postgres.PostgresStorage)(nil)
	_ Backend = (*memory.Store)(nil)
)

// Config holds database configuration
type Config struct {
	// Backend is one of sqlite, postgres or memory
	// Default: "sqlite"
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the SQLite database file path
	// Empty means discover (see DiscoverDatabase)
	// Special value ":memory:" creates an in-memory SQLite database
	Path string `mapstructure:"path" yaml:"path"`

	// Postgres is used when Backend is postgres
	Postgres *postgres.Config `mapstructure:"postgres" yaml:"postgres"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendSQLite,
		Postgres: postgres.DefaultConfig(),
	}
}

// Validate checks the backend selection
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendPostgres, BackendMemory:
		return nil
	}
	return fmt.Errorf("storage backend must be sqlite, postgres or memory (got %q)", c.Backend)
}

// NewBackend opens the configured backend
func NewBackend(ctx context.Context, cfg *Config) (Backend, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendPostgres:
		return postgres.New(ctx, cfg.Postgres)
	default:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = DiscoverDatabase(); err != nil {
				return nil, err
			}
		}
		return sqlite.New(path)
	}
}

// NewStorage opens the configured backend and wraps it in a Store
func NewStorage(ctx context.Context, cfg *Config) (*Store, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}
