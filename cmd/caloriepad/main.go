package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caloriepad/caloriepad/internal/catalog"
	"github.com/caloriepad/caloriepad/internal/config"
	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/nutrition"
	"github.com/caloriepad/caloriepad/internal/search"
	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// annotationNoStore marks commands that run without opening the database
const annotationNoStore = "caloriepad/no-store"

var (
	// Global flags
	dbPath     string
	configPath string
	verbose    bool
	offline    bool

	cfg    *config.Config
	logger *zap.Logger

	store    *storage.Store
	foods    *catalog.Catalog
	remote   *nutrition.Searcher
	searcher *search.Service
	foodLog  *diary.Diary
)

var rootCmd = &cobra.Command{
	Use:   "caloriepad",
	Short: "Track daily calories from the terminal",
	Long: `caloriepad logs what you eat against a daily calorie goal.

Foods come from a bundled catalog, your own custom foods, and an online
nutrition database (Open Food Facts). Run 'caloriepad init' in a directory
to create a database there, or set CALORIEPAD_DB_PATH.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Storage.Backend = storage.BackendSQLite
			cfg.Storage.Path = dbPath
		}
		if offline {
			cfg.Remote.Enabled = false
		}

		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("loaded config", zap.Stringer("config", cfg))

		if cmd.Annotations[annotationNoStore] == "true" {
			return nil
		}
		return openApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
	},
}

// closeApp closes the store and flushes the logger. Safe to call more than
// once; fail calls it because os.Exit skips PersistentPostRun.
func closeApp() {
	if store != nil {
		if err := store.Close(); err != nil && logger != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
		store = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: discover .caloriepad/*.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .caloriepad/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Do not query the online food database")
}

// newLogger builds the stderr logger from the log config
func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	level, err := lc.ZapLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = lc.Encoding
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lc.Encoding == "console" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.DisableStacktrace = !verbose
	return zc.Build()
}

// openApp opens the store and wires the catalog, search and diary over it
func openApp(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	store, err = storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	foods = catalog.New(store, logger)

	var lookup nutrition.Lookup
	if cfg.Remote.Enabled {
		client, err := nutrition.NewClient(cfg.Remote, logger)
		if err != nil {
			return err
		}
		lookup = client
	}
	remote = nutrition.NewSearcher(lookup, logger)
	searcher = search.NewService(foods, remote, cfg.Search, logger)
	foodLog = diary.New(store, foods, searcher, logger, diary.WithRemote(remote.Enabled()))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeApp()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
