// scripts/import-legacy.go - Manual import of the legacy custom food list
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caloriepad/caloriepad/internal/storage"
)

func main() {
	ctx := context.Background()

	// Use default config to find database
	cfg := storage.DefaultConfig()

	// Allow override via environment variable
	if dbPath := os.Getenv(storage.DBPathEnv); dbPath != "" {
		cfg.Path = dbPath
	}

	store, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Println("Importing legacy custom foods...")

	imported, skipped, err := store.MigrateLegacyFoods(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Imported %d foods (%d skipped: duplicate, invalid or missing id)\n", imported, skipped)
}
