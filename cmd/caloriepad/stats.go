package main

import (
	"fmt"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/storage/sqlite"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	Long:  `Show how many keys are stored, by category, and their approximate size.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		stats, err := store.Stats(ctx)
		if err != nil {
			fail("%v", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Storage ==="))
		fmt.Printf("  Backend:   %s\n", cfg.Storage.Backend)
		if db, ok := store.Backend().(*sqlite.SQLiteStorage); ok {
			fmt.Printf("  Database:  %s\n", db.Path())
			if version, err := db.SchemaVersion(ctx); err == nil {
				fmt.Printf("  Schema:    v%d\n", version)
			}
			if name, err := db.GetConfig(ctx, "project_name"); err == nil && name != "" {
				fmt.Printf("  Project:   %s\n", name)
			}
		}
		fmt.Printf("  Keys:      %s\n", formatNumber(stats.TotalKeys))
		fmt.Printf("  Size:      %s\n", formatBytes(stats.ApproximateSize))
		fmt.Println()

		for _, category := range []string{
			storage.StatsEntries, storage.StatsFoods, storage.StatsFavorites,
			storage.StatsSettings, storage.StatsHealth, storage.StatsOther,
		} {
			n := stats.KeysByCategory[category]
			if n == 0 {
				fmt.Printf("  %-10s %s\n", category, gray("0"))
				continue
			}
			fmt.Printf("  %-10s %d\n", category, n)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
