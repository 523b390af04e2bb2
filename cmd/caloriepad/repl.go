package main

import (
	"path/filepath"

	"github.com/caloriepad/caloriepad/internal/repl"
	"github.com/caloriepad/caloriepad/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive quick-add shell",
	Long: `Start an interactive shell for searching and logging foods.

Type a food name to search, 'add #2' to log a search result, or
'add <name> <calories> [qty]' to log by name. Type 'help' in the shell for
all commands.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		historyFile := ""
		if db, ok := store.Backend().(*sqlite.SQLiteStorage); ok && db.Path() != sqlite.MemoryPath {
			historyFile = filepath.Join(filepath.Dir(db.Path()), "repl_history")
		}

		r, err := repl.New(&repl.Config{
			Store:         store,
			Catalog:       foods,
			Search:        searcher,
			Diary:         foodLog,
			IncludeRemote: remote.Enabled(),
			HistoryFile:   historyFile,
			Logger:        logger,
		})
		if err != nil {
			fail("failed to create REPL: %v", err)
		}

		if err := r.Run(cmd.Context()); err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
