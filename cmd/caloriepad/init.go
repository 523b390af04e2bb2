package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/storage/sqlite"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a caloriepad database in the current directory",
	Long: `Initialize caloriepad by creating a .caloriepad/ directory with a database.

This creates:
  - .caloriepad/ directory
  - .caloriepad/<project-name>.db (SQLite database)

If no project name is provided, the current directory name is used.

Example:
  cd ~/food
  caloriepad init            # Creates .caloriepad/food.db
  caloriepad init diet       # Creates .caloriepad/diet.db`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		projectName := ""
		if len(args) > 0 {
			projectName = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			fail("failed to get current directory: %v", err)
		}

		path, err := storage.InitProject(cwd, projectName)
		if err != nil {
			fail("%v", err)
		}

		// Create the schema by opening the database once
		db, err := sqlite.New(path)
		if err != nil {
			fail("failed to initialize database: %v", err)
		}
		defer db.Close()

		projectName = strings.TrimSuffix(filepath.Base(path), ".db")
		if err := db.SetConfig(cmd.Context(), "project_name", projectName); err != nil {
			fail("failed to record project name: %v", err)
		}
		version, err := db.SchemaVersion(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized caloriepad\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(path))
		fmt.Printf("  Schema version: %d\n", version)
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("caloriepad settings set goal 2000"))
		fmt.Printf("  %s\n", gray("caloriepad add \"Banana\""))
		fmt.Printf("  %s\n", gray("caloriepad repl"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
