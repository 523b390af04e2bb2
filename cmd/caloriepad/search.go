package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caloriepad/caloriepad/internal/search"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the food catalog and the online food database",
	Long: `Search foods by name or category. Your own and bundled foods are listed
first; online results with the same name are dropped.

Queries need more than 2 characters.

Example:
  caloriepad search banana
  caloriepad search choc --category snack --limit 20
  caloriepad search oat --local`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")
		local, _ := cmd.Flags().GetBool("local")
		asJSON, _ := cmd.Flags().GetBool("json")

		query := strings.Join(args, " ")
		if err := searcher.CheckQuery(query); err != nil {
			fail("%v", err)
		}

		results, err := searcher.Search(cmd.Context(), search.Query{
			Text:          query,
			Category:      types.Category(category),
			Limit:         limit,
			IncludeRemote: !local && remote.Enabled(),
		})
		if err != nil {
			fail("%v", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				fail("%v", err)
			}
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("Results for %q (%d)", query, len(results))))
		printFoods(os.Stdout, results)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("category", "", "Only show foods of this category (food, drink, snack)")
	searchCmd.Flags().Int("limit", 0, "Maximum results (default from config, -1 for all)")
	searchCmd.Flags().Bool("local", false, "Only search the local catalog")
	searchCmd.Flags().Bool("json", false, "Print results as JSON")
}
