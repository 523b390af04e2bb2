package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Manage the local food catalog",
	Long:  `List, add and edit the foods in your local catalog (bundled foods plus your own).`,
}

var foodsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the local catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		category, _ := cmd.Flags().GetString("category")

		var (
			list []types.FoodItem
			err  error
		)
		if category != "" {
			list, err = foods.ByCategory(cmd.Context(), types.Category(category))
		} else {
			list, err = foods.All(cmd.Context())
		}
		if err != nil {
			fail("%v", err)
		}
		printFoods(os.Stdout, list)
	},
}

var foodsAddCmd = &cobra.Command{
	Use:   "add <name> <calories>",
	Short: "Add a custom food",
	Long: `Add a custom food to your catalog. A custom food with the same name as a
bundled food replaces it.

Example:
  caloriepad foods add "Protein Pancakes" 320 --serving "3 pancakes"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		food := foodFromArgs(cmd, args)
		added, err := foods.AddCustomFood(cmd.Context(), food)
		if err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %s (%s)\n", green("✓"), added.Name, added.ID)
	},
}

var foodsUpdateCmd = &cobra.Command{
	Use:   "update <name> <calories>",
	Short: "Change a food's calories",
	Long: `Store a food in your catalog, replacing the food with the same name.
Editing a bundled food creates your own copy of it.

Example:
  caloriepad foods update Banana 120`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		food := foodFromArgs(cmd, args)

		// Keep the existing serving and category unless overridden
		if existing, err := foods.ByName(ctx, food.Name); err == nil {
			if !cmd.Flags().Changed("serving") {
				food.ServingSize = existing.ServingSize
			}
			if !cmd.Flags().Changed("category") {
				food.Category = existing.Category
			}
			food.ID = existing.ID
			food.CreatedAt = existing.CreatedAt
		}

		updated, err := foods.UpdateFood(ctx, food)
		if err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated %s: %d cal per %s\n", green("✓"), updated.Name, updated.CaloriesPerServing, updated.ServingSize)
	},
}

var foodsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalog grouped by category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		groups, err := foods.Categorized(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		for _, category := range types.Categories {
			fmt.Printf("\n%s\n", cyan(fmt.Sprintf("%s (%d)", category, len(groups[category]))))
			printFoods(os.Stdout, groups[category])
		}
		fmt.Println()
	},
}

var foodsPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular foods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Search.PopularLimit
		}
		list, err := foods.Popular(cmd.Context(), limit)
		if err != nil {
			fail("%v", err)
		}
		printFoods(os.Stdout, list)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List foods logged recently",
	Long:  `List the distinct foods logged over the last days, most recent first.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := foodLog.RecentFoods(cmd.Context(), days, limit)
		if err != nil {
			fail("%v", err)
		}
		printFoods(os.Stdout, list)
	},
}

// foodFromArgs builds a food from "<name> <calories>" and the food flags
func foodFromArgs(cmd *cobra.Command, args []string) types.FoodItem {
	calories, err := strconv.Atoi(args[1])
	if err != nil || calories < 0 {
		fail("invalid calories %q", args[1])
	}
	serving, _ := cmd.Flags().GetString("serving")
	category, _ := cmd.Flags().GetString("category")

	return types.FoodItem{
		Name:               args[0],
		CaloriesPerServing: calories,
		ServingSize:        serving,
		Category:           types.Category(category),
	}
}

func init() {
	rootCmd.AddCommand(foodsCmd)
	foodsCmd.AddCommand(foodsListCmd, foodsAddCmd, foodsUpdateCmd, foodsCategoriesCmd, foodsPopularCmd)

	foodsListCmd.Flags().String("category", "", "Only list this category (food, drink, snack)")
	for _, c := range []*cobra.Command{foodsAddCmd, foodsUpdateCmd} {
		c.Flags().String("serving", "1 serving", "Serving size")
		c.Flags().String("category", string(types.CategoryFood), "Category (food, drink, snack)")
	}
	foodsPopularCmd.Flags().Int("limit", 0, "Number of foods (default from config)")

	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().Int("days", diary.DefaultRecentDays, "Days to look back")
	recentCmd.Flags().Int("limit", diary.DefaultRecentLimit, "Maximum foods")
}
