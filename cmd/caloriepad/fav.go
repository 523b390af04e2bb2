package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite foods",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite foods",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		list, err := foods.Favorites(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		printFoods(os.Stdout, list)
	},
}

var favAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Mark a food as favorite",
	Long: `Mark a food as favorite. The name is matched exactly (ignoring case)
against your foods, the bundled catalog and the online database.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		food, err := searcher.FindExact(ctx, args[0], remote.Enabled())
		if err != nil {
			fail("%v", err)
		}
		if err := foods.AddFavorite(ctx, *food); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s is a favorite\n", green("✓"), food.Name)
	},
}

var favRemoveCmd = &cobra.Command{
	Use:     "remove <id-or-name>",
	Aliases: []string{"rm"},
	Short:   "Unmark a favorite food",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		id := args[0]

		err := foods.RemoveFavorite(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			// Fall back to matching by name
			if food, ferr := foods.ByName(ctx, id); ferr == nil {
				err = foods.RemoveFavorite(ctx, food.ID)
			}
		}
		if err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Removed %s from favorites\n", green("✓"), id)
	},
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <name>",
	Short: "Flip whether a food is a favorite",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		food, err := searcher.FindExact(ctx, args[0], remote.Enabled())
		if err != nil {
			fail("%v", err)
		}
		on, err := foods.ToggleFavorite(ctx, *food)
		if err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		if on {
			fmt.Printf("%s %s is a favorite\n", green("✓"), food.Name)
		} else {
			fmt.Printf("%s Removed %s from favorites\n", green("✓"), food.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(favCmd)
	favCmd.AddCommand(favListCmd, favAddCmd, favRemoveCmd, favToggleCmd)
}
