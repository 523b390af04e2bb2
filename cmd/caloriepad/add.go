package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/repl"
	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> [calories]",
	Short: "Log a food",
	Long: `Log a food by name.

Without calories the food must already exist (in your foods, the bundled
catalog or the online database) and its calories are used.

With calories:
  - an unknown name becomes a new custom food
  - a local food with different calories is updated
  - an online food with different calories is logged with your value
    for this entry only

Example:
  caloriepad add Banana
  caloriepad add "Grandma's Soup" 210 --qty 2
  caloriepad add Latte 190 --notes "oat milk" --at "2025-03-14 08:30"`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		quantity, _ := cmd.Flags().GetFloat64("qty")
		notes, _ := cmd.Flags().GetString("notes")
		atFlag, _ := cmd.Flags().GetString("at")

		at, err := parseAt(atFlag)
		if err != nil {
			fail("%v", err)
		}

		var calories int
		if len(args) == 2 {
			calories, err = strconv.Atoi(args[1])
			if err != nil || calories < 0 {
				fail("invalid calories %q", args[1])
			}
		} else {
			food, err := searcher.FindExact(ctx, args[0], remote.Enabled())
			if errors.Is(err, storage.ErrNotFound) {
				fail("unknown food %q: give its calories to create it", args[0])
			} else if err != nil {
				fail("%v", err)
			}
			calories = food.CaloriesPerServing
		}

		res, err := foodLog.QuickAdd(ctx, diary.QuickAddRequest{
			Name:     args[0],
			Calories: calories,
			Quantity: quantity,
			Notes:    notes,
			At:       at,
		})
		if err != nil {
			fail("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		e := res.Entry
		fmt.Printf("%s Logged %s x%g (%s cal)\n", green("✓"), e.FoodItem.Name, e.Quantity, formatNumber(e.TotalCalories))
		switch {
		case res.Created:
			fmt.Printf("  %s\n", gray("Created custom food "+e.FoodItem.ID))
		case res.Updated:
			fmt.Printf("  %s\n", gray(fmt.Sprintf("Updated %s to %d cal", e.FoodItem.Name, e.FoodItem.CaloriesPerServing)))
		case res.Overridden:
			fmt.Printf("  %s\n", gray("Calories overridden for this entry"))
		}

		progress, err := foodLog.Progress(ctx, e.Day())
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("  %s\n", repl.FormatProgress(progress))
	},
}

// parseAt parses --at as a local "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" time
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			if layout == "2006-01-02" {
				t = t.Add(12 * time.Hour)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD HH:MM)", s)
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Float64("qty", 1, "Number of servings (at least 1)")
	addCmd.Flags().String("notes", "", "Notes for the entry")
	addCmd.Flags().String("at", "", "When it was eaten, YYYY-MM-DD HH:MM (default now)")
}
