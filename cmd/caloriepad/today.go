package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's log and goal progress",
	Long: `Show the foods logged on a day with consumed, burned and net calories
and progress toward the daily goal.

Example:
  caloriepad today
  caloriepad today --date 2025-03-14`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		date, _ := cmd.Flags().GetString("date")
		asJSON, _ := cmd.Flags().GetBool("json")
		if date == "" {
			date = types.DayKey(time.Now())
		}

		day, err := foodLog.Day(ctx, date)
		if err != nil {
			fail("%v", err)
		}
		progress, err := foodLog.Progress(ctx, date)
		if err != nil {
			fail("%v", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				*types.DayData
				Progress *types.GoalProgress `json:"progress"`
			}{day, progress}); err != nil {
				fail("%v", err)
			}
			return
		}

		printDay(os.Stdout, day, progress)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily totals for past days",
	Long: `Show one line per logged day with consumed, burned and net calories.

Example:
  caloriepad history              # Last 7 days
  caloriepad history --days 30
  caloriepad history --from 2025-03-01 --to 2025-03-14`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		days, _ := cmd.Flags().GetInt("days")

		from, to = historyRange(from, to, days, time.Now())
		history, err := foodLog.History(cmd.Context(), from, to)
		if err != nil {
			fail("%v", err)
		}
		settings, err := store.Settings(cmd.Context())
		if err != nil {
			fail("%v", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== History ==="))
		if len(history) == 0 {
			fmt.Printf("  %s\n\n", gray("No days logged"))
			return
		}

		total := 0
		for _, day := range history {
			mark := green("✓")
			if diary.ComputeProgress(day.TotalCaloriesConsumed, settings.DailyCalorieGoal).OverGoal {
				mark = red("✗")
			}
			fmt.Printf("  %s %s  %6s cal  burned %5s  net %6s  %s\n", mark, day.Date,
				formatNumber(day.TotalCaloriesConsumed), formatNumber(day.TotalCaloriesBurned),
				formatNumber(day.NetCalories), gray(fmt.Sprintf("%d entries", len(day.Entries))))
			total += day.TotalCaloriesConsumed
		}
		fmt.Printf("\n  Average: %s cal/day over %d days (goal %s)\n\n",
			formatNumber(total/len(history)), len(history), formatNumber(settings.DailyCalorieGoal))
	},
}

// historyRange fills in the default range: the last days days ending today
func historyRange(from, to string, days int, now time.Time) (string, string) {
	if from != "" || to != "" || days <= 0 {
		return from, to
	}
	return types.DayKey(now.AddDate(0, 0, -(days - 1))), types.DayKey(now)
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().String("date", "", "Day to show, YYYY-MM-DD (default today)")
	todayCmd.Flags().Bool("json", false, "Print the day as JSON")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("from", "", "First day, YYYY-MM-DD")
	historyCmd.Flags().String("to", "", "Last day, YYYY-MM-DD")
	historyCmd.Flags().Int("days", 7, "Number of days ending today, when --from and --to are not set")
}
