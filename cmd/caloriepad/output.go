package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caloriepad/caloriepad/internal/repl"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
)

// fail prints err and exits
func fail(format string, args ...any) {
	closeApp()
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// printFoods prints foods as a table
func printFoods(w io.Writer, foods []types.FoodItem) {
	if len(foods) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Fprintf(w, "  %s\n", gray("No foods"))
		return
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, f := range foods {
		star := " "
		if f.IsFavorite {
			star = yellow("*")
		}
		fmt.Fprintf(w, "  %s %-32s %6s cal  %-14s %-6s %s\n",
			star, f.Name, formatNumber(f.CaloriesPerServing), f.ServingSize, f.Category, gray(f.ID))
	}
}

// printDay prints a day's entries and totals
func printDay(w io.Writer, day *types.DayData, progress *types.GoalProgress) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n\n", cyan("=== "+day.Date+" ==="))
	if len(day.Entries) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("Nothing logged"))
	}
	for _, e := range day.Entries {
		fmt.Fprintf(w, "  %s  %-32s x%-5g %6s cal", e.Timestamp.Format("15:04"), e.FoodItem.Name,
			e.Quantity, formatNumber(e.TotalCalories))
		if e.Notes != "" {
			fmt.Fprintf(w, "  %s", gray(e.Notes))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	if len(day.ByCategory) > 0 {
		parts := make([]string, 0, len(day.ByCategory))
		for _, c := range day.ByCategory {
			parts = append(parts, fmt.Sprintf("%s %s", c.Category, formatNumber(c.Calories)))
		}
		fmt.Fprintf(w, "  %s\n", gray(strings.Join(parts, " | ")))
	}
	fmt.Fprintf(w, "  Consumed: %s  Burned: %s  Net: %s\n",
		formatNumber(day.TotalCaloriesConsumed), formatNumber(day.TotalCaloriesBurned), formatNumber(day.NetCalories))
	if progress != nil {
		fmt.Fprintf(w, "  %s\n", repl.FormatProgress(progress))
	}
	fmt.Fprintln(w)
}

// formatNumber formats n with thousands separators
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// formatBytes formats a byte count for display
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
