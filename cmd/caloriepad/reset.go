package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored data",
	Long: `Developer tools for deleting stored data.

  today    delete today's log
  custom   delete your custom foods and favorites
  factory  delete everything`,
}

var resetTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Delete today's log",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := foodLog.ResetToday(cmd.Context()); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted today's log\n", green("✓"))
	},
}

var resetCustomCmd = &cobra.Command{
	Use:   "custom",
	Short: "Delete custom foods and favorites",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		requireYes(cmd, "custom foods and favorites")
		ctx := cmd.Context()
		if err := store.ResetCustomFoodData(ctx); err != nil {
			fail("%v", err)
		}
		if err := foods.Reload(ctx); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted custom foods and favorites\n", green("✓"))
	},
}

var resetFactoryCmd = &cobra.Command{
	Use:   "factory",
	Short: "Delete all data",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		requireYes(cmd, "ALL data (logs, foods, favorites, settings)")
		if err := store.FactoryReset(cmd.Context()); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted all data\n", green("✓"))
	},
}

// requireYes exits unless --yes was given
func requireYes(cmd *cobra.Command, what string) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s This deletes %s.\n", yellow("Warning:"), what)
	fmt.Printf("Run again with --yes to confirm\n")
	fail("not confirmed")
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.AddCommand(resetTodayCmd, resetCustomCmd, resetFactoryCmd)
	for _, c := range []*cobra.Command{resetCustomCmd, resetFactoryCmd} {
		c.Flags().Bool("yes", false, "Confirm the deletion")
	}
}
