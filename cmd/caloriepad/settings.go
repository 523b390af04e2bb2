package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change user settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show user settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := store.Settings(cmd.Context())
		if err != nil {
			fail("%v", err)
		}
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Settings ==="))
		fmt.Printf("  goal:          %s cal\n", formatNumber(settings.DailyCalorieGoal))
		fmt.Printf("  theme:         %s\n", settings.Theme)
		fmt.Printf("  notifications: %t\n", settings.Notifications)
		fmt.Printf("  health:        %t\n", settings.HealthEnabled)
		fmt.Println()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a user setting",
	Long: `Change a user setting.

Keys:
  goal           daily calorie goal (1-20000)
  theme          light, dark or system
  notifications  true or false
  health         true or false

Example:
  caloriepad settings set goal 1800`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		settings, err := store.Settings(ctx)
		if err != nil {
			fail("%v", err)
		}
		if err := applySetting(&settings, args[0], args[1]); err != nil {
			fail("%v", err)
		}
		if err := store.SaveSettings(ctx, settings); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s = %s\n", green("✓"), args[0], args[1])
	},
}

// applySetting sets key to the parsed value
func applySetting(s *types.UserSettings, key, value string) error {
	switch strings.ToLower(key) {
	case "goal", "daily_calorie_goal":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid goal %q", value)
		}
		s.DailyCalorieGoal = n
	case "theme":
		s.Theme = types.Theme(strings.ToLower(value))
		if !s.Theme.IsValid() {
			return fmt.Errorf("invalid theme %q (light, dark or system)", value)
		}
	case "notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid notifications value %q", value)
		}
		s.Notifications = b
	case "health":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid health value %q", value)
		}
		s.HealthEnabled = b
	default:
		return fmt.Errorf("unknown setting %q (goal, theme, notifications, health)", key)
	}
	return nil
}

var burnedCmd = &cobra.Command{
	Use:   "burned <active-calories>",
	Short: "Record calories burned today",
	Long: `Record today's active energy burned, e.g. from a fitness tracker. It is
subtracted from consumed calories to give today's net calories.

Example:
  caloriepad burned 420
  caloriepad burned 420 --basal 1650`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		active, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fail("invalid calories %q", args[0])
		}

		var basal *float64
		if cmd.Flags().Changed("basal") {
			b, _ := cmd.Flags().GetFloat64("basal")
			basal = &b
		}

		if err := foodLog.RecordBurned(cmd.Context(), active, basal); err != nil {
			fail("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Recorded %s cal burned on %s\n", green("✓"), formatNumber(int(active)), types.DayKey(time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	rootCmd.AddCommand(burnedCmd)
	burnedCmd.Flags().Float64("basal", 0, "Basal energy burned")
}
