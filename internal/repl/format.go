package repl

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/caloriepad/caloriepad/internal/diary"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/fatih/color"
)

// FormatProgress renders goal progress as a one-line bar
func FormatProgress(p *types.GoalProgress) string {
	const width = 20
	filled := int(math.Round(p.Percent / 100 * width))
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)

	if p.OverGoal {
		red := color.New(color.FgRed).SprintFunc()
		return fmt.Sprintf("[%s] %d / %d cal, %s", red(bar), p.Consumed, p.Goal,
			red(fmt.Sprintf("%d cal over", -p.Remaining)))
	}
	green := color.New(color.FgGreen).SprintFunc()
	return fmt.Sprintf("[%s] %d / %d cal, %d cal left", green(bar), p.Consumed, p.Goal, p.Remaining)
}

// printFoods prints a numbered food list
func printFoods(w io.Writer, foods []types.FoodItem) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	for i, f := range foods {
		source := ""
		if f.Source == types.SourceRemote {
			source = gray(" (online)")
		}
		fmt.Fprintf(w, "  #%-2d %-32s %5d cal  %s%s\n",
			i+1, f.Name, f.CaloriesPerServing, gray(f.ServingSize), source)
	}
}

// parseAddArgs parses "<name...> <calories> [qty]"
func parseAddArgs(args []string) (diary.QuickAddRequest, error) {
	usage := fmt.Errorf("usage: add <name> <calories> [qty]")

	var numbers []string
	name := args
	for len(name) > 1 && len(numbers) < 2 && isNumber(name[len(name)-1]) {
		numbers = append([]string{name[len(name)-1]}, numbers...)
		name = name[:len(name)-1]
	}
	if len(numbers) == 0 {
		return diary.QuickAddRequest{}, usage
	}

	calories, err := parseCalories(numbers[0])
	if err != nil {
		return diary.QuickAddRequest{}, err
	}
	req := diary.QuickAddRequest{
		Name:     strings.Join(name, " "),
		Calories: calories,
		Quantity: 1,
	}
	if len(numbers) == 2 {
		if req.Quantity, err = parseQuantity(numbers[1]); err != nil {
			return diary.QuickAddRequest{}, err
		}
	}
	return req, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseCalories(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid calories %q", s)
	}
	return n, nil
}

func parseQuantity(s string) (float64, error) {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q <= 0 || math.IsInf(q, 0) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return q, nil
}

func parseIndex(ref string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid result reference %q (expected #<n>)", ref)
	}
	return n, nil
}
