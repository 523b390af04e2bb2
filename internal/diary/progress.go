package diary

import (
	"math"

	"github.com/caloriepad/caloriepad/internal/types"
)

// CalculateTotalCalories sums the total calories of entries
func CalculateTotalCalories(entries []types.FoodEntry) int {
	total := 0
	for _, e := range entries {
		total += e.TotalCalories
	}
	return total
}

// AdjustValue adds delta to current and clamps the result to [min, max].
// Use math.Inf(1) for no upper bound.
func AdjustValue(current, delta, min, max float64) float64 {
	v := current + delta
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ComputeProgress compares consumed calories with goal. Percent is capped at
// 100; Remaining goes negative once the goal is exceeded. Reaching the goal
// exactly counts as over.
func ComputeProgress(consumed, goal int) types.GoalProgress {
	p := types.GoalProgress{
		Goal:      goal,
		Consumed:  consumed,
		Remaining: goal - consumed,
		OverGoal:  goal-consumed <= 0,
	}
	if goal > 0 {
		p.Percent = math.Min(float64(consumed)*100/float64(goal), 100)
		if p.Percent < 0 {
			p.Percent = 0
		}
	}
	return p
}

// categoryTotals breaks entries down by category in display order. Categories
// without entries are omitted.
func categoryTotals(entries []types.FoodEntry) []types.CategoryTotal {
	byCategory := make(map[types.Category]*types.CategoryTotal)
	for _, e := range entries {
		category := e.FoodItem.Category
		t, ok := byCategory[category]
		if !ok {
			t = &types.CategoryTotal{Category: category}
			byCategory[category] = t
		}
		t.Calories += e.TotalCalories
		t.Entries++
	}

	var out []types.CategoryTotal
	for _, category := range types.Categories {
		if t, ok := byCategory[category]; ok {
			out = append(out, *t)
		}
	}
	return out
}
