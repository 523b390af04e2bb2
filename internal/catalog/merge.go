package catalog

import "github.com/caloriepad/caloriepad/internal/types"

// MergeOverlay lays the user's overlay over the base catalog. An overlay food
// replaces the food with the same normalized name in place; overlay foods
// with new names are appended in overlay order.
func MergeOverlay(base, overlay []types.FoodItem) []types.FoodItem {
	merged := make([]types.FoodItem, 0, len(base)+len(overlay))
	merged = append(merged, base...)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].Key()] = i
	}

	for _, food := range overlay {
		if food.Source == "" {
			food.Source = types.SourceCustom
		}
		if i, ok := index[food.Key()]; ok {
			merged[i] = food
			continue
		}
		index[food.Key()] = len(merged)
		merged = append(merged, food)
	}
	return merged
}

// MergeResults combines local and remote search results. Local results keep
// their order and win over remote results with the same normalized name;
// among remote results the first occurrence of a name wins.
func MergeResults(local, remote []types.FoodItem) []types.FoodItem {
	merged := make([]types.FoodItem, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local)+len(remote))

	for _, food := range local {
		seen[food.Key()] = true
		merged = append(merged, food)
	}
	for _, food := range remote {
		if seen[food.Key()] {
			continue
		}
		seen[food.Key()] = true
		merged = append(merged, food)
	}
	return merged
}
