package catalog

import (
	_ "embed"
	"fmt"

	"github.com/caloriepad/caloriepad/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var seedYAML []byte

type seedFood struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Calories int            `yaml:"calories"`
	Serving  string         `yaml:"serving"`
	Category types.Category `yaml:"category"`
}

// LoadSeed parses the bundled base catalog
func LoadSeed() ([]types.FoodItem, error) {
	return parseSeed(seedYAML)
}

func parseSeed(data []byte) ([]types.FoodItem, error) {
	var raw []seedFood
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	foods := make([]types.FoodItem, 0, len(raw))
	for i, r := range raw {
		food := types.FoodItem{
			ID:                 r.ID,
			Name:               r.Name,
			CaloriesPerServing: r.Calories,
			ServingSize:        r.Serving,
			Category:           r.Category,
			Source:             types.SourceBase,
		}
		if food.ID == "" {
			return nil, fmt.Errorf("seed food %d (%s): id is required", i, r.Name)
		}
		if err := food.Validate(); err != nil {
			return nil, fmt.Errorf("seed food %s: %w", food.ID, err)
		}
		if seen[food.Key()] {
			return nil, fmt.Errorf("seed food %s: duplicate name %q", food.ID, food.Name)
		}
		seen[food.Key()] = true
		foods = append(foods, food)
	}
	return foods, nil
}
