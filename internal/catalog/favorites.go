package catalog

import (
	"context"
	"fmt"

	"github.com/caloriepad/caloriepad/internal/types"
	"go.uber.org/zap"
)

// Favorites returns the favorite foods in the order they were added
func (c *Catalog) Favorites(ctx context.Context) ([]types.FoodItem, error) {
	return c.store.Favorites(ctx)
}

// IsFavorite reports whether the food with id is a favorite
func (c *Catalog) IsFavorite(ctx context.Context, id string) (bool, error) {
	favorites, err := c.store.Favorites(ctx)
	if err != nil {
		return false, err
	}
	for _, f := range favorites {
		if f.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// AddFavorite marks food as a favorite. Remote foods can be favorites too;
// the favorite keeps a copy of the record.
func (c *Catalog) AddFavorite(ctx context.Context, food types.FoodItem) error {
	if err := c.store.AddFavorite(ctx, &food); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	c.logger.Debug("added favorite", zap.String("id", food.ID))
	return nil
}

// RemoveFavorite unmarks the food with id. Returns storage.ErrNotFound if it
// is not a favorite.
func (c *Catalog) RemoveFavorite(ctx context.Context, id string) error {
	if err := c.store.RemoveFavorite(ctx, id); err != nil {
		return err
	}
	c.logger.Debug("removed favorite", zap.String("id", id))
	return nil
}

// ToggleFavorite flips the favorite state of food and returns the new state
func (c *Catalog) ToggleFavorite(ctx context.Context, food types.FoodItem) (bool, error) {
	on, err := c.IsFavorite(ctx, food.ID)
	if err != nil {
		return false, err
	}
	if on {
		return false, c.RemoveFavorite(ctx, food.ID)
	}
	if err := c.AddFavorite(ctx, food); err != nil {
		return false, err
	}
	return true, nil
}
