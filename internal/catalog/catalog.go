// Package catalog holds the local food catalog: the bundled base foods with
// the user's custom foods laid over them.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPopularLimit is the number of foods Popular returns for n <= 0
const DefaultPopularLimit = 10

// CustomIDPrefix prefixes the IDs of user-created foods
const CustomIDPrefix = "custom-"

// Catalog caches the merged base and overlay foods. It is safe for
// concurrent use.
type Catalog struct {
	store  *storage.Store
	logger *zap.Logger
	now    func() time.Time

	mu          sync.RWMutex
	base        []types.FoodItem
	foods       []types.FoodItem
	initialized bool
}

// New creates a catalog over store. A nil logger disables logging.
func New(store *storage.Store, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Init loads the base catalog and the overlay and merges them. It is a no-op
// once the catalog is loaded.
func (c *Catalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	return c.loadLocked(ctx)
}

// Reload re-reads the overlay and rebuilds the merged catalog
func (c *Catalog) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

func (c *Catalog) loadLocked(ctx context.Context) error {
	if c.base == nil {
		base, err := LoadSeed()
		if err != nil {
			return err
		}
		c.base = base
	}

	overlay, err := c.store.PersonalFoods(ctx)
	if err != nil {
		return fmt.Errorf("failed to load personal foods: %w", err)
	}

	c.foods = MergeOverlay(c.base, overlay)
	c.initialized = true
	c.logger.Debug("food catalog initialized",
		zap.Int("base", len(c.base)),
		zap.Int("overlay", len(overlay)),
		zap.Int("total", len(c.foods)))
	return nil
}

// snapshot returns a copy of the merged foods, loading them first if needed
func (c *Catalog) snapshot(ctx context.Context) ([]types.FoodItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.FoodItem, len(c.foods))
	copy(out, c.foods)
	return out, nil
}

// AddCustomFood persists food to the overlay and adds it to the catalog. A
// missing ID is assigned and the source is forced to custom. A catalog food
// with the same name is replaced.
func (c *Catalog) AddCustomFood(ctx context.Context, food types.FoodItem) (*types.FoodItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	food.Name = strings.TrimSpace(food.Name)
	if food.ID == "" {
		food.ID = CustomIDPrefix + uuid.NewString()
	}
	if food.ServingSize == "" {
		food.ServingSize = "1 serving"
	}
	if food.Category == "" {
		food.Category = types.CategoryFood
	}
	if food.CreatedAt.IsZero() {
		food.CreatedAt = c.now()
	}
	food.Source = types.SourceCustom

	if err := c.store.AddPersonalFood(ctx, &food); err != nil {
		return nil, fmt.Errorf("failed to add custom food: %w", err)
	}

	c.mu.Lock()
	c.putLocked(food)
	c.mu.Unlock()

	c.logger.Info("added custom food", zap.String("id", food.ID), zap.String("name", food.Name))
	return &food, nil
}

// UpdateFood stores food in the overlay, replacing the overlay food with the
// same name, and replaces the catalog food with the same name. A base food
// edited this way becomes a custom food that shadows it.
func (c *Catalog) UpdateFood(ctx context.Context, food types.FoodItem) (*types.FoodItem, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	food.Source = types.SourceCustom
	if food.ID == "" {
		if existing, err := c.ByName(ctx, food.Name); err == nil {
			food.ID = existing.ID
		} else {
			food.ID = CustomIDPrefix + uuid.NewString()
		}
	}
	if food.CreatedAt.IsZero() {
		food.CreatedAt = c.now()
	}
	stored, err := c.store.UpsertPersonalFood(ctx, &food)
	if err != nil {
		return nil, fmt.Errorf("failed to update food: %w", err)
	}

	c.mu.Lock()
	c.putLocked(*stored)
	c.mu.Unlock()

	c.logger.Info("updated food", zap.String("id", stored.ID), zap.String("name", stored.Name))
	return stored, nil
}

// putLocked replaces the cached food with the same name, keeping its
// position, or appends food. Same rule as MergeOverlay.
func (c *Catalog) putLocked(food types.FoodItem) {
	for i := range c.foods {
		if c.foods[i].Key() == food.Key() {
			c.foods[i] = food
			return
		}
	}
	c.foods = append(c.foods, food)
}

// All returns every food in catalog order
func (c *Catalog) All(ctx context.Context) ([]types.FoodItem, error) {
	return c.snapshot(ctx)
}

// Search returns foods whose name or category contains query, case
// insensitively. A blank query returns every food.
func (c *Catalog) Search(ctx context.Context, query string) ([]types.FoodItem, error) {
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return foods, nil
	}

	q := strings.ToLower(query)
	var matches []types.FoodItem
	for _, food := range foods {
		if strings.Contains(strings.ToLower(food.Name), q) ||
			strings.Contains(strings.ToLower(string(food.Category)), q) {
			matches = append(matches, food)
		}
	}
	return matches, nil
}

// ByCategory returns the foods in category
func (c *Catalog) ByCategory(ctx context.Context, category types.Category) ([]types.FoodItem, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", category)
	}
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var matches []types.FoodItem
	for _, food := range foods {
		if food.Category == category {
			matches = append(matches, food)
		}
	}
	return matches, nil
}

// ByID returns the food with id, or storage.ErrNotFound
func (c *Catalog) ByID(ctx context.Context, id string) (*types.FoodItem, error) {
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range foods {
		if foods[i].ID == id {
			return &foods[i], nil
		}
	}
	return nil, fmt.Errorf("food %s: %w", id, storage.ErrNotFound)
}

// ByName returns the food whose normalized name equals name, or storage.ErrNotFound
func (c *Catalog) ByName(ctx context.Context, name string) (*types.FoodItem, error) {
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	key := types.NormalizeName(name)
	for i := range foods {
		if foods[i].Key() == key {
			return &foods[i], nil
		}
	}
	return nil, fmt.Errorf("food %q: %w", name, storage.ErrNotFound)
}

// Popular returns the first n foods of the catalog (DefaultPopularLimit if n <= 0)
func (c *Catalog) Popular(ctx context.Context, n int) ([]types.FoodItem, error) {
	if n <= 0 {
		n = DefaultPopularLimit
	}
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(foods) > n {
		foods = foods[:n]
	}
	return foods, nil
}

// Categorized groups the catalog by category. Every category has an entry.
func (c *Catalog) Categorized(ctx context.Context) (map[types.Category][]types.FoodItem, error) {
	foods, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[types.Category][]types.FoodItem, len(types.Categories))
	for _, category := range types.Categories {
		groups[category] = []types.FoodItem{}
	}
	for _, food := range foods {
		groups[food.Category] = append(groups[food.Category], food)
	}
	return groups, nil
}
