package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/caloriepad/caloriepad/internal/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Store provides the domain operations of caloriepad over a key-value Backend.
// Values are JSON documents; each day of the log lives under its own key.
type Store struct {
	backend Backend
}

// NewStore wraps a backend
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying key-value backend
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the underlying backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// getJSON decodes the value under key into v. It reports false when the key
// is missing, leaving v untouched.
func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("corrupt value under %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.backend.Set(ctx, key, data)
}

// updateList runs fn over the JSON list stored under key atomically
func updateList[T any](ctx context.Context, s *Store, key string, fn func([]T) ([]T, error)) error {
	return s.backend.Update(ctx, key, func(old []byte, exists bool) ([]byte, error) {
		var list []T
		if exists {
			if err := json.Unmarshal(old, &list); err != nil {
				return nil, fmt.Errorf("corrupt value under %s: %w", key, err)
			}
		}
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		return data, nil
	})
}

// DayEntries returns the entries logged on date in insertion order
func (s *Store) DayEntries(ctx context.Context, date string) ([]types.FoodEntry, error) {
	var entries []types.FoodEntry
	if _, err := s.getJSON(ctx, EntriesKey(date), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveDayEntries replaces the entries of date
func (s *Store) SaveDayEntries(ctx context.Context, date string, entries []types.FoodEntry) error {
	if _, err := types.ParseDayKey(date); err != nil {
		return err
	}
	if entries == nil {
		entries = []types.FoodEntry{}
	}
	return s.setJSON(ctx, EntriesKey(date), entries)
}

// AppendEntry appends entry to the log of the day it was consumed on
func (s *Store) AppendEntry(ctx context.Context, entry *types.FoodEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return updateList(ctx, s, EntriesKey(entry.Day()), func(entries []types.FoodEntry) ([]types.FoodEntry, error) {
		return append(entries, *entry), nil
	})
}

// EntryDays returns the sorted day keys that have a stored log
func (s *Store) EntryDays(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx, KeyEntriesPrefix)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(keys))
	for _, key := range keys {
		if date, ok := DateFromEntriesKey(key); ok {
			days = append(days, date)
		}
	}
	sort.Strings(days)
	return days, nil
}

// PersonalFoods returns the overlay of user-created foods
func (s *Store) PersonalFoods(ctx context.Context) ([]types.FoodItem, error) {
	var foods []types.FoodItem
	if _, err := s.getJSON(ctx, KeyPersonalFoods, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// SavePersonalFoods replaces the overlay
func (s *Store) SavePersonalFoods(ctx context.Context, foods []types.FoodItem) error {
	if foods == nil {
		foods = []types.FoodItem{}
	}
	return s.setJSON(ctx, KeyPersonalFoods, foods)
}

// AddPersonalFood adds food to the overlay. An overlay food with the same
// normalized name is replaced outright, ID included.
func (s *Store) AddPersonalFood(ctx context.Context, food *types.FoodItem) error {
	if err := food.Validate(); err != nil {
		return fmt.Errorf("invalid food: %w", err)
	}
	return updateList(ctx, s, KeyPersonalFoods, func(foods []types.FoodItem) ([]types.FoodItem, error) {
		for i := range foods {
			if foods[i].Key() == food.Key() {
				foods[i] = *food
				return foods, nil
			}
		}
		return append(foods, *food), nil
	})
}

// UpsertPersonalFood replaces the overlay food with the same normalized name,
// or appends food when there is none. An empty ID inherits the replaced
// food's ID. It returns the stored record.
func (s *Store) UpsertPersonalFood(ctx context.Context, food *types.FoodItem) (*types.FoodItem, error) {
	if err := food.Validate(); err != nil {
		return nil, fmt.Errorf("invalid food: %w", err)
	}
	stored := *food
	err := updateList(ctx, s, KeyPersonalFoods, func(foods []types.FoodItem) ([]types.FoodItem, error) {
		for i := range foods {
			if foods[i].Key() == stored.Key() {
				if stored.ID == "" {
					stored.ID = foods[i].ID
				}
				if stored.CreatedAt.IsZero() {
					stored.CreatedAt = foods[i].CreatedAt
				}
				foods[i] = stored
				return foods, nil
			}
		}
		return append(foods, stored), nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// MigrateLegacyFoods moves the legacy custom food list into the overlay.
// Foods whose name is already in the overlay are kept out, as are invalid
// records. The legacy key is deleted afterwards.
func (s *Store) MigrateLegacyFoods(ctx context.Context) (imported, skipped int, err error) {
	var legacy []types.FoodItem
	ok, err := s.getJSON(ctx, KeyFoodDatabase, &legacy)
	if err != nil || !ok {
		return 0, 0, err
	}

	err = updateList(ctx, s, KeyPersonalFoods, func(foods []types.FoodItem) ([]types.FoodItem, error) {
		imported, skipped = 0, 0
		seen := make(map[string]bool, len(foods)+len(legacy))
		for _, f := range foods {
			seen[f.Key()] = true
		}
		for _, f := range legacy {
			if f.Source == "" || f.Source == types.SourceBase {
				f.Source = types.SourceCustom
			}
			if f.Validate() != nil || f.ID == "" || seen[f.Key()] {
				skipped++
				continue
			}
			seen[f.Key()] = true
			foods = append(foods, f)
			imported++
		}
		return foods, nil
	})
	if err != nil {
		return 0, 0, err
	}
	if err := s.backend.Delete(ctx, KeyFoodDatabase); err != nil {
		return imported, skipped, err
	}
	return imported, skipped, nil
}

// Favorites returns the favorite foods
func (s *Store) Favorites(ctx context.Context) ([]types.FoodItem, error) {
	var favorites []types.FoodItem
	if _, err := s.getJSON(ctx, KeyFavorites, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite marks food as a favorite. Adding an ID twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, food *types.FoodItem) error {
	if food.ID == "" {
		return fmt.Errorf("favorite food must have an id")
	}
	fav := *food
	fav.IsFavorite = true
	return updateList(ctx, s, KeyFavorites, func(favorites []types.FoodItem) ([]types.FoodItem, error) {
		for _, f := range favorites {
			if f.ID == fav.ID {
				return favorites, nil
			}
		}
		return append(favorites, fav), nil
	})
}

// RemoveFavorite removes the favorite with id. Returns ErrNotFound if it is
// not a favorite.
func (s *Store) RemoveFavorite(ctx context.Context, id string) error {
	return updateList(ctx, s, KeyFavorites, func(favorites []types.FoodItem) ([]types.FoodItem, error) {
		kept := favorites[:0]
		for _, f := range favorites {
			if f.ID != id {
				kept = append(kept, f)
			}
		}
		if len(kept) == len(favorites) {
			return nil, fmt.Errorf("favorite %s: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}

// Settings returns the stored settings merged over the defaults
func (s *Store) Settings(ctx context.Context) (types.UserSettings, error) {
	settings := types.DefaultUserSettings()
	if _, err := s.getJSON(ctx, KeySettings, &settings); err != nil {
		return types.DefaultUserSettings(), err
	}
	return settings, nil
}

// SaveSettings validates and stores settings
func (s *Store) SaveSettings(ctx context.Context, settings types.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return s.setJSON(ctx, KeySettings, settings)
}

// HealthData returns the cached energy expenditure, or nil if none is cached
func (s *Store) HealthData(ctx context.Context) (*types.HealthData, error) {
	var data types.HealthData
	ok, err := s.getJSON(ctx, KeyHealthCache, &data)
	if err != nil || !ok {
		return nil, err
	}
	return &data, nil
}

// SaveHealthData replaces the cached energy expenditure
func (s *Store) SaveHealthData(ctx context.Context, data *types.HealthData) error {
	if data.ActiveEnergyBurned < 0 {
		return fmt.Errorf("active energy burned cannot be negative (got %v)", data.ActiveEnergyBurned)
	}
	return s.setJSON(ctx, KeyHealthCache, data)
}

// ResetDay deletes the log of date
func (s *Store) ResetDay(ctx context.Context, date string) error {
	return s.backend.Delete(ctx, EntriesKey(date))
}

// ResetCustomFoodData deletes the overlay, the legacy food list and favorites
func (s *Store) ResetCustomFoodData(ctx context.Context) error {
	for _, key := range []string{KeyPersonalFoods, KeyFoodDatabase, KeyFavorites} {
		if err := s.backend.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// vacuumer is implemented by backends that can reclaim space after deletes
type vacuumer interface {
	Vacuum(ctx context.Context) error
}

// FactoryReset deletes everything
func (s *Store) FactoryReset(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return err
	}
	if v, ok := s.backend.(vacuumer); ok {
		if err := v.Vacuum(ctx); err != nil {
			return fmt.Errorf("failed to vacuum: %w", err)
		}
	}
	return nil
}

// Stats counts stored keys by category and sums their value sizes
func (s *Store) Stats(ctx context.Context) (*types.StorageStats, error) {
	keys, err := s.backend.Keys(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &types.StorageStats{
		TotalKeys:      len(keys),
		KeysByCategory: make(map[string]int),
	}
	for _, key := range keys {
		value, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			stats.ApproximateSize += len(value)
		}
		stats.KeysByCategory[keyCategory(key)]++
	}
	return stats, nil
}
