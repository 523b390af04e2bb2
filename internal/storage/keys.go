package storage

import (
	"strings"

	"github.com/caloriepad/caloriepad/internal/types"
)

// KeyPrefix namespaces every key the application writes
const KeyPrefix = "@caloriepad/"

const (
	KeyEntriesPrefix = KeyPrefix + "entries_"
	KeyPersonalFoods = KeyPrefix + "personal_foods"
	KeyFoodDatabase  = KeyPrefix + "food_database" // Legacy custom food list, cleared with the overlay
	KeyFavorites     = KeyPrefix + "favorites"
	KeySettings      = KeyPrefix + "settings"
	KeyHealthCache   = KeyPrefix + "health_cache"
)

// Stats categories
const (
	StatsEntries   = "entries"
	StatsFoods     = "foods"
	StatsFavorites = "favorites"
	StatsSettings  = "settings"
	StatsHealth    = "health"
	StatsOther     = "other"
)

// EntriesKey returns the key holding the entries of one day
func EntriesKey(date string) string {
	return KeyEntriesPrefix + date
}

// DateFromEntriesKey extracts the day key from an entries key
func DateFromEntriesKey(key string) (string, bool) {
	date, ok := strings.CutPrefix(key, KeyEntriesPrefix)
	if !ok {
		return "", false
	}
	if _, err := types.ParseDayKey(date); err != nil {
		return "", false
	}
	return date, true
}

// keyCategory buckets a key for storage statistics
func keyCategory(key string) string {
	switch {
	case strings.HasPrefix(key, KeyEntriesPrefix):
		return StatsEntries
	case key == KeyPersonalFoods, key == KeyFoodDatabase:
		return StatsFoods
	case key == KeyFavorites:
		return StatsFavorites
	case key == KeySettings:
		return StatsSettings
	case key == KeyHealthCache:
		return StatsHealth
	default:
		return StatsOther
	}
}
