package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DayKeyLayout is the layout of a day key (YYYY-MM-DD)
const DayKeyLayout = "2006-01-02"

// FoodItem is a named food with calories per serving
type FoodItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	CaloriesPerServing int       `json:"caloriesPerServing"`
	ServingSize        string    `json:"servingSize"`
	Category           Category  `json:"category"`
	Source             Source    `json:"source,omitempty"`
	IsFavorite         bool      `json:"isFavorite"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Validate checks if the food item has valid field values
func (f *FoodItem) Validate() error {
	name := strings.TrimSpace(f.Name)
	if len(name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("name must be 200 characters or less (got %d)", len(name))
	}
	if f.CaloriesPerServing < 0 {
		return fmt.Errorf("calories per serving cannot be negative (got %d)", f.CaloriesPerServing)
	}
	if !f.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", f.Category)
	}
	if !f.Source.IsValid() {
		return fmt.Errorf("invalid source: %s", f.Source)
	}
	return nil
}

// Key returns the deduplication key of the item (see NormalizeName)
func (f *FoodItem) Key() string {
	return NormalizeName(f.Name)
}

// IsLocal reports whether the item lives in the local catalog (bundled or custom)
func (f *FoodItem) IsLocal() bool {
	return f.Source != SourceRemote
}

// Category groups food items
type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
	CategorySnack Category = "snack"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryFood, CategoryDrink, CategorySnack}

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryDrink, CategorySnack:
		return true
	}
	return false
}

// Source records where a food item came from
type Source string

const (
	SourceBase   Source = "base"   // Bundled seed catalog
	SourceCustom Source = "custom" // Created by the user, persisted in the overlay
	SourceRemote Source = "remote" // Nutrition lookup result, never persisted in the overlay
)

// IsValid checks if the source value is valid. Empty is accepted for
// records written before sources were tracked and is treated as custom.
func (s Source) IsValid() bool {
	switch s {
	case SourceBase, SourceCustom, SourceRemote, "":
		return true
	}
	return false
}

// FoodEntry is one logged consumption of a food item
type FoodEntry struct {
	ID            string    `json:"id"`
	FoodItem      FoodItem  `json:"foodItem"`
	Quantity      float64   `json:"quantity"`
	TotalCalories int       `json:"totalCalories"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes,omitempty"`
}

// Validate checks if the entry has valid field values
func (e *FoodEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	if e.Quantity <= 0 || math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) {
		return fmt.Errorf("quantity must be positive (got %v)", e.Quantity)
	}
	if err := e.FoodItem.Validate(); err != nil {
		return fmt.Errorf("invalid food item: %w", err)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if want := TotalCalories(e.FoodItem.CaloriesPerServing, e.Quantity); e.TotalCalories != want {
		return fmt.Errorf("total calories %d does not match %d x %v = %d",
			e.TotalCalories, e.FoodItem.CaloriesPerServing, e.Quantity, want)
	}
	return nil
}

// Day returns the day key the entry belongs to
func (e *FoodEntry) Day() string {
	return DayKey(e.Timestamp)
}

// TotalCalories multiplies calories per serving by quantity, rounded to the nearest calorie
func TotalCalories(caloriesPerServing int, quantity float64) int {
	return int(math.Round(float64(caloriesPerServing) * quantity))
}

// DayData is the derived view of one day of the log
type DayData struct {
	Date                  string          `json:"date"`
	Entries               []FoodEntry     `json:"entries"`
	TotalCaloriesConsumed int             `json:"totalCaloriesConsumed"`
	TotalCaloriesBurned   int             `json:"totalCaloriesBurned"`
	NetCalories           int             `json:"netCalories"`
	ByCategory            []CategoryTotal `json:"byCategory,omitempty"`
}

// CategoryTotal is the calories consumed in one category
type CategoryTotal struct {
	Category Category `json:"category"`
	Calories int      `json:"calories"`
	Entries  int      `json:"entries"`
}

// GoalProgress compares consumption with the daily goal
type GoalProgress struct {
	Goal      int     `json:"goal"`
	Consumed  int     `json:"consumed"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"` // 0-100, capped
	OverGoal  bool    `json:"overGoal"`
}

// Theme is the UI theme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid checks if the theme value is valid
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// UserSettings holds per-user preferences
type UserSettings struct {
	DailyCalorieGoal int   `json:"dailyCalorieGoal"`
	HealthEnabled    bool  `json:"healthKitEnabled"`
	Notifications    bool  `json:"notifications"`
	Theme            Theme `json:"theme"`
}

// DefaultUserSettings returns the settings used when nothing is stored
func DefaultUserSettings() UserSettings {
	return UserSettings{
		DailyCalorieGoal: 2000,
		HealthEnabled:    false,
		Notifications:    true,
		Theme:            ThemeSystem,
	}
}

// Validate checks if the settings have valid field values
func (s *UserSettings) Validate() error {
	if s.DailyCalorieGoal <= 0 {
		return fmt.Errorf("daily calorie goal must be positive (got %d)", s.DailyCalorieGoal)
	}
	if s.DailyCalorieGoal > 20000 {
		return fmt.Errorf("daily calorie goal too large (got %d, max 20000)", s.DailyCalorieGoal)
	}
	if !s.Theme.IsValid() {
		return fmt.Errorf("invalid theme: %s", s.Theme)
	}
	return nil
}

// HealthData is the cached energy expenditure
type HealthData struct {
	ActiveEnergyBurned float64   `json:"activeEnergyBurned"`
	BasalEnergyBurned  *float64  `json:"basalEnergyBurned,omitempty"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// StorageStats summarizes what is stored
type StorageStats struct {
	TotalKeys       int            `json:"totalKeys"`
	ApproximateSize int            `json:"approximateSize"`
	KeysByCategory  map[string]int `json:"keysByCategory"`
}

// DayKey formats t as a day key in t's own location
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a day key in the local time zone
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// NormalizeName is the case-insensitive identity used to deduplicate foods
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
