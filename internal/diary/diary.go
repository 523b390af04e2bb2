// Package diary keeps the per-day consumption log and derives the daily
// totals and goal progress from it.
package diary

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// EntryIDPrefix prefixes the IDs of log entries
	EntryIDPrefix = "entry-"

	// DefaultRecentDays is how far back RecentFoods looks
	DefaultRecentDays = 7

	// DefaultRecentLimit is how many foods RecentFoods returns
	DefaultRecentLimit = 8
)

// FoodCatalog persists custom foods
type FoodCatalog interface {
	AddCustomFood(ctx context.Context, food types.FoodItem) (*types.FoodItem, error)
	UpdateFood(ctx context.Context, food types.FoodItem) (*types.FoodItem, error)
}

// Finder resolves a food by exact name, returning storage.ErrNotFound when
// nothing matches
type Finder interface {
	FindExact(ctx context.Context, name string, includeRemote bool) (*types.FoodItem, error)
}

// Diary reads and appends the consumption log
type Diary struct {
	store         *storage.Store
	foods         FoodCatalog
	finder        Finder
	includeRemote bool
	logger        *zap.Logger
	now           func() time.Time
}

// Option configures a Diary
type Option func(*Diary)

// WithRemote makes QuickAdd resolve names against the remote database too
func WithRemote(enabled bool) Option {
	return func(d *Diary) { d.includeRemote = enabled }
}

// WithClock overrides the clock used for "today"
func WithClock(now func() time.Time) Option {
	return func(d *Diary) { d.now = now }
}

// New creates a diary. A nil logger disables logging.
func New(store *storage.Store, foods FoodCatalog, finder Finder, logger *zap.Logger, opts ...Option) *Diary {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Diary{
		store:  store,
		foods:  foods,
		finder: finder,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddEntry logs quantity servings of food consumed at at (now if zero)
func (d *Diary) AddEntry(ctx context.Context, food types.FoodItem, quantity float64, notes string, at time.Time) (*types.FoodEntry, error) {
	if at.IsZero() {
		at = d.now()
	}
	entry := &types.FoodEntry{
		ID:            EntryIDPrefix + uuid.NewString(),
		FoodItem:      food,
		Quantity:      quantity,
		TotalCalories: types.TotalCalories(food.CaloriesPerServing, quantity),
		Timestamp:     at,
		Notes:         strings.TrimSpace(notes),
	}
	if err := d.store.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add entry: %w", err)
	}

	d.logger.Info("logged food",
		zap.String("entry", entry.ID),
		zap.String("food", food.Name),
		zap.Float64("quantity", quantity),
		zap.Int("calories", entry.TotalCalories))
	return entry, nil
}

// QuickAddRequest is a name-and-calories entry from the quick-add form
type QuickAddRequest struct {
	Name     string
	Calories int
	Quantity float64 // Values below 1 are raised to 1
	Notes    string
	At       time.Time
}

// QuickAddResult reports how the food of a quick add was resolved
type QuickAddResult struct {
	Entry *types.FoodEntry

	// Created is set when the name was unknown and a custom food was added
	Created bool

	// Updated is set when a local food's calories were changed in the catalog
	Updated bool

	// Overridden is set when a remote food was logged with different
	// calories without being stored
	Overridden bool
}

// QuickAdd logs a food by name. A known food is reused. Changing the
// calories of a remote food overrides them for this entry only; changing the
// calories of a local food updates it in the catalog. An unknown name
// becomes a new custom food.
func (d *Diary) QuickAdd(ctx context.Context, req QuickAddRequest) (*QuickAddResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("food name is required")
	}
	if req.Calories < 0 {
		return nil, fmt.Errorf("calories cannot be negative (got %d)", req.Calories)
	}
	quantity := AdjustValue(req.Quantity, 0, 1, math.Inf(1))

	res := &QuickAddResult{}
	existing, err := d.finder.FindExact(ctx, name, d.includeRemote)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up %q: %w", name, err)
	}

	var food types.FoodItem
	switch {
	case existing == nil:
		created, err := d.foods.AddCustomFood(ctx, types.FoodItem{
			Name:               name,
			CaloriesPerServing: req.Calories,
			ServingSize:        "1 serving",
			Category:           types.CategoryFood,
		})
		if err != nil {
			return nil, err
		}
		food = *created
		res.Created = true

	case existing.CaloriesPerServing == req.Calories:
		food = *existing

	case existing.Source == types.SourceRemote:
		food = *existing
		food.CaloriesPerServing = req.Calories
		res.Overridden = true

	default:
		edited := *existing
		edited.CaloriesPerServing = req.Calories
		updated, err := d.foods.UpdateFood(ctx, edited)
		if err != nil {
			return nil, err
		}
		food = *updated
		res.Updated = true
	}

	res.Entry, err = d.AddEntry(ctx, food, quantity, req.Notes, req.At)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Day returns the log of date with its derived totals. Burned calories come
// from the health cache when it was last updated on that day.
func (d *Diary) Day(ctx context.Context, date string) (*types.DayData, error) {
	if _, err := types.ParseDayKey(date); err != nil {
		return nil, err
	}
	entries, err := d.store.DayEntries(ctx, date)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.FoodEntry{}
	}

	burned := 0
	health, err := d.store.HealthData(ctx)
	if err != nil {
		return nil, err
	}
	if health != nil && types.DayKey(health.LastUpdated) == date {
		burned = int(math.Round(health.ActiveEnergyBurned))
	}

	consumed := CalculateTotalCalories(entries)
	return &types.DayData{
		Date:                  date,
		Entries:               entries,
		TotalCaloriesConsumed: consumed,
		TotalCaloriesBurned:   burned,
		NetCalories:           consumed - burned,
		ByCategory:            categoryTotals(entries),
	}, nil
}

// Today returns the log of the current day
func (d *Diary) Today(ctx context.Context) (*types.DayData, error) {
	return d.Day(ctx, d.today())
}

// Progress compares the calories consumed on date with the daily goal
func (d *Diary) Progress(ctx context.Context, date string) (*types.GoalProgress, error) {
	day, err := d.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	settings, err := d.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	p := ComputeProgress(day.TotalCaloriesConsumed, settings.DailyCalorieGoal)
	return &p, nil
}

// TodayProgress compares the calories consumed today with the daily goal
func (d *Diary) TodayProgress(ctx context.Context) (*types.GoalProgress, error) {
	return d.Progress(ctx, d.today())
}

// History returns the days between from and to (inclusive) that have a log,
// oldest first. Empty bounds are open.
func (d *Diary) History(ctx context.Context, from, to string) ([]types.DayData, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := types.ParseDayKey(bound); err != nil {
			return nil, err
		}
	}
	if from != "" && to != "" && from > to {
		return nil, fmt.Errorf("from %s is after to %s", from, to)
	}

	days, err := d.store.EntryDays(ctx)
	if err != nil {
		return nil, err
	}
	history := []types.DayData{}
	for _, date := range days {
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		day, err := d.Day(ctx, date)
		if err != nil {
			return nil, err
		}
		if len(day.Entries) == 0 {
			continue
		}
		history = append(history, *day)
	}
	return history, nil
}

// RecentFoods returns the distinct foods logged over the last days days
// (today included), most recently logged first. Foods are distinct by
// normalized name; the latest use wins.
func (d *Diary) RecentFoods(ctx context.Context, days, limit int) ([]types.FoodItem, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	type use struct {
		food types.FoodItem
		at   time.Time
	}
	latest := make(map[string]use)
	now := d.now()
	for i := 0; i < days; i++ {
		date := types.DayKey(now.AddDate(0, 0, -i))
		entries, err := d.store.DayEntries(ctx, date)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			key := e.FoodItem.Key()
			if u, ok := latest[key]; !ok || e.Timestamp.After(u.at) {
				latest[key] = use{food: e.FoodItem, at: e.Timestamp}
			}
		}
	}

	uses := make([]use, 0, len(latest))
	for _, u := range latest {
		uses = append(uses, u)
	}
	sort.Slice(uses, func(i, j int) bool {
		if uses[i].at.Equal(uses[j].at) {
			return uses[i].food.Key() < uses[j].food.Key()
		}
		return uses[i].at.After(uses[j].at)
	})
	if len(uses) > limit {
		uses = uses[:limit]
	}

	foods := make([]types.FoodItem, len(uses))
	for i, u := range uses {
		foods[i] = u.food
	}
	return foods, nil
}

// ResetToday deletes the log of the current day
func (d *Diary) ResetToday(ctx context.Context) error {
	if err := d.store.ResetDay(ctx, d.today()); err != nil {
		return fmt.Errorf("failed to reset today: %w", err)
	}
	d.logger.Info("reset today's log")
	return nil
}

// RecordBurned caches calories burned for today
func (d *Diary) RecordBurned(ctx context.Context, active float64, basal *float64) error {
	return d.store.SaveHealthData(ctx, &types.HealthData{
		ActiveEnergyBurned: active,
		BasalEnergyBurned:  basal,
		LastUpdated:        d.now(),
	})
}

func (d *Diary) today() string {
	return types.DayKey(d.now())
}
