package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/storage/memory"
	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (*Catalog, *storage.Store) {
	t.Helper()
	store := storage.NewStore(memory.New())
	c := New(store, nil)
	c.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }
	return c, store
}

func food(id, name string, calories int, category types.Category, source types.Source) types.FoodItem {
	return types.FoodItem{
		ID:                 id,
		Name:               name,
		CaloriesPerServing: calories,
		ServingSize:        "1 serving",
		Category:           category,
		Source:             source,
	}
}

func names(foods []types.FoodItem) []string {
	out := make([]string, len(foods))
	for i, f := range foods {
		out[i] = f.Name
	}
	return out
}

func TestLoadSeed(t *testing.T) {
	foods, err := LoadSeed()
	require.NoError(t, err)
	require.NotEmpty(t, foods)

	categories := map[types.Category]int{}
	for _, f := range foods {
		assert.Equal(t, types.SourceBase, f.Source)
		assert.True(t, strings.HasPrefix(f.ID, "base-"), f.ID)
		categories[f.Category]++
	}
	for _, c := range types.Categories {
		assert.Positive(t, categories[c], "seed has no %s", c)
	}
}

func TestParseSeedRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "- {name: Apple, calories: 95, serving: 1, category: food}"},
		{"bad category", "- {id: a, name: Apple, calories: 95, serving: 1, category: meal}"},
		{"duplicate name", "- {id: a, name: Apple, calories: 95, category: food}\n- {id: b, name: apple, calories: 90, category: food}"},
		{"not a list", "apple: 95"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestInitMergesOverlay(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	overlay := []types.FoodItem{
		food("custom-1", "APPLE", 80, types.CategoryFood, types.SourceCustom),
		food("custom-2", "Grandma's Soup", 210, types.CategoryFood, types.SourceCustom),
	}
	require.NoError(t, store.SavePersonalFoods(ctx, overlay))

	all, err := c.All(ctx)
	require.NoError(t, err)

	seed, err := LoadSeed()
	require.NoError(t, err)
	assert.Len(t, all, len(seed)+1, "overlay replaces Apple and appends the soup")

	apple, err := c.ByName(ctx, "apple")
	require.NoError(t, err)
	assert.Equal(t, "custom-1", apple.ID)
	assert.Equal(t, 80, apple.CaloriesPerServing)
	assert.Equal(t, "Grandma's Soup", all[len(all)-1].Name)

	// Init is idempotent; the overlay is only re-read on Reload
	require.NoError(t, store.SavePersonalFoods(ctx, nil))
	require.NoError(t, c.Init(ctx))
	_, err = c.ByID(ctx, "custom-2")
	require.NoError(t, err)

	require.NoError(t, c.Reload(ctx))
	_, err = c.ByID(ctx, "custom-2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInitCorruptOverlay(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)
	require.NoError(t, store.Backend().Set(ctx, storage.KeyPersonalFoods, []byte("oops")))

	_, err := c.All(ctx)
	assert.ErrorContains(t, err, "personal foods")
}

func TestAddCustomFood(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	added, err := c.AddCustomFood(ctx, types.FoodItem{Name: "  Protein Pancakes ", CaloriesPerServing: 320})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(added.ID, CustomIDPrefix))
	assert.Equal(t, "Protein Pancakes", added.Name)
	assert.Equal(t, "1 serving", added.ServingSize)
	assert.Equal(t, types.CategoryFood, added.Category)
	assert.Equal(t, types.SourceCustom, added.Source)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := c.ByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, *added, *got)

	overlay, err := store.PersonalFoods(ctx)
	require.NoError(t, err)
	require.Len(t, overlay, 1)
	assert.Equal(t, added.ID, overlay[0].ID)

	_, err = c.AddCustomFood(ctx, types.FoodItem{Name: "", CaloriesPerServing: 1})
	assert.Error(t, err)
}

func TestAddCustomFoodSameNameReplaces(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	before, err := c.All(ctx)
	require.NoError(t, err)

	_, err = c.AddCustomFood(ctx, types.FoodItem{Name: "Apple", CaloriesPerServing: 80})
	require.NoError(t, err)
	second, err := c.AddCustomFood(ctx, types.FoodItem{Name: "apple", CaloriesPerServing: 90})
	require.NoError(t, err)

	found, err := c.Search(ctx, "apple")
	require.NoError(t, err)
	apples := 0
	for _, f := range found {
		if f.Key() == "apple" {
			apples++
			assert.Equal(t, *second, f)
		}
	}
	assert.Equal(t, 1, apples)

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(before))

	overlay, err := store.PersonalFoods(ctx)
	require.NoError(t, err)
	require.Len(t, overlay, 1)
	assert.Equal(t, 90, overlay[0].CaloriesPerServing)

	require.NoError(t, c.Reload(ctx))
	reloaded, err := c.All(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(all, reloaded); diff != "" {
		t.Errorf("cache differs from reload (-cache +reload):\n%s", diff)
	}
}

func TestUpdateFood(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCatalog(t)

	banana, err := c.ByName(ctx, "Banana")
	require.NoError(t, err)

	edited := *banana
	edited.CaloriesPerServing = 120
	stored, err := c.UpdateFood(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, types.SourceCustom, stored.Source)

	all, err := c.All(ctx)
	require.NoError(t, err)
	count := 0
	for _, f := range all {
		if f.Key() == "banana" {
			count++
			assert.Equal(t, 120, f.CaloriesPerServing)
		}
	}
	assert.Equal(t, 1, count, "update replaces in place")

	// A new name is appended
	_, err = c.UpdateFood(ctx, food("", "Kombucha", 60, types.CategoryDrink, ""))
	require.NoError(t, err)
	kombucha, err := c.ByName(ctx, "kombucha")
	require.NoError(t, err)
	assert.Equal(t, 60, kombucha.CaloriesPerServing)

	overlay, err := store.PersonalFoods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana", "Kombucha"}, names(overlay))

	// The edit survives a reload
	require.NoError(t, c.Reload(ctx))
	got, err := c.ByName(ctx, "banana")
	require.NoError(t, err)
	assert.Equal(t, 120, got.CaloriesPerServing)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	all, err := c.All(ctx)
	require.NoError(t, err)

	blank, err := c.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, blank, len(all))

	results, err := c.Search(ctx, "CHOC")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Dark Chocolate", "Chocolate Chip Cookie"}, names(results))

	// Category names match too
	drinks, err := c.Search(ctx, "drink")
	require.NoError(t, err)
	byCategory, err := c.ByCategory(ctx, types.CategoryDrink)
	require.NoError(t, err)
	assert.Equal(t, names(byCategory), names(drinks))

	none, err := c.Search(ctx, "zzzz")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = c.ByCategory(ctx, "meal")
	assert.Error(t, err)
}

func TestPopularAndCategorized(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	popular, err := c.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, popular, DefaultPopularLimit)

	three, err := c.Popular(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, names(popular[:3]), names(three))

	groups, err := c.Categorized(ctx)
	require.NoError(t, err)
	all, err := c.All(ctx)
	require.NoError(t, err)
	total := 0
	for _, category := range types.Categories {
		for _, f := range groups[category] {
			assert.Equal(t, category, f.Category)
		}
		total += len(groups[category])
	}
	assert.Equal(t, len(all), total)
}

func TestMergeOverlay(t *testing.T) {
	base := []types.FoodItem{
		food("b1", "Apple", 95, types.CategoryFood, types.SourceBase),
		food("b2", "Tea", 2, types.CategoryDrink, types.SourceBase),
	}
	overlay := []types.FoodItem{
		food("c1", "Soup", 200, types.CategoryFood, ""),
		food("c2", " apple ", 80, types.CategoryFood, types.SourceCustom),
		food("c3", "SOUP", 220, types.CategoryFood, types.SourceCustom),
	}

	got := MergeOverlay(base, overlay)
	want := []types.FoodItem{
		food("c2", " apple ", 80, types.CategoryFood, types.SourceCustom),
		food("b2", "Tea", 2, types.CategoryDrink, types.SourceBase),
		food("c3", "SOUP", 220, types.CategoryFood, types.SourceCustom),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeOverlay() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Apple", base[0].Name, "base is not modified")
}

func TestMergeResults(t *testing.T) {
	tests := []struct {
		name   string
		local  []types.FoodItem
		remote []types.FoodItem
		want   []string
	}{
		{
			name: "local wins over remote",
			local: []types.FoodItem{
				food("b1", "Apple", 95, types.CategoryFood, types.SourceBase),
			},
			remote: []types.FoodItem{
				food("off-1", "apple", 52, types.CategoryFood, types.SourceRemote),
				food("off-2", "Apple pie", 237, types.CategoryFood, types.SourceRemote),
			},
			want: []string{"b1", "off-2"},
		},
		{
			name:  "first remote duplicate wins",
			local: nil,
			remote: []types.FoodItem{
				food("off-1", "Cola", 42, types.CategoryDrink, types.SourceRemote),
				food("off-2", "COLA ", 40, types.CategoryDrink, types.SourceRemote),
			},
			want: []string{"off-1"},
		},
		{
			name:  "both empty",
			local: nil, remote: nil,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeResults(tt.local, tt.remote)
			ids := make([]string, len(got))
			for i, f := range got {
				ids[i] = f.ID
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("MergeResults() ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	apple, err := c.ByName(ctx, "apple")
	require.NoError(t, err)

	on, err := c.ToggleFavorite(ctx, *apple)
	require.NoError(t, err)
	assert.True(t, on)

	isFav, err := c.IsFavorite(ctx, apple.ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	remote := food("off-123", "Kefir", 60, types.CategoryDrink, types.SourceRemote)
	require.NoError(t, c.AddFavorite(ctx, remote))
	require.NoError(t, c.AddFavorite(ctx, remote))

	favorites, err := c.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Kefir"}, names(favorites))

	on, err = c.ToggleFavorite(ctx, *apple)
	require.NoError(t, err)
	assert.False(t, on)

	assert.ErrorIs(t, c.RemoveFavorite(ctx, apple.ID), storage.ErrNotFound)
}
