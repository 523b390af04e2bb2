package nutrition

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/caloriepad/caloriepad/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fast foods, cheeseburger", "Cheeseburger"},
		{"fast food hamburger", "Hamburger"},
		{"Restaurant, Chinese, fried rice", "Chinese, fried rice"},
		{"Brand name, cola", "Cola"},
		{"PREPARED oatmeal", "Oatmeal"},
		{"already Clean", "Already Clean"},
		{"éclair au chocolat", "Éclair au chocolat"},
		{"", ""},
		{strings.Repeat("a", 45), "A" + strings.Repeat("a", 44)},
		{strings.Repeat("b", 46), "B" + strings.Repeat("b", 41) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanName(tt.in))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		categories string
		want       types.Category
	}{
		{"Beverages, Sodas", types.CategoryDrink},
		{"Green TEA", types.CategoryDrink},
		{"Fruit juices", types.CategoryDrink},
		{"Snacks, Salty snacks, Chips", types.CategorySnack},
		{"Dark chocolate bars", types.CategorySnack},
		{"Chocolate milk drinks", types.CategoryDrink},
		{"Cereals", types.CategoryFood},
		{"", types.CategoryFood},
	}
	for _, tt := range tests {
		t.Run(tt.categories, func(t *testing.T) {
			assert.Equal(t, tt.want, categorize(tt.categories))
		})
	}
}

func TestProductDecoding(t *testing.T) {
	var p product
	err := json.Unmarshal([]byte(`{
		"code": 12345,
		"product_name": "Oat milk",
		"nutriments": {"energy-kcal_100g": "0", "energy-kcal": " 46.4 ", "energy_value": 194, "fat": "n/a"}
	}`), &p)
	require.NoError(t, err)

	assert.Equal(t, flexString("12345"), p.Code)
	assert.Equal(t, 46, p.calories(), "zero values fall through to the next key")

	_, ok := p.nutrient("fat")
	assert.False(t, ok)
	_, ok = p.nutrient("sugars")
	assert.False(t, ok)

	var nullCode product
	require.NoError(t, json.Unmarshal([]byte(`{"code": null}`), &nullCode))
	assert.Equal(t, flexString(""), nullCode.Code)

	assert.Error(t, json.Unmarshal([]byte(`{"code": {}}`), &p))
}

func TestMapProductWithoutCode(t *testing.T) {
	now := time.Unix(0, 1700000000123456789)
	food := mapProduct(product{ProductName: "mystery"}, 0, now)
	assert.Equal(t, "off-1700000000123456789-0", food.ID)
	assert.Equal(t, "Mystery", food.Name)
	assert.Equal(t, 0, food.CaloriesPerServing)
	assert.Equal(t, types.CategoryFood, food.Category)

	other := mapProduct(product{ProductName: "another mystery"}, 1, now)
	assert.NotEqual(t, food.ID, other.ID)

	unnamed := mapProduct(product{Code: "1"}, 2, now)
	assert.Equal(t, "off-1", unnamed.ID)
	assert.Equal(t, "Unknown Food", unnamed.Name)
}

func TestFilterProducts(t *testing.T) {
	var resp searchResponse
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &resp))
	assert.Equal(t, flexString("4"), resp.Count)

	kept := filterProducts(resp.Products, "HAZELNUT")
	require.Len(t, kept, 2)
	assert.Equal(t, "Nutella hazelnut spread", kept[0].ProductName)

	assert.Empty(t, filterProducts(resp.Products, "quinoa"))
}
