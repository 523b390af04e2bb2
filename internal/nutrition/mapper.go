package nutrition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/caloriepad/caloriepad/internal/types"
)

const (
	maxNameLength   = 45
	truncatedLength = 42
	remoteServing   = "100g"
	unknownFoodName = "Unknown Food"
	remoteIDPrefix  = "off-"
)

// searchResponse is the subset of a search.pl response we read
type searchResponse struct {
	Count    flexString `json:"count"`
	Products []product  `json:"products"`
}

type product struct {
	Code        flexString                 `json:"code"`
	ProductName string                     `json:"product_name"`
	Nutriments  map[string]json.RawMessage `json:"nutriments"`
	Categories  string                     `json:"categories"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// nutrient returns the numeric value of a nutriment, which the API sends as
// a number or a numeric string. Missing or malformed values report false.
func (p *product) nutrient(name string) (float64, bool) {
	raw, ok := p.Nutriments[name]
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// calories returns the first non-zero energy value, rounded
func (p *product) calories() int {
	for _, key := range []string{"energy-kcal_100g", "energy-kcal", "energy_value"} {
		if n, ok := p.nutrient(key); ok && n != 0 {
			return int(math.Round(n))
		}
	}
	return 0
}

// filterProducts keeps products whose name contains query and that report
// calories per 100g
func filterProducts(products []product, query string) []product {
	q := strings.ToLower(strings.TrimSpace(query))
	var kept []product
	for _, p := range products {
		name := strings.ToLower(p.ProductName)
		if name == "" || !strings.Contains(name, q) {
			continue
		}
		if n, ok := p.nutrient("energy-kcal_100g"); !ok || n == 0 {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// mapProduct converts the index'th product of a response into a remote food
// item. Products without a code get an ID from now and index.
func mapProduct(p product, index int, now time.Time) types.FoodItem {
	id := remoteIDPrefix + string(p.Code)
	if p.Code == "" {
		id = fmt.Sprintf("%s%d-%d", remoteIDPrefix, now.UnixNano(), index)
	}

	name := p.ProductName
	if name == "" {
		name = unknownFoodName
	}

	return types.FoodItem{
		ID:                 id,
		Name:               cleanName(name),
		CaloriesPerServing: p.calories(),
		ServingSize:        remoteServing,
		Category:           categorize(p.Categories),
		Source:             types.SourceRemote,
		CreatedAt:          now,
	}
}

var namePrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Fast foods?,?\s*`),
	regexp.MustCompile(`(?i)^Restaurant?,?\s*`),
	regexp.MustCompile(`(?i)^Brand name,?\s*`),
	regexp.MustCompile(`(?i)^Prepared,?\s*`),
}

// cleanName strips boilerplate prefixes, capitalizes the first letter and
// shortens long names to 42 characters plus "..."
func cleanName(name string) string {
	for _, re := range namePrefixes {
		name = re.ReplaceAllString(name, "")
	}

	if r, size := utf8.DecodeRuneInString(name); size > 0 {
		name = string(unicode.ToUpper(r)) + name[size:]
	}

	if utf8.RuneCountInString(name) > maxNameLength {
		runes := []rune(name)
		name = string(runes[:truncatedLength]) + "..."
	}
	return name
}

var (
	drinkKeywords = []string{"beverage", "drink", "juice", "coffee", "tea", "soda"}
	snackKeywords = []string{"snack", "chip", "cookie", "candy", "chocolate"}
)

// categorize maps the API's free-text categories to a food category
func categorize(categories string) types.Category {
	lower := strings.ToLower(categories)
	for _, kw := range drinkKeywords {
		if strings.Contains(lower, kw) {
			return types.CategoryDrink
		}
	}
	for _, kw := range snackKeywords {
		if strings.Contains(lower, kw) {
			return types.CategorySnack
		}
	}
	return types.CategoryFood
}
