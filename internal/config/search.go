package config

import "fmt"

// SearchConfig holds configuration for food search
type SearchConfig struct {
	// MinQueryLength is the trimmed length a query must exceed before searching
	// Default: 2
	MinQueryLength int `mapstructure:"min_query_length" yaml:"min_query_length"`

	// SuggestionLimit caps the merged result list, 0 for unlimited
	// Default: 6
	SuggestionLimit int `mapstructure:"suggestion_limit" yaml:"suggestion_limit"`

	// PopularLimit is the number of foods shown as popular
	// Default: 10
	PopularLimit int `mapstructure:"popular_limit" yaml:"popular_limit"`
}

// DefaultSearchConfig returns the default search configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MinQueryLength:  2,
		SuggestionLimit: 6,
		PopularLimit:    10,
	}
}

// Validate checks if the configuration has valid values
func (c SearchConfig) Validate() error {
	if c.MinQueryLength < 0 || c.MinQueryLength > 20 {
		return fmt.Errorf("search.min_query_length must be between 0 and 20 (got %d)", c.MinQueryLength)
	}
	if c.SuggestionLimit < 0 {
		return fmt.Errorf("search.suggestion_limit cannot be negative (got %d)", c.SuggestionLimit)
	}
	if c.PopularLimit < 1 {
		return fmt.Errorf("search.popular_limit must be at least 1 (got %d)", c.PopularLimit)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c SearchConfig) String() string {
	return fmt.Sprintf("SearchConfig{MinQueryLength: %d, SuggestionLimit: %d, PopularLimit: %d}",
		c.MinQueryLength, c.SuggestionLimit, c.PopularLimit)
}
