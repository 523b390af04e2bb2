package nutrition

import (
	"context"

	"github.com/caloriepad/caloriepad/internal/types"
	"go.uber.org/zap"
)

// Lookup finds foods in a remote database
type Lookup interface {
	Search(ctx context.Context, query string) ([]types.FoodItem, error)
}

var _ Lookup = (*Client)(nil)

// Searcher wraps a Lookup so that remote failures never reach callers:
// errors are logged and an empty result is returned
type Searcher struct {
	lookup Lookup
	logger *zap.Logger
}

// NewSearcher creates a Searcher. A nil lookup yields a searcher that always
// returns nothing (offline mode).
func NewSearcher(lookup Lookup, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{lookup: lookup, logger: logger}
}

// Enabled reports whether a remote lookup is configured
func (s *Searcher) Enabled() bool {
	return s.lookup != nil
}

// Search returns remote matches for query, or an empty slice on any error
func (s *Searcher) Search(ctx context.Context, query string) []types.FoodItem {
	if s.lookup == nil {
		return []types.FoodItem{}
	}
	foods, err := s.lookup.Search(ctx, query)
	if err != nil {
		level := zap.WarnLevel
		if IsCircuitOpen(err) || ctx.Err() != nil {
			level = zap.DebugLevel
		}
		s.logger.Log(level, "remote food search failed", zap.String("query", query), zap.Error(err))
		return []types.FoodItem{}
	}
	if foods == nil {
		foods = []types.FoodItem{}
	}
	return foods
}
