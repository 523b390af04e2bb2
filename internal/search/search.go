// Package search merges local catalog matches with remote nutrition lookups.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caloriepad/caloriepad/internal/catalog"
	"github.com/caloriepad/caloriepad/internal/config"
	"github.com/caloriepad/caloriepad/internal/storage"
	"github.com/caloriepad/caloriepad/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrQueryTooShort is returned by CheckQuery for queries that are not
// searched
var ErrQueryTooShort = errors.New("query too short")

// LocalCatalog searches the local catalog
type LocalCatalog interface {
	Search(ctx context.Context, query string) ([]types.FoodItem, error)
}

// RemoteSearcher searches a remote database. Failures yield an empty result.
type RemoteSearcher interface {
	Search(ctx context.Context, query string) []types.FoodItem
}

var _ LocalCatalog = (*catalog.Catalog)(nil)

// Query describes a search
type Query struct {
	Text string

	// Category keeps only foods of this category when set
	Category types.Category

	// Limit caps the result count. 0 uses the configured suggestion limit,
	// a negative value returns everything.
	Limit int

	// IncludeRemote also queries the remote database
	IncludeRemote bool
}

// Service runs searches. It is safe for concurrent use.
type Service struct {
	local  LocalCatalog
	remote RemoteSearcher
	cfg    config.SearchConfig
	logger *zap.Logger
}

// NewService creates a search service. remote may be nil for offline use.
func NewService(local LocalCatalog, remote RemoteSearcher, cfg config.SearchConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		local:  local,
		remote: remote,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckQuery returns ErrQueryTooShort when text would not be searched
func (s *Service) CheckQuery(text string) error {
	if n := len([]rune(strings.TrimSpace(text))); n <= s.cfg.MinQueryLength {
		return fmt.Errorf("%w: need more than %d characters, got %d", ErrQueryTooShort, s.cfg.MinQueryLength, n)
	}
	return nil
}

// Search returns local matches followed by remote matches whose names are
// not already present. Short queries return an empty result.
func (s *Service) Search(ctx context.Context, q Query) ([]types.FoodItem, error) {
	if s.CheckQuery(q.Text) != nil {
		return []types.FoodItem{}, nil
	}
	if q.Category != "" && !q.Category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", q.Category)
	}

	merged, err := s.searchAll(ctx, strings.TrimSpace(q.Text), q.IncludeRemote)
	if err != nil {
		return nil, err
	}

	if q.Category != "" {
		filtered := merged[:0]
		for _, food := range merged {
			if food.Category == q.Category {
				filtered = append(filtered, food)
			}
		}
		merged = filtered
	}

	limit := q.Limit
	if limit == 0 {
		limit = s.cfg.SuggestionLimit
	}
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// searchAll runs the local and remote searches concurrently and merges them
func (s *Service) searchAll(ctx context.Context, text string, includeRemote bool) ([]types.FoodItem, error) {
	var local, remote []types.FoodItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.local.Search(gctx, text)
		if err != nil {
			return fmt.Errorf("local search failed: %w", err)
		}
		return nil
	})
	if includeRemote && s.remote != nil {
		g.Go(func() error {
			// Remote failures are already logged and never fail the group
			remote = s.remote.Search(gctx, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := catalog.MergeResults(local, remote)
	s.logger.Debug("search",
		zap.String("query", text),
		zap.Int("local", len(local)),
		zap.Int("remote", len(remote)),
		zap.Int("merged", len(merged)))
	return merged, nil
}

// FindExact returns the food whose name equals name case-insensitively,
// searching the local catalog first. Returns storage.ErrNotFound when
// nothing matches.
func (s *Service) FindExact(ctx context.Context, name string, includeRemote bool) (*types.FoodItem, error) {
	key := types.NormalizeName(name)
	if key == "" {
		return nil, fmt.Errorf("food name is required")
	}

	merged, err := s.searchAll(ctx, strings.TrimSpace(name), includeRemote)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].Key() == key {
			return &merged[i], nil
		}
	}
	return nil, fmt.Errorf("food %q: %w", strings.TrimSpace(name), storage.ErrNotFound)
}
