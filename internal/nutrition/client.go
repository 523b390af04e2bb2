// Package nutrition looks up foods in the Open Food Facts database and maps
// them into catalog records.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caloriepad/caloriepad/internal/config"
	"github.com/caloriepad/caloriepad/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// maxConcurrentRequests bounds in-flight requests to the API
const maxConcurrentRequests = 2

// maxErrorBody is how much of an error response body is kept in errors
const maxErrorBody = 512

const searchFields = "code,product_name,nutriments,categories"

// Client queries the Open Food Facts search endpoint
type Client struct {
	cfg        config.RemoteConfig
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
	limiter    *rate.Limiter
	sem        *semaphore.Weighted
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a client from cfg. A nil logger disables logging.
func NewClient(cfg config.RemoteConfig, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("nutrition")

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{},
		breaker: NewCircuitBreaker(cfg.CircuitFailureThreshold, cfg.CircuitSuccessThreshold,
			cfg.CircuitOpenTimeout, logger),
		sem:    semaphore.NewWeighted(maxConcurrentRequests),
		logger: logger,
		now:    time.Now,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return c, nil
}

// Breaker exposes the circuit breaker for status reporting
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// Search returns the foods matching query. Products without a name
// containing the query or without calories per 100g are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]types.FoodItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire request slot: %w", err)
	}
	defer c.sem.Release(1)

	var resp *searchResponse
	err := c.retryWithBackoff(ctx, "search", func(ctx context.Context) error {
		var err error
		resp, err = c.fetch(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := c.now()
	products := filterProducts(resp.Products, query)
	foods := make([]types.FoodItem, 0, len(products))
	for i, p := range products {
		foods = append(foods, mapProduct(p, i, now))
	}

	c.logger.Debug("remote search",
		zap.String("query", query),
		zap.Int("products", len(resp.Products)),
		zap.Int("kept", len(foods)))
	return foods, nil
}

// searchURL builds the search.pl request URL
func (c *Client) searchURL(query string) (string, error) {
	base, err := url.JoinPath(c.baseURL, "cgi", "search.pl")
	if err != nil {
		return "", fmt.Errorf("failed to build request URL: %w", err)
	}
	q := url.Values{}
	q.Set("search_terms", query)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", strconv.Itoa(c.cfg.PageSize))
	q.Set("fields", searchFields)
	return base + "?" + q.Encode(), nil
}

// fetch performs one request
func (c *Client) fetch(ctx context.Context, query string) (*searchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqURL, err := c.searchURL(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return &out, nil
}

// IsCircuitOpen reports whether err came from an open circuit breaker
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
