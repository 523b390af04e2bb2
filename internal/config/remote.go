package config

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultRemoteBaseURL is the public Open Food Facts endpoint
const DefaultRemoteBaseURL = "https://world.openfoodfacts.org"

// RemoteConfig holds configuration for the remote nutrition lookup
type RemoteConfig struct {
	// Enabled controls whether search consults the remote service at all
	// Default: true
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// BaseURL is the scheme and host of the Open Food Facts API
	// Default: https://world.openfoodfacts.org
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// UserAgent identifies the client to the API operators
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// Timeout bounds a single HTTP request
	// Default: 10s, Range: 1s-2m
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// PageSize is the number of products requested per search
	// Default: 20, Range: 1-100
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// MaxRetries is the number of retries after the first attempt
	// Only timeouts, 429 and 5xx responses are retried
	// Default: 2, Range: 0-10
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// InitialBackoff is the delay before the first retry, doubled each retry
	// Default: 500ms
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`

	// MaxBackoff caps the retry delay
	// Default: 5s, must be >= InitialBackoff
	MaxBackoff time.Duration `mapstructure:"max_backoff" yaml:"max_backoff"`

	// CircuitFailureThreshold is the number of consecutive failures that opens the circuit
	// Default: 5
	CircuitFailureThreshold int `mapstructure:"circuit_failure_threshold" yaml:"circuit_failure_threshold"`

	// CircuitSuccessThreshold is the number of half-open successes that closes the circuit
	// Default: 2
	CircuitSuccessThreshold int `mapstructure:"circuit_success_threshold" yaml:"circuit_success_threshold"`

	// CircuitOpenTimeout is how long the circuit stays open before probing again
	// Default: 30s
	CircuitOpenTimeout time.Duration `mapstructure:"circuit_open_timeout" yaml:"circuit_open_timeout"`

	// RateLimit is the sustained request rate in requests per second
	// Open Food Facts asks search clients to stay around 10 per minute
	// Default: 0.5, 0 disables limiting
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`

	// RateBurst is the number of requests allowed back to back
	// Default: 3
	RateBurst int `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// DefaultRemoteConfig returns the default remote lookup configuration
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Enabled:                 true,
		BaseURL:                 DefaultRemoteBaseURL,
		UserAgent:               "caloriepad/1.0",
		Timeout:                 10 * time.Second,
		PageSize:                20,
		MaxRetries:              2,
		InitialBackoff:          500 * time.Millisecond,
		MaxBackoff:              5 * time.Second,
		CircuitFailureThreshold: 5,
		CircuitSuccessThreshold: 2,
		CircuitOpenTimeout:      30 * time.Second,
		RateLimit:               0.5,
		RateBurst:               3,
	}
}

// Validate checks if the configuration has valid values
func (c RemoteConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote.base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.Timeout < time.Second || c.Timeout > 2*time.Minute {
		return fmt.Errorf("remote.timeout must be between 1s and 2m (got %s)", c.Timeout)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("remote.page_size must be between 1 and 100 (got %d)", c.PageSize)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("remote.max_retries must be between 0 and 10 (got %d)", c.MaxRetries)
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("remote.initial_backoff must be positive (got %s)", c.InitialBackoff)
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("remote.max_backoff (%s) must be >= remote.initial_backoff (%s)",
			c.MaxBackoff, c.InitialBackoff)
	}
	if c.CircuitFailureThreshold < 1 {
		return fmt.Errorf("remote.circuit_failure_threshold must be at least 1 (got %d)",
			c.CircuitFailureThreshold)
	}
	if c.CircuitSuccessThreshold < 1 {
		return fmt.Errorf("remote.circuit_success_threshold must be at least 1 (got %d)",
			c.CircuitSuccessThreshold)
	}
	if c.CircuitOpenTimeout <= 0 {
		return fmt.Errorf("remote.circuit_open_timeout must be positive (got %s)", c.CircuitOpenTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("remote.rate_limit cannot be negative (got %v)", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("remote.rate_burst must be at least 1 when rate limiting (got %d)", c.RateBurst)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c RemoteConfig) String() string {
	return fmt.Sprintf(
		"RemoteConfig{Enabled: %t, BaseURL: %s, Timeout: %s, PageSize: %d, "+
			"MaxRetries: %d, Backoff: %s-%s, Circuit: %d/%d/%s, Rate: %v/s burst %d}",
		c.Enabled, c.BaseURL, c.Timeout, c.PageSize,
		c.MaxRetries, c.InitialBackoff, c.MaxBackoff,
		c.CircuitFailureThreshold, c.CircuitSuccessThreshold, c.CircuitOpenTimeout,
		c.RateLimit, c.RateBurst,
	)
}
