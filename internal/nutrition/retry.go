package nutrition

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("open food facts API returned status %d: %s", e.StatusCode, e.Body)
}

// isRetriableError determines if an error is transient: timeouts, rate
// limiting, server errors and dropped connections
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF")
}

// retryWithBackoff runs fn until it succeeds, fails with a non-retriable
// error, or runs out of attempts. Each attempt passes the circuit breaker
// and gets its own timeout.
func (c *Client) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	attempt := func() error {
		if err := c.breaker.Allow(); err != nil {
			state, failures, _ := c.breaker.Metrics()
			c.logger.Warn("remote call blocked by circuit breaker",
				zap.String("operation", operation),
				zap.Stringer("state", state),
				zap.Int("failures", failures))
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		err := fn(attemptCtx)
		switch {
		case err == nil:
			c.breaker.RecordSuccess()
		case isRetriableError(err):
			// Client errors do not count against the breaker
			c.breaker.RecordFailure()
		}
		return err
	}

	err := retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(uint(c.cfg.MaxRetries+1)),
		retry.Delay(c.cfg.InitialBackoff),
		retry.MaxDelay(c.cfg.MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return retry.IsRecoverable(err) && isRetriableError(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("remote call failed, retrying",
				zap.String("operation", operation),
				zap.Uint("attempt", n+1),
				zap.Int("max_attempts", c.cfg.MaxRetries+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("%s failed: %w", operation, err)
	}
	return nil
}
