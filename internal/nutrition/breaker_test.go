package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCircuitBreakerTransitions(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(3, 2, 30*time.Second, nil)
	cb.now = func() time.Time { return now }

	assert.NoError(t, cb.Allow())
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	_, failures, _ := cb.Metrics()
	assert.Zero(t, failures, "success resets failures while closed")

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	assert.Equal(t, CircuitOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)

	now = now.Add(31 * time.Second)
	assert.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	// A half-open failure reopens immediately
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	now = now.Add(31 * time.Second)
	assert.NoError(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())

	state, failures, successes := cb.Metrics()
	assert.Equal(t, CircuitClosed, state)
	assert.Zero(t, failures)
	assert.Zero(t, successes)
}

func TestCircuitBreakerLogsTimeInState(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, 1, 30*time.Second, zap.New(core))
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(45 * time.Second)
	require.NoError(t, cb.Allow())

	transitions := logs.FilterMessage("circuit breaker state transition").All()
	require.Len(t, transitions, 2)
	last := transitions[1].ContextMap()
	assert.Equal(t, "HALF_OPEN", last["to"])
	assert.Equal(t, 45*time.Second, last["in_state"])
}

func TestCircuitStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", CircuitClosed.String())
	assert.Equal(t, "OPEN", CircuitOpen.String())
	assert.Equal(t, "HALF_OPEN", CircuitHalfOpen.String())
	assert.Equal(t, "UNKNOWN", CircuitState(42).String())
}
