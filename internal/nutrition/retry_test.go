package nutrition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"circuit open", fmt.Errorf("search: %w", ErrCircuitOpen), false},
		{"429", &StatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"500", &StatusError{StatusCode: http.StatusInternalServerError}, true},
		{"503 wrapped", fmt.Errorf("x: %w", &StatusError{StatusCode: http.StatusServiceUnavailable}), true},
		{"400", &StatusError{StatusCode: http.StatusBadRequest}, false},
		{"404", &StatusError{StatusCode: http.StatusNotFound}, false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), true},
		{"unknown", errors.New("something odd"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetriableError(tt.err))
		})
	}
}
