package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in    string
		limit rate.Limit
		burst int
	}{
		{"10/second", rate.Limit(10), 10},
		{"60/minute", rate.Limit(1), 60},
		{"3600/hour", rate.Limit(1), 3600},
		{"100/day", rate.Limit(100.0 / 86400.0), 100},
		{" 5 / minute ", rate.Limit(5.0 / 60.0), 5},
		{"5/MINUTE", rate.Limit(5.0 / 60.0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			limit, burst, err := ParseLimit(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.limit), float64(limit), 1e-9)
			assert.Equal(t, tt.burst, burst)
		})
	}
}

func TestParseLimitRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "10", "/minute", "0/minute", "-3/minute", "ten/minute", "10/fortnight", "10/minute/hour"} {
		t.Run(in, func(t *testing.T) {
			_, _, err := ParseLimit(in)
			assert.Error(t, err)
		})
	}
}

func TestNewRateLimiterRejectsBadSpec(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)

	_, err = NewRateLimiter(log, "lots/day")
	assert.Error(t, err)

	rl, err := NewRateLimiter(log, "2/second")
	require.NoError(t, err)

	b := rl.bucket("203.0.113.9")
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	// A different client gets its own bucket.
	assert.True(t, rl.bucket("203.0.113.10").Allow())
}
