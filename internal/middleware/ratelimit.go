package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// ParseLimit turns a "<n>/<second|minute|hour|day>" string into a rate and
// burst. The count doubles as the burst so a client can spend its whole
// window at once.
func ParseLimit(s string) (rate.Limit, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("rate limit %q: want <n>/<period>", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n <= 0 {
		return 0, 0, fmt.Errorf("rate limit %q: count must be a positive integer", s)
	}
	var period time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "second":
		period = time.Second
	case "minute":
		period = time.Minute
	case "hour":
		period = time.Hour
	case "day":
		period = 24 * time.Hour
	default:
		return 0, 0, fmt.Errorf("rate limit %q: period must be second, minute, hour, or day", s)
	}
	return rate.Limit(float64(n) / period.Seconds()), n, nil
}

// RateLimiter keeps one token bucket per client IP. Buckets are never evicted;
// the per-entry footprint is small and the process restarts often enough.
type RateLimiter struct {
	log     *logger.Logger
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewRateLimiter fails on a malformed limit string so a typo in config is
// caught at startup, not silently ignored.
func NewRateLimiter(log *logger.Logger, limitSpec string) (*RateLimiter, error) {
	limit, burst, err := ParseLimit(limitSpec)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		log:     log.With("middleware", "RateLimiter"),
		limit:   limit,
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}, nil
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = rate.NewLimiter(rl.limit, rl.burst)
		rl.buckets[key] = b
	}
	return b
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket(c.ClientIP()).Allow() {
			rl.log.Warn("Rate limit exceeded", "ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "too many requests", "code": "rate_limited"}})
			return
		}
		c.Next()
	}
}
