// Package cache memoizes expensive read paths for a fixed TTL, with
// glob-pattern bulk invalidation on writes. Redis backs the cache when a
// server is reachable at startup; otherwise an in-process map scoped to the
// process lifetime takes over (not shared across workers, lost on restart).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// ErrMiss is returned by Get when the key is absent or expired. Decode
// failures also surface as a miss so a corrupt entry never breaks a read
// path.
var ErrMiss = fmt.Errorf("cache miss")

type Cache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePattern removes every key matching the glob and reports how many
	// were dropped.
	DeletePattern(ctx context.Context, pattern string) (int, error)
	Backend() string
}

// New probes Redis at REDIS_ADDR; when the ping fails or no address is
// configured it degrades to the in-memory fallback instead of failing
// startup.
func New(log *logger.Logger) Cache {
	cacheLog := log.With("service", "Cache")
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		cacheLog.Warn("REDIS_ADDR not set, using in-memory cache")
		return NewMemory()
	}
	rc, err := NewRedis(cacheLog, addr)
	if err != nil {
		cacheLog.Warn("Redis unreachable, using in-memory cache", "addr", addr, "error", err)
		return NewMemory()
	}
	cacheLog.Info("Cache backed by redis", "addr", addr)
	return rc
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// BuildKey joins a prefix with positional args and sorted keyword args into a
// stable cache key. Positional order is significant.
func BuildKey(prefix string, args []string, kwargs map[string]string) string {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, prefix)
	parts = append(parts, args...)
	if len(kwargs) > 0 {
		names := make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, name+"="+kwargs[name])
		}
	}
	return strings.Join(parts, ":")
}
