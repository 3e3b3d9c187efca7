package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	type profile struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	require.NoError(t, c.Set(ctx, "user:1:profile", profile{Name: "Ada", Age: 36}, time.Minute))

	var got profile
	require.NoError(t, c.Get(ctx, "user:1:profile", &got))
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, 36, got.Age)
}

func TestMemoryMissOnAbsentKey(t *testing.T) {
	c := NewMemory()
	var out string
	assert.ErrorIs(t, c.Get(context.Background(), "nope", &out), ErrMiss)
}

func TestMemoryTTLExpiry(t *testing.T) {
	mc := NewMemory().(*memoryCache)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return current }

	require.NoError(t, mc.Set(ctx, "k", "v", 30*time.Second))

	var out string
	require.NoError(t, mc.Get(ctx, "k", &out))
	assert.Equal(t, "v", out)

	current = current.Add(31 * time.Second)
	assert.ErrorIs(t, mc.Get(ctx, "k", &out), ErrMiss)
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	mc := NewMemory().(*memoryCache)
	ctx := context.Background()

	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return current }

	require.NoError(t, mc.Set(ctx, "k", "v", 0))
	current = current.Add(24 * time.Hour)

	var out string
	assert.NoError(t, mc.Get(ctx, "k", &out))
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	var out string
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrMiss)
}

func TestMemoryDeletePattern(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user:1:profile", "a", 0))
	require.NoError(t, c.Set(ctx, "user:1:settings", "b", 0))
	require.NoError(t, c.Set(ctx, "user:2:profile", "c", 0))

	deleted, err := c.DeletePattern(ctx, "user:1:*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	var out string
	assert.ErrorIs(t, c.Get(ctx, "user:1:profile", &out), ErrMiss)
	assert.ErrorIs(t, c.Get(ctx, "user:1:settings", &out), ErrMiss)
	assert.NoError(t, c.Get(ctx, "user:2:profile", &out))
	assert.Equal(t, "c", out)
}

func TestMemoryDeletePatternBadGlob(t *testing.T) {
	c := NewMemory()
	_, err := c.DeletePattern(context.Background(), "user:[")
	assert.Error(t, err)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "courses", BuildKey("courses", nil, nil))
	assert.Equal(t, "course:abc:subjects", BuildKey("course", []string{"abc", "subjects"}, nil))

	// Keyword args sort by name so the key is stable regardless of map order.
	key := BuildKey("list", []string{"x"}, map[string]string{"page": "2", "limit": "10"})
	assert.Equal(t, "list:x:limit=10:page=2", key)
}
