package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	var got sample
	ok, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "stats", sample{Name: "posts", Count: 3}, time.Minute))
	ok, err = c.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample{Name: "posts", Count: 3}, got)

	require.NoError(t, c.Delete(ctx, "stats"))
	ok, err = c.Get(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 1, 30*time.Second))

	var v int
	ok, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, err = c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}
