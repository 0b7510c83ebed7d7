package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aniladanir/campaign-messenger/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:p1:v0", `{"totalMessagesSent":1}`, time.Minute))

	got, err := c.Get(ctx, "stats:p1:v0")
	require.NoError(t, err)
	assert.Equal(t, `{"totalMessagesSent":1}`, got)
	assert.Greater(t, mr.TTL("stats:p1:v0"), time.Duration(0))
}

func TestRedisCache_GetMiss(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisCache_Incr(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	ctx := context.Background()

	v, err := c.Incr(ctx, "stats:ver:p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	v, err = c.Incr(ctx, "stats:ver:p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)
}

func TestRedisCache_ContextCanceled(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Set(ctx, "k", "v", time.Second)
	assert.Error(t, err)
}
