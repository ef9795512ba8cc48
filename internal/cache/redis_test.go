package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLiveCache connects to REDIS_TEST_URL and skips the test when it is unset
// or unreachable.
func newLiveCache(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	ctx := context.Background()
	_, ok, err := c.Get(ctx, "catalog:orders")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "catalog:orders", "x", time.Minute))
	assert.Error(t, c.Ping(ctx))
	_, err = c.Purge(ctx, "catalog:")
	assert.Error(t, err)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newLiveCache(t)
	ctx := context.Background()
	prefix := "shopchat-test:" + t.Name() + ":"
	t.Cleanup(func() { c.Purge(context.Background(), prefix) })

	_, ok, err := c.Get(ctx, prefix+"orders")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, prefix+"orders", "Total orders: 3, Delivered orders: 1", time.Minute))
	v, ok, err := c.Get(ctx, prefix+"orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Total orders: 3, Delivered orders: 1", v)

	require.NoError(t, c.Set(ctx, prefix+"revenue", "Total revenue: $1.00", time.Minute))
	n, err := c.Purge(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err = c.Get(ctx, prefix+"revenue")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheExpiry(t *testing.T) {
	c := newLiveCache(t)
	ctx := context.Background()
	key := "shopchat-test:" + t.Name()

	require.NoError(t, c.Set(ctx, key, "x", 100*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, ok, err := c.Get(ctx, key)
		return err == nil && !ok
	}, 2*time.Second, 50*time.Millisecond)
}
