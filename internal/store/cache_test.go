package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	// 不存在的键按未命中处理，不返回错误
	_, ok, err := c.Get(ctx, "msg:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "msg:1", []byte("<xml/>"), time.Minute))
	assert.True(t, mr.Exists(DefaultPrefix+"msg:1"))

	got, ok, err := c.Get(ctx, "msg:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<xml/>", string(got))
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Second))
	assert.Equal(t, 10*time.Second, mr.TTL(DefaultPrefix+"k"))

	mr.FastForward(11 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNew_RedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(config.CacheConfig{Driver: "redis", Redis: config.RedisConfig{Address: mr.Addr()}}, zap.NewNop())
	defer c.Close()

	_, ok := c.(*RedisCache)
	assert.True(t, ok)
}

func TestNew_RedisUnreachableFallsBackToMemory(t *testing.T) {
	c := New(config.CacheConfig{Driver: "redis", Redis: config.RedisConfig{Address: "127.0.0.1:1"}}, zap.NewNop())
	defer c.Close()

	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
}
