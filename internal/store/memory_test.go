package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "msg:1")
	require.NoError(t, err)
	assert.False(t, ok)

	reply := []byte("<xml/>")
	require.NoError(t, c.Set(ctx, "msg:1", reply, time.Minute))
	reply[0] = 'X'

	got, ok, err := c.Get(ctx, "msg:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<xml/>", string(got))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Second))
	now = now.Add(9 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_PurgesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	for i := 0; i < purgeEvery-1; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("old:%d", i), []byte("v"), time.Second))
	}
	now = now.Add(time.Minute)
	require.NoError(t, c.Set(ctx, "fresh", []byte("v"), time.Second))
	assert.Equal(t, 1, c.Len())
}

func TestNew_MemoryDriver(t *testing.T) {
	c := New(config.CacheConfig{Driver: "memory"}, zap.NewNop())
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
	assert.NoError(t, c.Close())
}
