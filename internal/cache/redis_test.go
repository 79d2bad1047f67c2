package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := New(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetAndGet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	want := models.DashboardStats{TotalMilkSold: 12.5, GrandTotal: 2750}
	require.NoError(t, c.Set(ctx, "dashboard:03001234567:2026-03", want, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("dashboard:03001234567:2026-03"))

	var got models.DashboardStats
	found, err := c.Get(ctx, "dashboard:03001234567:2026-03", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestCache_GetMissing(t *testing.T) {
	c, _ := setupTestCache(t)

	var got models.DashboardStats
	found, err := c.Get(context.Background(), "no_such_key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetCorrupt(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var got models.DashboardStats
	_, err := c.Get(context.Background(), "k", &got)
	assert.Error(t, err)
}

func TestCache_Invalidate(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))

	require.NoError(t, c.Invalidate(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), config.RedisConnection{AddressRedis: addr, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
