package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	rdb, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		mr.Close()
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func samplePrincipal() tenancy.Principal {
	return tenancy.Principal{
		ID:     "u-1",
		Email:  "rita@acme.test",
		Active: true,
		Memberships: []tenancy.Membership{
			{TenantID: "t-1", TenantSlug: "acme", TenantName: "Acme", Role: tenancy.RoleRecruiter, Primary: true},
		},
	}
}

func TestMembershipCache_RoundTripThroughRedis(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()
	c := NewMembershipCache(rdb, config.RedisConfig{Prefix: "hireloop:", TTL: time.Minute}, zap.NewNop())

	_, ok := c.Get(ctx, "u-1")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, samplePrincipal()))
	assert.True(t, mr.Exists("hireloop:principal:u-1"))
	assert.Equal(t, time.Minute, mr.TTL("hireloop:principal:u-1"))

	got, ok := c.Get(ctx, "u-1")
	require.True(t, ok)
	assert.Equal(t, samplePrincipal(), *got)

	require.NoError(t, c.Invalidate(ctx, "u-1"))
	_, ok = c.Get(ctx, "u-1")
	assert.False(t, ok)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.L2Hits)
	assert.EqualValues(t, 2, stats.Misses)
}

func TestMembershipCache_ExpiresWithTTL(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()
	c := NewMembershipCache(rdb, config.RedisConfig{TTL: time.Minute}, zap.NewNop())

	require.NoError(t, c.Set(ctx, samplePrincipal()))
	mr.FastForward(2 * time.Minute)
	_, ok := c.Get(ctx, "u-1")
	assert.False(t, ok)
}

func TestMultiLayer_L1ServesAndExpires(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()
	c := NewMultiLayer[tenancy.Principal](MultiLayerConfig{
		RedisClient: rdb,
		KeyPrefix:   "t:",
		L1TTL:       10 * time.Second,
		L2TTL:       time.Minute,
	}, zap.NewNop())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "u-1", samplePrincipal()))
	_, layer, ok := c.Get(ctx, "u-1")
	require.True(t, ok)
	assert.Equal(t, L1Memory, layer)

	now = now.Add(11 * time.Second)
	_, layer, ok = c.Get(ctx, "u-1")
	require.True(t, ok)
	assert.Equal(t, L2Redis, layer)

	mr.Del("t:u-1")
	_, layer, ok = c.Get(ctx, "u-1")
	require.True(t, ok)
	assert.Equal(t, L1Memory, layer)

	require.NoError(t, c.Delete(ctx, "u-1"))
	_, _, ok = c.Get(ctx, "u-1")
	assert.False(t, ok)
}

func TestMultiLayer_MemoryOnlyIsBounded(t *testing.T) {
	c := NewMultiLayer[int](MultiLayerConfig{L1TTL: time.Minute, MaxL1Entries: 2}, zap.NewNop())
	ctx := context.Background()

	for i, key := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, key, i))
	}
	assert.Equal(t, 2, c.Stats().Entries)

	v, _, ok := c.Get(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMultiLayer_CorruptRedisValueIsAMiss(t *testing.T) {
	rdb, mr := newTestRedis(t)
	c := NewMultiLayer[tenancy.Principal](MultiLayerConfig{RedisClient: rdb, KeyPrefix: "t:"}, zap.NewNop())
	require.NoError(t, mr.Set("t:u-1", "{not json"))

	_, _, ok := c.Get(context.Background(), "u-1")
	assert.False(t, ok)
}
