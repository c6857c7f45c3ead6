package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{ memoryCache }

func (b *brokenCache) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func (b *brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var dest []string
	assert.False(t, cache.Get(ctx, "k", &dest))

	cache.Set(ctx, "k", []string{"a"}, 0)
	require.True(t, cache.Get(ctx, "k", &dest))
	assert.Equal(t, []string{"a"}, dest)

	cache.Invalidate(ctx, "k")
	assert.False(t, cache.Get(ctx, "k", &dest))

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(2), snapshot.CacheMisses)
	assert.InDelta(t, 1.0/3.0, snapshot.CacheHitRatio, 0.001)
}

func TestCacheServiceDisabledOrFailingDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	var dest []string

	disabled := NewCacheService(newMemoryCache(), nil, 0, nil, false)
	disabled.Set(ctx, "k", []string{"a"}, 0)
	assert.False(t, disabled.Get(ctx, "k", &dest))
	assert.False(t, disabled.Enabled())

	var nilCache *CacheService
	assert.False(t, nilCache.Get(ctx, "k", &dest))
	nilCache.Invalidate(ctx, "k")

	broken := NewCacheService(&brokenCache{}, nil, 0, nil, true)
	broken.Set(ctx, "k", []string{"a"}, 0)
	assert.False(t, broken.Get(ctx, "k", &dest))
}
