package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/internal/domain/recommend"
	"github.com/yanqian/skyplan/internal/infra/config"
	"github.com/yanqian/skyplan/internal/infra/windowcache"
	"github.com/yanqian/skyplan/pkg/logger"
)

func TestProvideRecommendConfig(t *testing.T) {
	cfg := &config.Config{Recommend: config.RecommendConfig{
		DefaultRecommender: "visibility",
		MinAltitude:        25,
		MaxTargets:         7,
		Parallelism:        3,
	}}

	got := provideRecommendConfig(cfg)
	require.Equal(t, recommend.Config{
		DefaultRecommender: "visibility",
		MinAltitude:        25,
		MaxTargets:         7,
		Parallelism:        3,
	}, got)
}

func TestProvideRegistryCachesWindowsWithConfiguredTTL(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{TTL: 30 * time.Minute}}

	cache, ok := provideWindowCache(cfg, logger.Discard()).(*windowcache.MemoryCache)
	require.True(t, ok)

	rec, found := provideRegistry(cfg, cache, logger.Discard()).Get(recommend.DefaultRecommender)
	require.True(t, found)

	mag := 3.0
	targets := []catalog.Target{{ID: "polar", Name: "polar", RA: 3, Dec: 89, Type: catalog.TypeOpenCluster, Magnitude: &mag}}
	moon := astro.MoonState{Illumination: 0.5, Position: astro.AltAz{Altitude: -10}}
	rc := recommend.Context{
		Now:      time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC),
		Observer: observer.Location{ID: "north", Latitude: 65, Longitude: 10},
		Moon:     &moon,
	}

	out, err := rec.Recommend(context.Background(), targets, rc, recommend.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 1, cache.Len())
}
