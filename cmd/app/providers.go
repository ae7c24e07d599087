package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/internal/domain/planner"
	"github.com/yanqian/skyplan/internal/domain/recommend"
	"github.com/yanqian/skyplan/internal/infra/catalogrepo"
	"github.com/yanqian/skyplan/internal/infra/config"
	"github.com/yanqian/skyplan/internal/infra/events"
	"github.com/yanqian/skyplan/internal/infra/horizonstore"
	"github.com/yanqian/skyplan/internal/infra/observerrepo"
	"github.com/yanqian/skyplan/internal/infra/windowcache"
)

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		DefaultRecommender: cfg.Recommend.DefaultRecommender,
		MinAltitude:        cfg.Recommend.MinAltitude,
		MaxTargets:         cfg.Recommend.MaxTargets,
		Parallelism:        cfg.Recommend.Parallelism,
	}
}

func providePlannerConfig(cfg *config.Config) planner.Config {
	return planner.Config{MinAltitude: cfg.Recommend.MinAltitude}
}

func provideRefreshConfig(cfg *config.Config) recommend.RefreshConfig {
	return recommend.RefreshConfig{
		Interval:    cfg.Refresh.Interval,
		ObserverIDs: cfg.Refresh.ObserverIDs,
		Recommender: cfg.Refresh.Recommender,
	}
}

func provideCatalogRepository(cfg *config.Config, logger *slog.Logger) catalog.Repository {
	pool, ok := openPool(cfg.Catalog.Postgres, "catalog", logger)
	if !ok {
		if cfg.Catalog.SeedBuiltin {
			return catalogrepo.NewBuiltinRepository()
		}
		return catalogrepo.NewMemoryRepository()
	}
	repo := catalogrepo.NewPostgresRepository(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("catalog schema setup failed, using builtin memory catalog", "error", err)
		pool.Close()
		return catalogrepo.NewBuiltinRepository()
	}
	if cfg.Catalog.SeedBuiltin {
		stored, err := repo.Upsert(ctx, catalog.Builtin())
		if err != nil {
			logger.Warn("failed to seed builtin catalog", "error", err)
		} else {
			logger.Info("builtin catalog seeded", "targets", stored)
		}
	}
	logger.Info("catalog postgres repository enabled")
	return repo
}

func provideObserverRepository(cfg *config.Config, logger *slog.Logger) observer.Repository {
	seeds := observerSeeds(cfg.Observers.Seed)
	pool, ok := openPool(cfg.Observers.Postgres, "observers", logger)
	if !ok {
		return observerrepo.NewMemoryRepository(seeds...)
	}
	repo := observerrepo.NewPostgresRepository(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("observer schema setup failed, using memory repository", "error", err)
		pool.Close()
		return observerrepo.NewMemoryRepository(seeds...)
	}
	for _, loc := range seeds {
		if _, err := repo.Save(ctx, loc); err != nil {
			logger.Warn("failed to seed observer", "observerId", loc.ID, "error", err)
		}
	}
	logger.Info("observer postgres repository enabled")
	return repo
}

func observerSeeds(seeds []config.ObserverSeed) []observer.Location {
	out := make([]observer.Location, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, observer.Location{
			ID:         s.ID,
			Name:       s.Name,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
			Elevation:  s.Elevation,
			Timezone:   s.Timezone,
			HorizonKey: s.HorizonKey,
		})
	}
	return out
}

func provideHorizonSource(cfg *config.Config, logger *slog.Logger) observer.HorizonSource {
	if !cfg.Horizon.Enabled {
		return nil
	}
	src, err := horizonstore.NewS3Source(horizonstore.S3Options{
		Endpoint:  cfg.Horizon.Endpoint,
		AccessKey: cfg.Horizon.AccessKey,
		SecretKey: cfg.Horizon.SecretKey,
		Bucket:    cfg.Horizon.Bucket,
		Prefix:    cfg.Horizon.Prefix,
		Region:    cfg.Horizon.Region,
		UseSSL:    cfg.Horizon.UseSSL,
	}, logger)
	if err != nil {
		logger.Error("horizon store unavailable, saved horizons default to flat", "error", err)
		return nil
	}
	logger.Info("horizon store enabled", "bucket", cfg.Horizon.Bucket)
	return src
}

func provideWindowCache(cfg *config.Config, logger *slog.Logger) recommend.WindowCache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Redis.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return windowcache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return windowcache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("window cache valkey store enabled", "addr", cfg.Cache.Redis.Addr)
			return windowcache.NewValkeyCache(client, "skyplan:window")
		}
	}
	return windowcache.NewMemoryCache()
}

func provideRegistry(cfg *config.Config, cache recommend.WindowCache, logger *slog.Logger) *recommend.Registry {
	return recommend.NewRegistry(recommend.NewVisibilityRecommender(cache, cfg.Cache.TTL, logger))
}

func providePublisher(cfg *config.Config, logger *slog.Logger) recommend.Publisher {
	if cfg.Events.Enabled {
		logger.Info("kafka publisher enabled", "topic", cfg.Events.Topic, "brokers", cfg.Events.Brokers)
		return events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
	}
	return events.NewLogPublisher(logger)
}

// openPool connects to Postgres and reports false when the store should fall
// back to memory.
func openPool(pg config.PostgresConfig, name string, logger *slog.Logger) (*pgxpool.Pool, bool) {
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository", "store", name)
		return nil, false
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "store", name, "error", err)
		return nil, false
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "store", name, "error", err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "store", name, "error", err)
		pool.Close()
		return nil, false
	}
	return pool, true
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
