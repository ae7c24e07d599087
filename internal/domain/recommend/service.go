package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	apperrors "github.com/yanqian/skyplan/pkg/errors"
	"github.com/yanqian/skyplan/pkg/metrics"
	"github.com/yanqian/skyplan/pkg/util"
)

// Service exposes recommendation capabilities to transports.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
	Recommenders() []string
}

// statsRecommender is implemented by recommenders that can explain drops.
type statsRecommender interface {
	RecommendWithStats(ctx context.Context, targets []catalog.Target, rc Context, opts Options) ([]RecommendedTarget, metrics.EvaluationStats, error)
}

type service struct {
	cfg       Config
	catalog   catalog.Repository
	observers observer.Service
	registry  *Registry
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the recommendation domain.
func NewService(cfg Config, catalogRepo catalog.Repository, observers observer.Service, registry *Registry, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		catalog:   catalogRepo,
		observers: observers,
		registry:  registry,
		logger:    logger.With("component", "recommend.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Recommenders() []string {
	return s.registry.Names()
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	started := s.now()
	opts, err := s.options(req)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := validateWeather(req.CloudCover, req.Seeing); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}

	name := firstNonEmpty(req.Recommender, s.cfg.DefaultRecommender, DefaultRecommender)
	rec, ok := s.registry.Get(name)
	if !ok {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown recommender %q", name), nil)
	}

	loc, err := s.observers.Resolve(ctx, req.Observer)
	if err != nil {
		return Response{}, err
	}

	targets, err := s.candidates(ctx, req.TargetIDs)
	if err != nil {
		return Response{}, err
	}

	now := started
	if req.Now != nil {
		now = *req.Now
	}
	now, ok = util.SiteTime(now, loc.Timezone, loc.Longitude)
	if !ok && loc.Timezone != "" {
		s.logger.Warn("unknown observer timezone, using longitude zone", "timezone", loc.Timezone)
	}
	moon := astro.MoonAt(now, loc.Latitude, loc.Longitude)
	rc := Context{
		Now:        now,
		Observer:   loc,
		CloudCover: req.CloudCover,
		Seeing:     req.Seeing,
		Moon:       &moon,
	}

	var (
		ranked []RecommendedTarget
		stats  metrics.EvaluationStats
	)
	if sr, ok := rec.(statsRecommender); ok {
		ranked, stats, err = sr.RecommendWithStats(ctx, targets, rc, opts)
	} else {
		ranked, err = rec.Recommend(ctx, targets, rc, opts)
		stats = metrics.EvaluationStats{Candidates: len(targets), Recommended: len(ranked)}
	}
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeRecommenderError, "recommendation failed", err)
	}
	if ranked == nil {
		ranked = []RecommendedTarget{}
	}

	resp := Response{
		Recommender: rec.Name(),
		GeneratedAt: now,
		Night:       astro.NightFor(now),
		Observer:    loc,
		Moon:        moon,
		Targets:     ranked,
		Stats:       stats,
		DurationMs:  s.now().Sub(started).Milliseconds(),
	}
	s.logger.Info("recommendations computed",
		"recommender", resp.Recommender,
		"observerId", loc.ID,
		"candidates", stats.Candidates,
		"recommended", stats.Recommended,
		"cacheHits", stats.CacheHits,
		"durationMs", resp.DurationMs,
	)
	return resp, nil
}

func (s *service) candidates(ctx context.Context, ids []string) ([]catalog.Target, error) {
	if len(ids) == 0 {
		targets, err := s.catalog.List(ctx, catalog.Filter{})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to list catalog targets", err)
		}
		return targets, nil
	}
	targets := make([]catalog.Target, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		target, ok, err := s.catalog.Get(ctx, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to load catalog target", err)
		}
		if !ok {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "target "+id+" not found", nil)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (s *service) options(req Request) (Options, error) {
	opts := Options{
		MinAltitude:  s.cfg.MinAltitude,
		MaxTargets:   s.cfg.MaxTargets,
		Types:        req.Types,
		MinMagnitude: req.MinMagnitude,
		MaxMagnitude: req.MaxMagnitude,
		Parallelism:  s.cfg.Parallelism,
	}
	if req.MinAltitude != nil {
		if *req.MinAltitude < -90 || *req.MinAltitude > 90 {
			return Options{}, fmt.Errorf("minAltitude must be within [-90,90]")
		}
		opts.MinAltitude = *req.MinAltitude
	}
	if req.MaxTargets != nil {
		if *req.MaxTargets <= 0 {
			return Options{}, fmt.Errorf("maxTargets must be positive")
		}
		opts.MaxTargets = *req.MaxTargets
	}
	if req.MinMagnitude != nil && req.MaxMagnitude != nil && *req.MinMagnitude > *req.MaxMagnitude {
		return Options{}, fmt.Errorf("minMagnitude must not exceed maxMagnitude")
	}
	return opts, nil
}

func validateWeather(cloudCover, seeing *float64) error {
	if cloudCover != nil && (*cloudCover < 0 || *cloudCover > 100) {
		return fmt.Errorf("cloudCover must be within [0,100]")
	}
	if seeing != nil && *seeing < 0 {
		return fmt.Errorf("seeing must not be negative")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
