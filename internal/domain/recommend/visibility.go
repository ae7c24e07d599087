package recommend

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/pkg/metrics"
)

type outcome int

const (
	outcomeFiltered outcome = iota + 1
	outcomeBelowHorizon
	outcomeShortWindow
	outcomeRecommended
)

type evaluation struct {
	result   RecommendedTarget
	outcome  outcome
	cacheHit bool
	cached   bool
}

// VisibilityRecommender ranks targets that are up now and stay up for at
// least half an hour tonight.
type VisibilityRecommender struct {
	cache    WindowCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewVisibilityRecommender builds the default recommender. cache may be nil.
func NewVisibilityRecommender(cache WindowCache, cacheTTL time.Duration, logger *slog.Logger) *VisibilityRecommender {
	return &VisibilityRecommender{
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "recommend.visibility"),
	}
}

// Name implements Recommender.
func (r *VisibilityRecommender) Name() string { return DefaultRecommender }

// Recommend implements Recommender.
func (r *VisibilityRecommender) Recommend(ctx context.Context, targets []catalog.Target, rc Context, opts Options) ([]RecommendedTarget, error) {
	out, _, err := r.RecommendWithStats(ctx, targets, rc, opts)
	return out, err
}

// RecommendWithStats is Recommend plus a breakdown of why candidates dropped out.
// Candidates are evaluated concurrently; results keep input order before
// the stable sort, so equal scores rank in catalog order.
func (r *VisibilityRecommender) RecommendWithStats(ctx context.Context, targets []catalog.Target, rc Context, opts Options) ([]RecommendedTarget, metrics.EvaluationStats, error) {
	site := rc.Observer.Site()
	night := astro.NightFor(rc.Now)
	fingerprint := rc.Observer.Fingerprint()
	moon := rc.Moon
	if moon == nil {
		m := astro.MoonAt(rc.Now, site.Latitude, site.Longitude)
		moon = &m
	}

	evals := make([]evaluation, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallelism())
	for i := range targets {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evals[i] = r.evaluate(gctx, targets[i], site, night, fingerprint, *moon, rc, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, metrics.EvaluationStats{}, err
	}

	stats := metrics.EvaluationStats{Candidates: len(targets)}
	results := make([]RecommendedTarget, 0, len(targets))
	for _, ev := range evals {
		if ev.cached {
			if ev.cacheHit {
				stats.CacheHits++
			} else {
				stats.CacheMisses++
			}
		}
		switch ev.outcome {
		case outcomeFiltered:
			stats.Filtered++
		case outcomeBelowHorizon:
			stats.BelowHorizon++
		case outcomeShortWindow:
			stats.ShortWindow++
		case outcomeRecommended:
			results = append(results, ev.result)
		}
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if limit := opts.maxTargets(); len(results) > limit {
		results = results[:limit]
	}
	stats.Recommended = len(results)
	return results, stats, nil
}

func (r *VisibilityRecommender) evaluate(ctx context.Context, target catalog.Target, site astro.Site, night astro.Night, fingerprint string, moon astro.MoonState, rc Context, opts Options) evaluation {
	if !catalog.MatchesType(target.Type, opts.Types) || !catalog.WithinMagnitude(target.Magnitude, opts.MinMagnitude, opts.MaxMagnitude) {
		return evaluation{outcome: outcomeFiltered}
	}

	eq := target.Equatorial()
	pos := site.Position(eq, rc.Now)
	if pos.Altitude < astro.EffectiveMinimum(opts.MinAltitude, site.Horizon, pos.Azimuth) {
		return evaluation{outcome: outcomeBelowHorizon}
	}

	window, hit, cached := r.window(ctx, target, eq, site, night, fingerprint, opts.MinAltitude)
	ev := evaluation{cacheHit: hit, cached: cached}
	if !window.ObservableTonight() {
		ev.outcome = outcomeShortWindow
		return ev
	}

	points, reasons := score(scoreInput{
		Altitude:     pos.Altitude,
		PeakAltitude: window.PeakAltitude,
		Magnitude:    target.Magnitude,
		Type:         target.Type,
		Moon:         moon,
		CloudCover:   rc.CloudCover,
		Seeing:       rc.Seeing,
	})
	ev.outcome = outcomeRecommended
	ev.result = RecommendedTarget{
		Target:   target.Clone(),
		Position: pos,
		Compass:  astro.CompassDirection(pos.Azimuth),
		Window:   window,
		Score:    points,
		Reasons:  reasons,
	}
	return ev
}

// window consults the cache first. Cache failures are logged and fall back
// to computing; they never fail the request.
func (r *VisibilityRecommender) window(ctx context.Context, target catalog.Target, eq astro.Equatorial, site astro.Site, night astro.Night, fingerprint string, minAltitude float64) (astro.VisibilityWindow, bool, bool) {
	if r.cache == nil || target.ID == "" {
		return astro.ScanWindow(eq, site, minAltitude, night.Start, night.End, astro.WindowStep), false, false
	}
	key := WindowKey(target.ID, fingerprint, night, minAltitude)
	if w, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("window cache read failed", "key", key, "error", err)
	} else if ok {
		return w, true, true
	}

	w := astro.ScanWindow(eq, site, minAltitude, night.Start, night.End, astro.WindowStep)
	if err := r.cache.Set(ctx, key, w, r.cacheTTL); err != nil {
		r.logger.Warn("window cache write failed", "key", key, "error", err)
	}
	return w, false, true
}
