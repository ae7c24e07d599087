package planner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	apperrors "github.com/yanqian/skyplan/pkg/errors"
	"github.com/yanqian/skyplan/pkg/util"
)

// Service exposes the single-target sky operations.
type Service interface {
	Position(ctx context.Context, req PositionRequest) (PositionResponse, error)
	Window(ctx context.Context, req WindowRequest) (WindowResponse, error)
	Series(ctx context.Context, req SeriesRequest) (SeriesResponse, error)
	Moon(ctx context.Context, req SkyRequest) (MoonResponse, error)
	Sun(ctx context.Context, req SkyRequest) (SunResponse, error)
}

type service struct {
	cfg       Config
	catalog   catalog.Repository
	observers observer.Service
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the planner domain.
func NewService(cfg Config, catalogRepo catalog.Repository, observers observer.Service, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		catalog:   catalogRepo,
		observers: observers,
		logger:    logger.With("component", "planner.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Position(ctx context.Context, req PositionRequest) (PositionResponse, error) {
	loc, at, err := s.resolveObserver(ctx, req.Observer, req.Time)
	if err != nil {
		return PositionResponse{}, err
	}
	target, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return PositionResponse{}, err
	}
	site := loc.Site()
	pos := site.Position(target.Equatorial(), at)
	floor := astro.HorizonAltitude(site.Horizon, pos.Azimuth)
	return PositionResponse{
		Target:          target,
		Time:            at,
		Position:        pos,
		Compass:         astro.CompassDirection(pos.Azimuth),
		RAText:          astro.FormatRA(target.RA),
		DecText:         astro.FormatDec(target.Dec),
		HorizonAltitude: floor,
		AboveHorizon:    astro.IsAboveHorizon(pos.Altitude, pos.Azimuth, site.Horizon),
	}, nil
}

func (s *service) Window(ctx context.Context, req WindowRequest) (WindowResponse, error) {
	minAlt := s.cfg.MinAltitude
	if req.MinAltitude != nil {
		if *req.MinAltitude < -90 || *req.MinAltitude > 90 {
			return WindowResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "minAltitude must be within [-90,90]", nil)
		}
		minAlt = *req.MinAltitude
	}
	loc, now, err := s.resolveObserver(ctx, req.Observer, req.Now)
	if err != nil {
		return WindowResponse{}, err
	}
	target, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return WindowResponse{}, err
	}

	site := loc.Site()
	night := astro.NightFor(now)
	window := astro.FindVisibilityWindow(target.Equatorial(), site, minAlt, now)
	peakAt, peakAlt := astro.FindMaxAltitude(target.Equatorial(), site.Latitude, site.Longitude, night.Start)
	s.logger.Debug("window computed", "targetId", target.ID, "durationHours", window.DurationHours)
	return WindowResponse{
		Target:          target,
		Night:           night,
		MinAltitude:     minAlt,
		Window:          window,
		Observable:      window.ObservableTonight(),
		MaxAltitude:     peakAlt,
		MaxAltitudeTime: peakAt,
	}, nil
}

func (s *service) Series(ctx context.Context, req SeriesRequest) (SeriesResponse, error) {
	loc, now, err := s.resolveObserver(ctx, req.Observer, req.Now)
	if err != nil {
		return SeriesResponse{}, err
	}
	target, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return SeriesResponse{}, err
	}
	series := astro.SampleNight(target.Equatorial(), loc.Site(), now)
	resp := SeriesResponse{Target: target, Night: astro.NightFor(now), Series: series}
	if peak, ok := series.Peak(); ok {
		resp.Peak = &peak
	}
	return resp, nil
}

func (s *service) Moon(ctx context.Context, req SkyRequest) (MoonResponse, error) {
	loc, at, err := s.resolveObserver(ctx, req.Observer, req.Time)
	if err != nil {
		return MoonResponse{}, err
	}
	moon := astro.MoonAt(at, loc.Latitude, loc.Longitude)
	return MoonResponse{Time: at, Moon: moon, Compass: astro.CompassDirection(moon.Position.Azimuth)}, nil
}

func (s *service) Sun(ctx context.Context, req SkyRequest) (SunResponse, error) {
	loc, at, err := s.resolveObserver(ctx, req.Observer, req.Time)
	if err != nil {
		return SunResponse{}, err
	}
	events := astro.SunTimesFor(at, loc.Latitude, loc.Longitude)
	return SunResponse{
		Time:     at,
		Night:    astro.NightFor(at),
		Sun:      astro.SunAltAz(at, loc.Latitude, loc.Longitude),
		Events:   events,
		DarkFrom: events.AstronomicalDusk,
		DarkTo:   events.AstronomicalDawn,
	}, nil
}

// resolveObserver loads the site and expresses the request instant in its
// zone, or in the longitude's whole-hour zone when it has none.
func (s *service) resolveObserver(ctx context.Context, ref observer.Ref, at *time.Time) (observer.Location, time.Time, error) {
	loc, err := s.observers.Resolve(ctx, ref)
	if err != nil {
		return observer.Location{}, time.Time{}, err
	}
	t := s.now()
	if at != nil {
		t = *at
	}
	t, ok := util.SiteTime(t, loc.Timezone, loc.Longitude)
	if !ok && loc.Timezone != "" {
		s.logger.Warn("unknown observer timezone, using longitude zone", "timezone", loc.Timezone)
	}
	return loc, t, nil
}

func (s *service) resolveTarget(ctx context.Context, ref TargetRef) (catalog.Target, error) {
	if id := strings.TrimSpace(ref.ID); id != "" && ref.RA == "" && ref.Dec == "" {
		target, ok, err := s.catalog.Get(ctx, id)
		if err != nil {
			return catalog.Target{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to load target", err)
		}
		if !ok {
			return catalog.Target{}, apperrors.Wrap(apperrors.CodeNotFound, "target "+id+" not found", nil)
		}
		return target, nil
	}

	ra, ok := astro.ParseRA(ref.RA)
	if !ok {
		return catalog.Target{}, apperrors.Wrap(apperrors.CodeInvalidInput, "target ra must be hours in [0,24), decimal or sexagesimal", nil)
	}
	dec, ok := astro.ParseDec(ref.Dec)
	if !ok {
		return catalog.Target{}, apperrors.Wrap(apperrors.CodeInvalidInput, "target dec must be degrees in [-90,90], decimal or sexagesimal", nil)
	}
	name := firstNonEmpty(ref.Name, ref.ID, "custom")
	id := firstNonEmpty(ref.ID, catalog.Slug(name))
	classification := catalog.Classify(name)
	return catalog.Target{ID: id, Name: name, RA: ra, Dec: dec, Type: classification.Type}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
