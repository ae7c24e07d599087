package observer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/skyplan/internal/domain/astro"
	apperrors "github.com/yanqian/skyplan/pkg/errors"
)

// Ref points at a site either by saved ID or by inline coordinates.
type Ref struct {
	ID        string               `json:"id,omitempty"`
	Name      string               `json:"name,omitempty"`
	Latitude  *float64             `json:"latitude,omitempty"`
	Longitude *float64             `json:"longitude,omitempty"`
	Elevation float64              `json:"elevation,omitempty"`
	Timezone  string               `json:"timezone,omitempty"`
	Horizon   astro.HorizonProfile `json:"horizon,omitempty"`
}

// Service resolves request references into validated locations.
type Service interface {
	Resolve(ctx context.Context, ref Ref) (Location, error)
	List(ctx context.Context) ([]Location, error)
	Save(ctx context.Context, loc Location) (Location, error)
}

type service struct {
	repo    Repository
	horizon HorizonSource
	logger  *slog.Logger
}

// NewService wires the observer domain. horizon may be nil.
func NewService(repo Repository, horizon HorizonSource, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		horizon: horizon,
		logger:  logger.With("component", "observer.service"),
	}
}

func (s *service) Resolve(ctx context.Context, ref Ref) (Location, error) {
	if id := strings.TrimSpace(ref.ID); id != "" {
		loc, ok, err := s.repo.Get(ctx, id)
		if err != nil {
			return Location{}, apperrors.Wrap(apperrors.CodeObserverError, "failed to load observer", err)
		}
		if !ok {
			return Location{}, apperrors.Wrap(apperrors.CodeNotFound, "observer "+id+" not found", nil)
		}
		return s.withHorizon(ctx, loc), nil
	}

	if ref.Latitude == nil || ref.Longitude == nil {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "observer id or latitude/longitude is required", nil)
	}
	loc := Location{
		Name:      ref.Name,
		Latitude:  *ref.Latitude,
		Longitude: *ref.Longitude,
		Elevation: ref.Elevation,
		Timezone:  ref.Timezone,
		Horizon:   ref.Horizon.Clone(),
	}
	if err := loc.Validate(); err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid observer location", err)
	}
	return loc, nil
}

func (s *service) List(ctx context.Context) ([]Location, error) {
	locs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeObserverError, "failed to list observers", err)
	}
	return locs, nil
}

func (s *service) Save(ctx context.Context, loc Location) (Location, error) {
	if err := loc.Validate(); err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid observer location", err)
	}
	if strings.TrimSpace(loc.ID) == "" {
		loc.ID = uuid.NewString()
	}
	loc.Horizon = loc.Horizon.Normalized().Clone()
	saved, err := s.repo.Save(ctx, loc)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeObserverError, "failed to save observer", err)
	}
	s.logger.Info("observer saved", "observerId", saved.ID, "horizonSamples", len(saved.Horizon))
	return saved, nil
}

// withHorizon fills an empty profile from the horizon source. An unreachable
// file degrades to the flat horizon with a warning.
func (s *service) withHorizon(ctx context.Context, loc Location) Location {
	if len(loc.Horizon) > 0 || loc.HorizonKey == "" || s.horizon == nil {
		return loc
	}
	profile, err := s.horizon.Load(ctx, loc.HorizonKey)
	if err != nil {
		s.logger.Warn("horizon file unavailable, using flat horizon", "observerId", loc.ID, "key", loc.HorizonKey, "error", err)
		return loc
	}
	loc.Horizon = profile
	return loc
}
