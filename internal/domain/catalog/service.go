package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/skyplan/pkg/errors"
)

const (
	defaultNearLimit = 25
	maxNearRadius    = 90.0
)

// ImportResult summarises an ingestion batch.
type ImportResult struct {
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
	Stored  int `json:"stored"`
}

// Service exposes catalog browsing and ingestion to transports.
type Service interface {
	List(ctx context.Context, filter Filter) ([]Target, error)
	Get(ctx context.Context, id string) (Target, error)
	Near(ctx context.Context, raHours, decDeg, radiusDeg float64, limit int) ([]Match, error)
	Import(ctx context.Context, r io.Reader) (ImportResult, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires the catalog domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "catalog.service")}
}

func (s *service) List(ctx context.Context, filter Filter) ([]Target, error) {
	if filter.MinMagnitude != nil && filter.MaxMagnitude != nil && *filter.MinMagnitude > *filter.MaxMagnitude {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "minMagnitude must not exceed maxMagnitude", nil)
	}
	targets, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to list targets", err)
	}
	return targets, nil
}

func (s *service) Get(ctx context.Context, id string) (Target, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, apperrors.Wrap(apperrors.CodeInvalidInput, "target id is required", nil)
	}
	target, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Target{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to load target", err)
	}
	if !ok {
		return Target{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("target %s not found", id), nil)
	}
	return target, nil
}

func (s *service) Near(ctx context.Context, raHours, decDeg, radiusDeg float64, limit int) ([]Match, error) {
	switch {
	case raHours < 0 || raHours >= 24:
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "ra must be within [0,24)", nil)
	case decDeg < -90 || decDeg > 90:
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "dec must be within [-90,90]", nil)
	case radiusDeg <= 0 || radiusDeg > maxNearRadius:
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "radius must be within (0,90]", nil)
	}
	if limit <= 0 {
		limit = defaultNearLimit
	}
	matches, err := s.repo.Near(ctx, raHours, decDeg, radiusDeg, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogError, "cone search failed", err)
	}
	return matches, nil
}

func (s *service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	targets, skipped, err := ReadTargets(r)
	if err != nil {
		return ImportResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "failed to read catalog document", err)
	}
	result := ImportResult{Parsed: len(targets), Skipped: skipped}
	if len(targets) == 0 {
		return result, nil
	}
	stored, err := s.repo.Upsert(ctx, targets)
	if err != nil {
		return result, apperrors.Wrap(apperrors.CodeCatalogError, "failed to store targets", err)
	}
	result.Stored = stored
	s.logger.Info("catalog import finished", "parsed", result.Parsed, "skipped", result.Skipped, "stored", stored)
	return result, nil
}
