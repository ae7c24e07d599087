package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/skyplan/pkg/errors"
	"github.com/yanqian/skyplan/pkg/logger"
)

type stubRepo struct {
	targets  []Target
	upserted []Target
	err      error
	nearArgs []float64
}

func (r *stubRepo) List(context.Context, Filter) ([]Target, error) { return r.targets, r.err }

func (r *stubRepo) Get(_ context.Context, id string) (Target, bool, error) {
	for _, t := range r.targets {
		if t.ID == id {
			return t, true, r.err
		}
	}
	return Target{}, false, r.err
}

func (r *stubRepo) Near(_ context.Context, ra, dec, radius float64, limit int) ([]Match, error) {
	r.nearArgs = []float64{ra, dec, radius, float64(limit)}
	return nil, r.err
}

func (r *stubRepo) Upsert(_ context.Context, targets []Target) (int, error) {
	r.upserted = append(r.upserted, targets...)
	return len(targets), r.err
}

func TestServiceGet(t *testing.T) {
	svc := NewService(&stubRepo{targets: []Target{{ID: "M42"}}}, logger.Discard())

	got, err := svc.Get(context.Background(), " M42 ")
	require.NoError(t, err)
	require.Equal(t, "M42", got.ID)

	_, err = svc.Get(context.Background(), "M43")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.Get(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceNearValidation(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, logger.Discard())

	_, err := svc.Near(context.Background(), 5.5, -5, 2, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{5.5, -5, 2, defaultNearLimit}, repo.nearArgs)

	for _, args := range [][3]float64{{24, 0, 1}, {1, 91, 1}, {1, 0, 0}, {1, 0, 120}} {
		_, err := svc.Near(context.Background(), args[0], args[1], args[2], 5)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "%v", args)
	}
}

func TestServiceImport(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, logger.Discard())
	doc := "M31,Andromeda,00 42 44,+41 16 09,Galaxy,3.4\nnot,valid\nM57,Ring,18 53 35,+33 01 45\n"

	res, err := svc.Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, ImportResult{Parsed: 2, Skipped: 1, Stored: 2}, res)
	require.Len(t, repo.upserted, 2)
}

func TestServiceErrorsAreCatalogErrors(t *testing.T) {
	svc := NewService(&stubRepo{err: errors.New("db down")}, logger.Discard())

	_, err := svc.List(context.Background(), Filter{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeCatalogError))

	_, err = svc.Import(context.Background(), strings.NewReader("M31,Andromeda,00 42 44,+41 16 09\n"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeCatalogError))

	_, err = svc.List(context.Background(), Filter{MinMagnitude: ptr(9), MaxMagnitude: ptr(3)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
