package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	apperrors "github.com/yanqian/skyplan/pkg/errors"
	"github.com/yanqian/skyplan/pkg/logger"
)

type stubCatalog struct {
	targets []catalog.Target
	err     error
}

func (c *stubCatalog) List(context.Context, catalog.Filter) ([]catalog.Target, error) {
	return c.targets, c.err
}

func (c *stubCatalog) Get(_ context.Context, id string) (catalog.Target, bool, error) {
	if c.err != nil {
		return catalog.Target{}, false, c.err
	}
	for _, t := range c.targets {
		if t.ID == id {
			return t, true, nil
		}
	}
	return catalog.Target{}, false, nil
}

func (c *stubCatalog) Near(context.Context, float64, float64, float64, int) ([]catalog.Match, error) {
	return nil, nil
}

func (c *stubCatalog) Upsert(context.Context, []catalog.Target) (int, error) { return 0, nil }

type stubObservers struct {
	loc observer.Location
	err error
}

func (o *stubObservers) Resolve(context.Context, observer.Ref) (observer.Location, error) {
	return o.loc, o.err
}

func (o *stubObservers) List(context.Context) ([]observer.Location, error) {
	return []observer.Location{o.loc}, o.err
}

func (o *stubObservers) Save(_ context.Context, loc observer.Location) (observer.Location, error) {
	return loc, o.err
}

func newTestService(cat *stubCatalog, obs *stubObservers, recs ...Recommender) *service {
	if len(recs) == 0 {
		recs = []Recommender{NewVisibilityRecommender(nil, 0, logger.Discard())}
	}
	svc := NewService(Config{MinAltitude: DefaultMinAltitude, MaxTargets: DefaultMaxTargets}, cat, obs, NewRegistry(recs...), logger.Discard()).(*service)
	svc.now = func() time.Time { return winterNow }
	return svc
}

func TestServiceRecommend(t *testing.T) {
	cat := &stubCatalog{targets: []catalog.Target{
		circumpolar("bright", catalog.TypeOpenCluster, 2),
		{ID: "south", RA: 12, Dec: -80, Type: catalog.TypeGalaxy},
	}}
	svc := newTestService(cat, &stubObservers{loc: northSite})

	resp, err := svc.Recommend(context.Background(), Request{Observer: observer.Ref{ID: "north"}})
	require.NoError(t, err)
	require.Equal(t, DefaultRecommender, resp.Recommender)
	require.Len(t, resp.Targets, 1)
	require.Equal(t, "bright", resp.Targets[0].Target.ID)
	require.Equal(t, 2, resp.Stats.Candidates)
	require.Equal(t, 1, resp.Stats.BelowHorizon)
	// no timezone: the night follows the longitude zone, one hour east of UTC
	require.Equal(t, "2024-01-15T18:00:00+01:00", resp.Night.Start.Format(time.RFC3339))
	require.Equal(t, "north", resp.Observer.ID)
}

func TestServiceRecommendNightWithoutTimezone(t *testing.T) {
	site := observer.Location{ID: "chi", Latitude: 41.8781, Longitude: -87.6298}
	at := time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)

	withZone := site
	withZone.Timezone = "America/Chicago"
	zoned, err := newTestService(&stubCatalog{}, &stubObservers{loc: withZone}).
		Recommend(context.Background(), Request{Observer: observer.Ref{ID: "chi"}, Now: &at})
	require.NoError(t, err)

	bare, err := newTestService(&stubCatalog{}, &stubObservers{loc: site}).
		Recommend(context.Background(), Request{Observer: observer.Ref{ID: "chi"}, Now: &at})
	require.NoError(t, err)

	require.Equal(t, "2024-01-15T18:00:00-06:00", zoned.Night.Start.Format(time.RFC3339))
	require.True(t, zoned.Night.Start.Equal(bare.Night.Start))
	require.True(t, zoned.Night.End.Equal(bare.Night.End))
}

func TestServiceRecommendUsesExplicitNowAndTimezone(t *testing.T) {
	loc := northSite
	loc.Timezone = "UTC"
	svc := newTestService(&stubCatalog{}, &stubObservers{loc: loc})
	at := time.Date(2024, 3, 1, 23, 0, 0, 0, time.FixedZone("X", 5*3600))

	resp, err := svc.Recommend(context.Background(), Request{Observer: observer.Ref{ID: "north"}, Now: &at})
	require.NoError(t, err)
	require.True(t, resp.GeneratedAt.Equal(at))
	require.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), resp.Night.Start)
	require.NotNil(t, resp.Targets)
}

func TestServiceRecommendTargetSubset(t *testing.T) {
	cat := &stubCatalog{targets: []catalog.Target{
		circumpolar("a", catalog.TypeGalaxy, 5),
		circumpolar("b", catalog.TypeGalaxy, 5),
	}}
	svc := newTestService(cat, &stubObservers{loc: northSite})

	resp, err := svc.Recommend(context.Background(), Request{TargetIDs: []string{"b"}})
	require.NoError(t, err)
	require.Len(t, resp.Targets, 1)
	require.Equal(t, "b", resp.Targets[0].Target.ID)

	_, err = svc.Recommend(context.Background(), Request{TargetIDs: []string{"zzz"}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestServiceRecommendValidation(t *testing.T) {
	svc := newTestService(&stubCatalog{}, &stubObservers{loc: northSite})
	zero := 0
	cases := []Request{
		{Recommender: "unknown"},
		{CloudCover: ptr(140)},
		{Seeing: ptr(-1)},
		{MinAltitude: ptr(95)},
		{MaxTargets: &zero},
		{MinMagnitude: ptr(9), MaxMagnitude: ptr(4)},
	}
	for _, req := range cases {
		_, err := svc.Recommend(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "%+v", req)
	}
}

func TestServiceRecommendPropagatesFailures(t *testing.T) {
	svc := newTestService(&stubCatalog{err: errors.New("db down")}, &stubObservers{loc: northSite})
	_, err := svc.Recommend(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeCatalogError))

	obsErr := apperrors.Wrap(apperrors.CodeNotFound, "observer x not found", nil)
	svc = newTestService(&stubCatalog{}, &stubObservers{err: obsErr})
	_, err = svc.Recommend(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	svc = newTestService(&stubCatalog{}, &stubObservers{loc: northSite}, namedRecommender{name: DefaultRecommender, err: errors.New("boom")})
	_, err = svc.Recommend(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeRecommenderError))
}

func TestServiceRecommendWithPlainRecommender(t *testing.T) {
	ranked := []RecommendedTarget{{Target: catalog.Target{ID: "x"}, Score: 70}}
	svc := newTestService(&stubCatalog{targets: []catalog.Target{{ID: "x"}}}, &stubObservers{loc: northSite},
		namedRecommender{name: "fixed", result: ranked})

	resp, err := svc.Recommend(context.Background(), Request{Recommender: "fixed"})
	require.NoError(t, err)
	require.Equal(t, "fixed", resp.Recommender)
	require.Equal(t, ranked, resp.Targets)
	require.Equal(t, 1, resp.Stats.Recommended)
	require.Equal(t, []string{"fixed"}, svc.Recommenders())
}
