package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSunTimesForChicagoWinter(t *testing.T) {
	cst := time.FixedZone("CST", -6*3600)
	times := SunTimesFor(time.Date(2024, 1, 15, 20, 0, 0, 0, cst), 41.8781, -87.6298)

	require.NotNil(t, times.Sunset)
	require.NotNil(t, times.Sunrise)
	sunset := times.Sunset.In(cst)
	sunrise := times.Sunrise.In(cst)
	// almanac: sunset 16:49, sunrise 07:17 the next morning
	require.WithinDuration(t, time.Date(2024, 1, 15, 16, 49, 0, 0, cst), sunset, 20*time.Minute)
	require.WithinDuration(t, time.Date(2024, 1, 16, 7, 17, 0, 0, cst), sunrise, 20*time.Minute)

	require.NotNil(t, times.CivilDusk)
	require.NotNil(t, times.NauticalDusk)
	require.NotNil(t, times.AstronomicalDusk)
	require.True(t, times.Sunset.Before(*times.CivilDusk))
	require.True(t, times.CivilDusk.Before(*times.NauticalDusk))
	require.True(t, times.NauticalDusk.Before(*times.AstronomicalDusk))

	require.NotNil(t, times.AstronomicalDawn)
	require.NotNil(t, times.NauticalDawn)
	require.NotNil(t, times.CivilDawn)
	require.True(t, times.AstronomicalDawn.Before(*times.NauticalDawn))
	require.True(t, times.NauticalDawn.Before(*times.CivilDawn))
	require.True(t, times.CivilDawn.Before(*times.Sunrise))
}

func TestSunTimesForPolarSummerHasNoDarkness(t *testing.T) {
	times := SunTimesFor(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 78.2, 15.6)
	require.Nil(t, times.Sunset)
	require.Nil(t, times.Sunrise)
	require.Nil(t, times.AstronomicalDusk)
}

func TestSunPositionAtSolstice(t *testing.T) {
	eq := SunPosition(time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC))
	require.InDelta(t, 23.44, eq.Dec, 0.05)
	require.InDelta(t, 6.0, eq.RA, 0.02)
}
