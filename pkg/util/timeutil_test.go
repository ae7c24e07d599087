package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInZoneFallsBackToUTC(t *testing.T) {
	at := time.Date(2024, 1, 16, 4, 0, 0, 0, time.FixedZone("CST", -6*3600))

	got, ok := InZone(at, "")
	require.False(t, ok)
	require.Equal(t, time.UTC, got.Location())
	require.True(t, got.Equal(at))

	got, ok = InZone(at, "Not/AZone")
	require.False(t, ok)
	require.True(t, got.Equal(at))
}

func TestInZoneUTC(t *testing.T) {
	at := time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC)
	got, ok := InZone(at, "UTC")
	require.True(t, ok)
	require.Equal(t, 4, got.Hour())
}

func TestLongitudeZone(t *testing.T) {
	cases := []struct {
		longitude float64
		offset    int
		name      string
	}{
		{-87.6298, -6 * 3600, "UTC-06"},
		{-70.4, -5 * 3600, "UTC-05"},
		{0, 0, "UTC+00"},
		{7.4, 0, "UTC+00"},
		{7.5, 3600, "UTC+01"},
		{139.7, 9 * 3600, "UTC+09"},
		{180, 12 * 3600, "UTC+12"},
	}
	for _, tc := range cases {
		name, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, LongitudeZone(tc.longitude)).Zone()
		require.Equal(t, tc.offset, offset, tc.longitude)
		require.Equal(t, tc.name, name, tc.longitude)
	}
}

func TestSiteTime(t *testing.T) {
	at := time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)

	got, ok := SiteTime(at, "America/Chicago", -87.6298)
	require.True(t, ok)
	require.Equal(t, "America/Chicago", got.Location().String())

	got, ok = SiteTime(at, "", -87.6298)
	require.False(t, ok)
	require.True(t, got.Equal(at))
	// 03:00 UTC is 21:00 on the previous evening six hours west
	require.Equal(t, 15, got.Day())
	require.Equal(t, 21, got.Hour())

	got, ok = SiteTime(at, "Not/AZone", 139.7)
	require.False(t, ok)
	require.Equal(t, 12, got.Hour())
}
