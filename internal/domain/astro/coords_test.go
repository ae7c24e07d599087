package astro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompassDirection(t *testing.T) {
	cases := map[float64]string{
		0:      "N",
		11.2:   "N",
		22.5:   "NNE",
		45:     "NE",
		90:     "E",
		180:    "S",
		202.5:  "SSW",
		270:    "W",
		348.75: "N",
		359.9:  "N",
		-90:    "W",
	}
	for az, want := range cases {
		require.Equal(t, want, CompassDirection(az), "azimuth %v", az)
	}
}

func TestParseRA(t *testing.T) {
	for _, in := range []string{"05 35 17.3", "05:35:17.3", "5h35m17.3s", " 5h 35m 17.3s "} {
		got, ok := ParseRA(in)
		require.True(t, ok, in)
		require.InDelta(t, 5+35.0/60+17.3/3600, got, 1e-9, in)
	}

	got, ok := ParseRA("13.5")
	require.True(t, ok)
	require.Equal(t, 13.5, got)

	for _, in := range []string{"", "24", "-1", "abc", "5 75 00", "1 2 3 4"} {
		_, ok := ParseRA(in)
		require.False(t, ok, in)
	}
}

func TestParseDec(t *testing.T) {
	got, ok := ParseDec("-05 23 28")
	require.True(t, ok)
	require.InDelta(t, -(5 + 23.0/60 + 28.0/3600), got, 1e-9)

	got, ok = ParseDec("+41:16:09")
	require.True(t, ok)
	require.InDelta(t, 41+16.0/60+9.0/3600, got, 1e-9)

	got, ok = ParseDec("-5d23m28s")
	require.True(t, ok)
	require.InDelta(t, -(5 + 23.0/60 + 28.0/3600), got, 1e-9)

	got, ok = ParseDec("-0 30")
	require.True(t, ok)
	require.InDelta(t, -0.5, got, 1e-12)

	for _, in := range []string{"", "91", "12 75", "north"} {
		_, ok := ParseDec(in)
		require.False(t, ok, in)
	}
}

func TestFormatCoordinates(t *testing.T) {
	require.Equal(t, "05h 35m 17.30s", FormatRA(5+35.0/60+17.3/3600))
	require.Equal(t, "-05° 23' 28.00\"", FormatDec(-(5 + 23.0/60 + 28.0/3600)))
	require.Equal(t, "+41° 16' 09.00\"", FormatDec(41+16.0/60+9.0/3600))
}

func TestFormatCoordinatesCarriesRoundedSeconds(t *testing.T) {
	require.Equal(t, "06h 00m 00.00s", FormatRA(5.99999999))
	require.Equal(t, "05h 36m 00.00s", FormatRA(5+35.0/60+59.999/3600))
	require.Equal(t, "00h 00m 00.00s", FormatRA(23.9999999))
	require.Equal(t, "-06° 00' 00.00\"", FormatDec(-5.99999999))
	require.Equal(t, "+90° 00' 00.00\"", FormatDec(89.9999999))
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "1.4°", FormatSize(85))
	require.Equal(t, "8.0'", FormatSize(8))
	require.Equal(t, "30\"", FormatSize(0.5))
}
