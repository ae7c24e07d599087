package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

func ptr(v float64) *float64 { return &v }

var (
	moonDown  = astro.MoonState{Illumination: 0.9, Position: astro.AltAz{Altitude: -12}}
	moonDim   = astro.MoonState{Illumination: 0.1, Position: astro.AltAz{Altitude: 30}}
	moonHalf  = astro.MoonState{Illumination: 0.4, Position: astro.AltAz{Altitude: 30}}
	moonFull  = astro.MoonState{Illumination: 0.8, Position: astro.AltAz{Altitude: 30}}
	moonThree = astro.MoonState{Illumination: 0.6, Position: astro.AltAz{Altitude: 5}}
)

func TestScoreBrightGlobularCapsAtHundred(t *testing.T) {
	points, reasons := score(scoreInput{
		Altitude:     70,
		PeakAltitude: 72,
		Magnitude:    ptr(3),
		Type:         "Globular Cluster",
		Moon:         moonDown,
	})
	require.Equal(t, 100, points)
	require.Equal(t, []string{
		"High altitude (70°)",
		"Near peak altitude tonight",
		"Moon below horizon",
		"Very bright (mag 3.0)",
		"Popular target type (Globular Cluster)",
	}, reasons)
}

func TestScoreFaintGalaxyUnderBadConditions(t *testing.T) {
	points, reasons := score(scoreInput{
		Altitude:     35,
		PeakAltitude: 60,
		Magnitude:    ptr(9),
		Type:         "Galaxy",
		Moon:         moonFull,
		CloudCover:   ptr(80),
		Seeing:       ptr(3.5),
	})
	// 50 + 8 - 20 + 10 - 9 - 10
	require.Equal(t, 29, points)
	require.Equal(t, []string{
		"Moderate altitude (35°)",
		"Bright moon washes out faint target (80% illuminated)",
		"Popular target type (Galaxy)",
		"Cloud cover 80%",
		"Poor seeing (3.5″) for detailed target",
	}, reasons)
}

func TestScoreMoonRules(t *testing.T) {
	_, reasons := score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonDim, Type: "Star Field"})
	require.Equal(t, []string{"Dim moon (10% illuminated)"}, reasons)

	points, reasons := score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Type: "Star Field"})
	require.Equal(t, 50, points)
	require.Empty(t, reasons)

	points, reasons = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonThree, Type: "Star Field"})
	require.Equal(t, 45, points)
	require.Equal(t, []string{"Bright moon (60% illuminated)"}, reasons)

	points, reasons = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonThree, Magnitude: ptr(8), Type: "Star Field"})
	require.Equal(t, 45, points)
	require.Equal(t, []string{"Bright moon (60% illuminated)"}, reasons)
}

func TestScoreBrightnessBands(t *testing.T) {
	_, reasons := score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Magnitude: ptr(5), Type: "Star Field"})
	require.Equal(t, []string{"Bright (mag 5.0)"}, reasons)

	_, reasons = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Magnitude: ptr(7.5), Type: "Star Field"})
	require.Equal(t, []string{"Moderately bright (mag 7.5)"}, reasons)

	_, reasons = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Magnitude: ptr(8), Type: "Star Field"})
	require.Empty(t, reasons)
}

func TestScoreAltitudeBands(t *testing.T) {
	_, reasons := score(scoreInput{Altitude: 45.4, PeakAltitude: 80, Moon: moonHalf})
	require.Equal(t, []string{"Good altitude (45°)"}, reasons)

	_, reasons = score(scoreInput{Altitude: 29.9, PeakAltitude: 32, Moon: moonHalf})
	require.Equal(t, []string{"Near peak altitude tonight"}, reasons)
}

func TestScorePopularTypeIsSubstringMatch(t *testing.T) {
	_, reasons := score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Type: "emission nebula"})
	require.Equal(t, []string{"Popular target type (emission nebula)"}, reasons)

	_, reasons = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, Type: "Double Star", Seeing: ptr(4)})
	require.Equal(t, []string{"Poor seeing (4.0″) for detailed target"}, reasons)
}

func TestScoreWeatherThresholds(t *testing.T) {
	points, reasons := score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, CloudCover: ptr(50), Seeing: ptr(3), Type: "Galaxy"})
	require.Equal(t, 60, points)
	require.Equal(t, []string{"Popular target type (Galaxy)"}, reasons)

	points, _ = score(scoreInput{Altitude: 25, PeakAltitude: 80, Moon: moonHalf, CloudCover: ptr(100)})
	require.Equal(t, 35, points)
}

func TestClampScore(t *testing.T) {
	require.Equal(t, 0, clampScore(-7))
	require.Equal(t, 100, clampScore(130))
	require.Equal(t, 64, clampScore(64))
}
