package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
)

const baseScore = 50

var (
	popularTypes = []string{
		catalog.TypeGlobularCluster,
		catalog.TypeOpenCluster,
		catalog.TypeGalaxy,
		catalog.TypeNebula,
		catalog.TypePlanetaryNebula,
	}
	seeingSensitiveTypes = []string{
		catalog.TypePlanetaryNebula,
		catalog.TypeGalaxy,
		catalog.TypeDoubleStar,
	}
)

// scoreInput is everything the scorer reads. It is a plain value so the
// rules can be tested without running the sky math.
type scoreInput struct {
	Altitude     float64
	PeakAltitude float64
	Magnitude    *float64
	Type         string
	Moon         astro.MoonState
	CloudCover   *float64
	Seeing       *float64
}

// score applies the rules in their fixed order. Reasons are appended in the
// same order and callers rely on it.
func score(in scoreInput) (int, []string) {
	total := baseScore
	var reasons []string
	add := func(delta int, reason string) {
		total += delta
		reasons = append(reasons, reason)
	}

	altDeg := int(math.Round(in.Altitude))
	switch {
	case in.Altitude >= 60:
		add(25, fmt.Sprintf("High altitude (%d°)", altDeg))
	case in.Altitude >= 40:
		add(15, fmt.Sprintf("Good altitude (%d°)", altDeg))
	case in.Altitude >= 30:
		add(8, fmt.Sprintf("Moderate altitude (%d°)", altDeg))
	}

	if in.PeakAltitude > 0 && in.Altitude >= 0.9*in.PeakAltitude {
		add(5, "Near peak altitude tonight")
	}

	illum := int(math.Round(in.Moon.Illumination * 100))
	faint := in.Magnitude != nil && *in.Magnitude > 8
	switch {
	case !in.Moon.IsUp():
		add(15, "Moon below horizon")
	case in.Moon.Illumination < 0.25:
		add(15, fmt.Sprintf("Dim moon (%d%% illuminated)", illum))
	case in.Moon.Illumination > 0.5 && faint:
		add(-20, fmt.Sprintf("Bright moon washes out faint target (%d%% illuminated)", illum))
	case in.Moon.Illumination > 0.5:
		add(-5, fmt.Sprintf("Bright moon (%d%% illuminated)", illum))
	}

	if in.Magnitude != nil {
		mag := *in.Magnitude
		switch {
		case mag < 4:
			add(15, fmt.Sprintf("Very bright (mag %.1f)", mag))
		case mag < 6:
			add(10, fmt.Sprintf("Bright (mag %.1f)", mag))
		case mag < 8:
			add(5, fmt.Sprintf("Moderately bright (mag %.1f)", mag))
		}
	}

	if catalog.MatchesType(in.Type, popularTypes) {
		add(10, fmt.Sprintf("Popular target type (%s)", in.Type))
	}

	if in.CloudCover != nil && *in.CloudCover > 50 {
		c := *in.CloudCover
		add(-int(math.Round((c-50)*0.3)), fmt.Sprintf("Cloud cover %d%%", int(math.Round(c))))
	}

	if in.Seeing != nil && *in.Seeing > 3 && isSeeingSensitive(in.Type) {
		add(-10, fmt.Sprintf("Poor seeing (%.1f″) for detailed target", *in.Seeing))
	}

	return clampScore(total), reasons
}

func isSeeingSensitive(targetType string) bool {
	lowered := strings.ToLower(targetType)
	for _, t := range seeingSensitiveTypes {
		if strings.Contains(lowered, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
