package astro

import (
	"math"
	"time"
)

// SynodicMonth is the mean new-moon to new-moon period in days.
const SynodicMonth = 29.530588853

// MoonState is recomputed per call and never persisted.
type MoonState struct {
	Illumination float64    `json:"illumination"`
	Phase        float64    `json:"phase"`
	PhaseName    string     `json:"phaseName"`
	Age          float64    `json:"age"`
	Waxing       bool       `json:"waxing"`
	Position     AltAz      `json:"position"`
	RA           float64    `json:"ra"`
	Dec          float64    `json:"dec"`
	DistanceKm   float64    `json:"distanceKm"`
	Rise         *time.Time `json:"rise,omitempty"`
	Set          *time.Time `json:"set,omitempty"`
}

// IsUp reports whether the Moon's centre is above the flat horizon.
func (m MoonState) IsUp() bool {
	return m.Position.Altitude > 0
}

type lunarEcliptic struct {
	lambda   float64
	beta     float64
	distance float64
}

// moonEcliptic evaluates a truncated lunar series (largest terms of the
// Meeus tables), good to a few arc-minutes in longitude.
func moonEcliptic(t time.Time) lunarEcliptic {
	T := JulianCenturies(t)
	Lp := normalize360(218.3164477 + 481267.88123421*T)
	D := rad(normalize360(297.8501921 + 445267.1114034*T))
	M := rad(normalize360(357.5291092 + 35999.0502909*T))
	Mp := rad(normalize360(134.9633964 + 477198.8675055*T))
	F := rad(normalize360(93.2720950 + 483202.0175233*T))

	lambda := Lp +
		6.288774*math.Sin(Mp) +
		1.274027*math.Sin(2*D-Mp) +
		0.658314*math.Sin(2*D) +
		0.213618*math.Sin(2*Mp) -
		0.185116*math.Sin(M) -
		0.114332*math.Sin(2*F) +
		0.058793*math.Sin(2*D-2*Mp) +
		0.057066*math.Sin(2*D-M-Mp) +
		0.053322*math.Sin(2*D+Mp) +
		0.045758*math.Sin(2*D-M) -
		0.040923*math.Sin(M-Mp) -
		0.034720*math.Sin(D) -
		0.030383*math.Sin(M+Mp)

	beta := 5.128122*math.Sin(F) +
		0.280602*math.Sin(Mp+F) +
		0.277693*math.Sin(Mp-F) +
		0.173237*math.Sin(2*D-F) +
		0.055413*math.Sin(2*D-Mp+F) +
		0.046271*math.Sin(2*D-Mp-F) +
		0.032573*math.Sin(2*D+F) +
		0.017198*math.Sin(2*Mp+F)

	distance := 385000.56 -
		20905.355*math.Cos(Mp) -
		3699.111*math.Cos(2*D-Mp) -
		2955.968*math.Cos(2*D) -
		569.925*math.Cos(2*Mp) +
		48.888*math.Cos(M) -
		3.149*math.Cos(2*F) +
		246.158*math.Cos(2*D-2*Mp) -
		152.138*math.Cos(2*D-M-Mp) -
		170.733*math.Cos(2*D+Mp) -
		204.586*math.Cos(2*D-M) -
		129.620*math.Cos(M-Mp) +
		108.743*math.Cos(D) +
		104.755*math.Cos(M+Mp)

	return lunarEcliptic{lambda: normalize360(lambda), beta: beta, distance: distance}
}

// MoonPosition returns the Moon's geocentric RA (hours) and Dec (degrees).
func MoonPosition(t time.Time) Equatorial {
	ecl := moonEcliptic(t)
	ra, dec := equatorialFromEcliptic(ecl.lambda, ecl.beta, meanObliquity(JulianCenturies(t)))
	return Equatorial{RA: ra, Dec: dec}
}

// MoonAltAz returns the Moon's horizontal position. Parallax is ignored, so
// the altitude can read up to about a degree high.
func MoonAltAz(t time.Time, lat, lon float64) AltAz {
	eq := MoonPosition(t)
	return AltAzAt(eq.RA, eq.Dec, lat, lon, t)
}

// MoonAt computes phase, illumination, position and the next rise/set within
// 24 hours of t.
func MoonAt(t time.Time, lat, lon float64) MoonState {
	ecl := moonEcliptic(t)
	sunLambda := sunEcliptic(t)
	ra, dec := equatorialFromEcliptic(ecl.lambda, ecl.beta, meanObliquity(JulianCenturies(t)))

	elongation := normalize360(ecl.lambda - sunLambda)
	cosPsi := clampUnit(math.Cos(rad(ecl.beta)) * math.Cos(rad(elongation)))
	illumination := (1 - cosPsi) / 2
	phase := elongation / 360

	altFn := func(at time.Time) float64 { return MoonAltAz(at, lat, lon).Altitude }
	state := MoonState{
		Illumination: illumination,
		Phase:        phase,
		PhaseName:    PhaseName(phase),
		Age:          phase * SynodicMonth,
		Waxing:       phase < 0.5,
		Position:     AltAzAt(ra, dec, lat, lon, t),
		RA:           ra,
		Dec:          dec,
		DistanceKm:   ecl.distance,
	}
	if rise, ok := findCrossing(altFn, t, t.Add(24*time.Hour), crossingScanStep, crossingUp, crossingTolerance); ok {
		state.Rise = &rise
	}
	if set, ok := findCrossing(altFn, t, t.Add(24*time.Hour), crossingScanStep, crossingDown, crossingTolerance); ok {
		state.Set = &set
	}
	return state
}

// PhaseName bands a phase value in [0,1) (0 new, 0.5 full). The thresholds
// are fixed; existing displays depend on them.
func PhaseName(phase float64) string {
	switch {
	case phase < 0.03:
		return "New Moon"
	case phase < 0.22:
		return "Waxing Crescent"
	case phase < 0.28:
		return "First Quarter"
	case phase < 0.47:
		return "Waxing Gibbous"
	case phase < 0.53:
		return "Full Moon"
	case phase < 0.72:
		return "Waning Gibbous"
	case phase < 0.78:
		return "Last Quarter"
	case phase < 0.97:
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// AngularSeparation returns the angle in degrees between two horizontal
// positions using the spherical law of cosines.
func AngularSeparation(a, b AltAz) float64 {
	a1, a2 := rad(a.Altitude), rad(b.Altitude)
	dAz := rad(a.Azimuth - b.Azimuth)
	c := math.Sin(a1)*math.Sin(a2) + math.Cos(a1)*math.Cos(a2)*math.Cos(dAz)
	return deg(math.Acos(clampUnit(c)))
}
