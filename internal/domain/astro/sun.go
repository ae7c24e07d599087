package astro

import (
	"math"
	"time"
)

const (
	sunriseAltitude         = -0.833
	civilTwilightAlt        = -6.0
	nauticalTwilightAlt     = -12.0
	astronomicalTwilightAlt = -18.0
)

// SunTimes lists the solar events around one local night. Events that do not
// happen (polar day or night) are nil.
type SunTimes struct {
	Sunset           *time.Time `json:"sunset,omitempty"`
	Sunrise          *time.Time `json:"sunrise,omitempty"`
	CivilDusk        *time.Time `json:"civilDusk,omitempty"`
	CivilDawn        *time.Time `json:"civilDawn,omitempty"`
	NauticalDusk     *time.Time `json:"nauticalDusk,omitempty"`
	NauticalDawn     *time.Time `json:"nauticalDawn,omitempty"`
	AstronomicalDusk *time.Time `json:"astronomicalDusk,omitempty"`
	AstronomicalDawn *time.Time `json:"astronomicalDawn,omitempty"`
}

// sunEcliptic returns the Sun's apparent ecliptic longitude in degrees using
// the low-precision almanac series (about 0.01°).
func sunEcliptic(t time.Time) float64 {
	n := JulianDate(t) - julianDateJ2000
	L := normalize360(280.460 + 0.9856474*n)
	g := rad(normalize360(357.528 + 0.9856003*n))
	return normalize360(L + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
}

// SunPosition returns the Sun's geocentric RA (hours) and Dec (degrees).
func SunPosition(t time.Time) Equatorial {
	ra, dec := equatorialFromEcliptic(sunEcliptic(t), 0, meanObliquity(JulianCenturies(t)))
	return Equatorial{RA: ra, Dec: dec}
}

// SunAltAz returns the Sun's horizontal position for an observer.
func SunAltAz(t time.Time, lat, lon float64) AltAz {
	eq := SunPosition(t)
	return AltAzAt(eq.RA, eq.Dec, lat, lon, t)
}

// SunTimesFor searches from local noon of t's calendar day to the following
// noon, so the evening events precede the morning ones.
func SunTimesFor(t time.Time, lat, lon float64) SunTimes {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 12, 0, 0, 0, t.Location())
	end := start.Add(24 * time.Hour)

	event := func(threshold float64, dir crossing) *time.Time {
		f := func(at time.Time) float64 { return SunAltAz(at, lat, lon).Altitude - threshold }
		at, ok := findCrossing(f, start, end, crossingScanStep, dir, crossingTolerance)
		if !ok {
			return nil
		}
		return &at
	}

	return SunTimes{
		Sunset:           event(sunriseAltitude, crossingDown),
		Sunrise:          event(sunriseAltitude, crossingUp),
		CivilDusk:        event(civilTwilightAlt, crossingDown),
		CivilDawn:        event(civilTwilightAlt, crossingUp),
		NauticalDusk:     event(nauticalTwilightAlt, crossingDown),
		NauticalDawn:     event(nauticalTwilightAlt, crossingUp),
		AstronomicalDusk: event(astronomicalTwilightAlt, crossingDown),
		AstronomicalDawn: event(astronomicalTwilightAlt, crossingUp),
	}
}
