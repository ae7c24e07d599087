package astro

import (
	"math"
	"time"
)

const (
	julianDateJ2000     = 2451545.0
	julianDateUnixEpoch = 2440587.5
	daysPerCentury      = 36525.0
)

// JulianDate converts an instant to a Julian Date on the UT scale.
func JulianDate(t time.Time) float64 {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return julianDateUnixEpoch + secs/86400
}

// JulianCenturies returns T, the Julian centuries elapsed since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return (JulianDate(t) - julianDateJ2000) / daysPerCentury
}

// GreenwichSiderealHours returns Greenwich Mean Sidereal Time in hours [0,24).
func GreenwichSiderealHours(t time.Time) float64 {
	d := JulianDate(t) - julianDateJ2000
	T := d / daysPerCentury
	gmst := 280.46061837 + 360.98564736629*d + 0.000387933*T*T - T*T*T/38710000
	return normalize360(gmst) / 15
}

// LocalSiderealHours shifts GMST by the east-positive longitude.
func LocalSiderealHours(t time.Time, longitude float64) float64 {
	return normalize24(GreenwichSiderealHours(t) + longitude/15)
}

// HourAngle returns the hour angle of raHours in degrees [0,360), positive west of the meridian.
func HourAngle(raHours, longitude float64, t time.Time) float64 {
	return normalize360(LocalSiderealHours(t, longitude)*15 - raHours*15)
}

// AltAzAt converts an equatorial position to horizontal coordinates for an
// observer at (lat, lon). No refraction is applied, so positions near the
// horizon read slightly low compared with what the eye sees.
func AltAzAt(raHours, decDeg, lat, lon float64, t time.Time) AltAz {
	ha := rad(HourAngle(raHours, lon, t))
	dec := rad(decDeg)
	phi := rad(lat)

	sinAlt := math.Sin(dec)*math.Sin(phi) + math.Cos(dec)*math.Cos(phi)*math.Cos(ha)
	// north and east components of the horizontal unit vector
	north := math.Sin(dec)*math.Cos(phi) - math.Cos(dec)*math.Sin(phi)*math.Cos(ha)
	east := -math.Cos(dec) * math.Sin(ha)

	alt := deg(math.Atan2(clampUnit(sinAlt), math.Hypot(north, east)))
	az := normalize360(deg(math.Atan2(east, north)))
	return AltAz{Altitude: alt, Azimuth: az}
}

// equatorialFromEcliptic rotates ecliptic longitude/latitude (degrees) into RA hours and Dec degrees.
func equatorialFromEcliptic(lambda, beta, obliquity float64) (float64, float64) {
	l, b, e := rad(lambda), rad(beta), rad(obliquity)
	ra := math.Atan2(math.Sin(l)*math.Cos(e)-math.Tan(b)*math.Sin(e), math.Cos(l))
	dec := math.Asin(clampUnit(math.Sin(b)*math.Cos(e) + math.Cos(b)*math.Sin(e)*math.Sin(l)))
	return normalize360(deg(ra)) / 15, deg(dec)
}

// meanObliquity is the obliquity of the ecliptic in degrees for T centuries since J2000.
func meanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T
}
