package catalog

import "math"

// Separation is the great-circle distance in degrees between two equatorial
// positions (RA in hours, Dec in degrees), via the haversine form.
func Separation(ra1, dec1, ra2, dec2 float64) float64 {
	a1, d1 := ra1*15*math.Pi/180, dec1*math.Pi/180
	a2, d2 := ra2*15*math.Pi/180, dec2*math.Pi/180
	sinDd := math.Sin((d2 - d1) / 2)
	sinDa := math.Sin((a2 - a1) / 2)
	h := sinDd*sinDd + math.Cos(d1)*math.Cos(d2)*sinDa*sinDa
	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) * 180 / math.Pi
}

// UnitVector projects a position onto the unit sphere. Euclidean distance
// between two such vectors is a monotonic function of their separation.
func UnitVector(raHours, decDeg float64) []float32 {
	ra := raHours * 15 * math.Pi / 180
	dec := decDeg * math.Pi / 180
	return []float32{
		float32(math.Cos(dec) * math.Cos(ra)),
		float32(math.Cos(dec) * math.Sin(ra)),
		float32(math.Sin(dec)),
	}
}

// ChordLength converts an angular radius to the matching unit-vector distance.
func ChordLength(radiusDeg float64) float64 {
	return 2 * math.Sin(math.Min(radiusDeg, 180)*math.Pi/360)
}
