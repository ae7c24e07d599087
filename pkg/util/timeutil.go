package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// InZone converts t to the named IANA zone. Unknown or empty names leave t
// in UTC and report false.
func InZone(t time.Time, name string) (time.Time, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return t.UTC(), false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return t.UTC(), false
	}
	return t.In(loc), true
}

// SiteTime expresses t in the observer's named zone. When the name is empty
// or unknown it falls back to the whole-hour zone of the longitude and
// reports false.
func SiteTime(t time.Time, name string, longitude float64) (time.Time, bool) {
	if local, ok := InZone(t, name); ok {
		return local, true
	}
	return t.In(LongitudeZone(longitude)), false
}

// LongitudeZone is the nautical time zone for a longitude: round(lon/15) hours east of UTC.
func LongitudeZone(longitude float64) *time.Location {
	hours := int(math.Round(longitude / 15))
	return time.FixedZone(fmt.Sprintf("UTC%+03d", hours), hours*3600)
}
