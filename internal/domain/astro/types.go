// Package astro holds the pure sky math behind the planner: coordinate
// transforms, horizon obstruction, lunar and solar models, nightly
// visibility windows and chart sampling. Nothing in here performs I/O.
package astro

import (
	"math"
	"time"
)

// AltAz is a horizontal position. Azimuth runs clockwise from North in [0,360).
type AltAz struct {
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
}

// Equatorial is a catalog position: RA in hours, Dec in degrees.
type Equatorial struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// Site is the observer snapshot the engine reads at call time.
type Site struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Horizon   HorizonProfile `json:"horizon,omitempty"`
}

// Snapshot returns a copy whose horizon samples are detached from the caller's slice.
func (s Site) Snapshot() Site {
	return Site{Latitude: s.Latitude, Longitude: s.Longitude, Horizon: s.Horizon.Clone()}
}

// Position evaluates the site's view of eq at the given instant.
func (s Site) Position(eq Equatorial, t time.Time) AltAz {
	return AltAzAt(eq.RA, eq.Dec, s.Latitude, s.Longitude, t)
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func normalize360(x float64) float64 {
	m := math.Mod(x, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m -= 360
	}
	return m
}

func normalize24(x float64) float64 {
	m := math.Mod(x, 24)
	if m < 0 {
		m += 24
	}
	if m >= 24 {
		m -= 24
	}
	return m
}

func clampUnit(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	default:
		return x
	}
}
