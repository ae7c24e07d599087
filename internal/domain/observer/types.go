// Package observer holds observing sites and how they are resolved for a request.
package observer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

// Location is a saved or ad-hoc observing site. Longitude is east-positive.
// HorizonKey names a horizon file in the configured horizon source; it is
// only consulted when Horizon is empty.
type Location struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Latitude   float64              `json:"latitude"`
	Longitude  float64              `json:"longitude"`
	Elevation  float64              `json:"elevation,omitempty"`
	Timezone   string               `json:"timezone,omitempty"`
	Horizon    astro.HorizonProfile `json:"horizon,omitempty"`
	HorizonKey string               `json:"horizonKey,omitempty"`
}

// Validate checks coordinate ranges and horizon sample altitudes.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90,90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180,180]", l.Longitude)
	}
	for _, pt := range l.Horizon {
		if pt.Altitude < -90 || pt.Altitude > 90 {
			return fmt.Errorf("horizon altitude %.2f at azimuth %.2f out of range", pt.Altitude, pt.Azimuth)
		}
	}
	return nil
}

// Site snapshots the location for the sky math. The horizon samples are
// copied so later edits to the location cannot leak into a running request.
func (l Location) Site() astro.Site {
	return astro.Site{Latitude: l.Latitude, Longitude: l.Longitude, Horizon: l.Horizon}.Snapshot()
}

// Fingerprint identifies everything about the location that changes a
// visibility result: coordinates and horizon samples.
func (l Location) Fingerprint() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(l.Latitude, 'f', 6, 64))
	b.WriteByte('/')
	b.WriteString(strconv.FormatFloat(l.Longitude, 'f', 6, 64))
	for _, pt := range l.Horizon.Normalized() {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(pt.Azimuth, 'f', 3, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(pt.Altitude, 'f', 3, 64))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
