package astro

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// HorizonPoint is one obstruction sample: the lowest observable altitude at an azimuth.
type HorizonPoint struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

// HorizonProfile is an observer-specific obstruction curve. A nil or empty
// profile is a flat 0° horizon.
type HorizonProfile []HorizonPoint

// Clone returns an independent copy of the samples.
func (p HorizonProfile) Clone() HorizonProfile {
	if len(p) == 0 {
		return nil
	}
	out := make(HorizonProfile, len(p))
	copy(out, p)
	return out
}

// Normalized returns the samples with azimuths wrapped into [0,360) and
// sorted ascending. The receiver is returned as-is when already normalized.
func (p HorizonProfile) Normalized() HorizonProfile {
	ready := true
	for i, pt := range p {
		if pt.Azimuth < 0 || pt.Azimuth >= 360 || (i > 0 && p[i-1].Azimuth > pt.Azimuth) {
			ready = false
			break
		}
	}
	if ready {
		return p
	}
	out := make(HorizonProfile, len(p))
	for i, pt := range p {
		out[i] = HorizonPoint{Azimuth: normalize360(pt.Azimuth), Altitude: pt.Altitude}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Azimuth < out[j].Azimuth })
	return out
}

// HorizonAltitude returns the minimum observable altitude at azimuth,
// interpolating linearly between the two samples that bracket it on the circle.
func HorizonAltitude(profile HorizonProfile, azimuth float64) float64 {
	switch len(profile) {
	case 0:
		return 0
	case 1:
		return profile[0].Altitude
	}

	pts := profile.Normalized()
	az := normalize360(azimuth)
	n := len(pts)
	for i := 0; i < n; i++ {
		lo := pts[i]
		hi := pts[(i+1)%n]
		span := normalize360(hi.Azimuth - lo.Azimuth)
		if span == 0 {
			continue
		}
		offset := normalize360(az - lo.Azimuth)
		if offset < span {
			return lo.Altitude + (offset/span)*(hi.Altitude-lo.Altitude)
		}
	}
	// every sample shares one azimuth
	return pts[0].Altitude
}

// IsAboveHorizon reports whether a position clears the profile. A missing
// profile behaves as a flat 0° floor, not as "no limit".
func IsAboveHorizon(altitude, azimuth float64, profile HorizonProfile) bool {
	return altitude > HorizonAltitude(profile, azimuth)
}

// EffectiveMinimum is the floor a target must reach at azimuth: the profile can
// only raise the configured minimum, never lower it.
func EffectiveMinimum(minAltitude float64, profile HorizonProfile, azimuth float64) float64 {
	return math.Max(minAltitude, HorizonAltitude(profile, azimuth))
}

// ParseHorizonProfile reads "azimuth altitude" pairs, one per line. Blank
// lines and lines starting with '#' are ignored, commas and semicolons are
// accepted as separators, and malformed lines are skipped. Empty input yields
// an empty profile.
func ParseHorizonProfile(r io.Reader) HorizonProfile {
	var out HorizonProfile
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if pt, ok := parseHorizonLine(scanner.Text()); ok {
			out = append(out, pt)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out.Normalized()
}

// ParseHorizonProfileString is ParseHorizonProfile over an in-memory document.
func ParseHorizonProfileString(doc string) HorizonProfile {
	return ParseHorizonProfile(strings.NewReader(doc))
}

func parseHorizonLine(line string) (HorizonPoint, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return HorizonPoint{}, false
	}
	line = strings.NewReplacer(",", " ", ";", " ").Replace(line)
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return HorizonPoint{}, false
	}
	az, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(az) || math.IsInf(az, 0) {
		return HorizonPoint{}, false
	}
	alt, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(alt) || math.IsInf(alt, 0) || alt < -90 || alt > 90 {
		return HorizonPoint{}, false
	}
	return HorizonPoint{Azimuth: az, Altitude: alt}, true
}
