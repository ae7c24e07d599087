package astro

import "time"

const (
	// WindowStep is the cadence of the nightly visibility scan.
	WindowStep = 10 * time.Minute
	// MinVisibleHours is the shortest window that counts as "observable tonight".
	MinVisibleHours = 0.5

	maxAltitudeSpan = 12 * time.Hour
	maxAltitudeStep = 15 * time.Minute
)

// VisibilityWindow summarises one night for one target and observer.
type VisibilityWindow struct {
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
	DurationHours   float64    `json:"durationHours"`
	OptimalTime     *time.Time `json:"optimalTime,omitempty"`
	PeakAltitude    float64    `json:"peakAltitude"`
	RisesBeforeScan bool       `json:"risesBeforeScan"`
	SetsAfterScan   bool       `json:"setsAfterScan"`
	ScanStart       time.Time  `json:"scanStart"`
	ScanEnd         time.Time  `json:"scanEnd"`
}

// Visible reports whether any scanned step cleared the effective horizon.
func (w VisibilityWindow) Visible() bool {
	return w.Start != nil
}

// ObservableTonight applies the downstream half-hour threshold.
func (w VisibilityWindow) ObservableTonight() bool {
	return w.DurationHours >= MinVisibleHours
}

// FindVisibilityWindow scans tonight's interval (see NightFor) for eq.
func FindVisibilityWindow(eq Equatorial, site Site, minAltitude float64, now time.Time) VisibilityWindow {
	night := NightFor(now)
	return ScanWindow(eq, site, minAltitude, night.Start, night.End, WindowStep)
}

// ScanWindow steps through [start, end). At each step the azimuth is
// recomputed and the effective minimum is max(minAltitude, horizon at that
// azimuth). Start is the first visible step and End the first visible to
// hidden transition; a target still up at the last step ends at end. The
// peak is taken over visible steps, or over the whole scan when the target
// never clears the horizon. Duration counts every visible step.
func ScanWindow(eq Equatorial, site Site, minAltitude float64, start, end time.Time, step time.Duration) VisibilityWindow {
	w := VisibilityWindow{ScanStart: start, ScanEnd: end}
	if step <= 0 || !end.After(start) {
		return w
	}

	var (
		visibleSteps int
		visiblePeak  = -91.0
		overallPeak  = -91.0
		wasVisible   bool
		first        = true
	)
	for t := start; t.Before(end); t = t.Add(step) {
		pos := site.Position(eq, t)
		visible := pos.Altitude >= EffectiveMinimum(minAltitude, site.Horizon, pos.Azimuth)
		if pos.Altitude > overallPeak {
			overallPeak = pos.Altitude
		}

		if visible {
			visibleSteps++
			if w.Start == nil {
				at := t
				w.Start = &at
				w.RisesBeforeScan = first
			}
			if pos.Altitude > visiblePeak {
				visiblePeak = pos.Altitude
				at := t
				w.OptimalTime = &at
			}
		} else if wasVisible && w.End == nil {
			at := t
			w.End = &at
		}
		wasVisible = visible
		first = false
	}

	if wasVisible && w.End == nil {
		at := end
		w.End = &at
		w.SetsAfterScan = true
	}
	w.DurationHours = (time.Duration(visibleSteps) * step).Hours()
	if w.Start != nil {
		w.PeakAltitude = visiblePeak
	} else {
		w.PeakAltitude = overallPeak
	}
	return w
}

// FindMaxAltitude is a coarse, horizon-agnostic peak finder: a 12 hour scan at
// 15 minute steps from start, inclusive of both ends.
func FindMaxAltitude(eq Equatorial, lat, lon float64, start time.Time) (time.Time, float64) {
	best := start
	bestAlt := -91.0
	steps := int(maxAltitudeSpan / maxAltitudeStep)
	for i := 0; i <= steps; i++ {
		t := start.Add(time.Duration(i) * maxAltitudeStep)
		alt := AltAzAt(eq.RA, eq.Dec, lat, lon, t).Altitude
		if alt > bestAlt {
			bestAlt = alt
			best = t
		}
	}
	return best, bestAlt
}
