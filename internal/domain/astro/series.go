package astro

import (
	"math"
	"time"
)

const (
	// SeriesStep is the chart sampling cadence.
	SeriesStep = 15 * time.Minute
	// IdealAltitude flags chart points worth highlighting. It is a display
	// threshold and independent of any scoring minimum.
	IdealAltitude = 30.0
)

// SeriesPoint is one chart sample. Altitude is clamped at 0 for display,
// RawAltitude keeps the computed value.
type SeriesPoint struct {
	Time        time.Time `json:"time"`
	Altitude    float64   `json:"altitude"`
	RawAltitude float64   `json:"rawAltitude"`
	Azimuth     float64   `json:"azimuth"`
	Compass     string    `json:"compass"`
	IsIdeal     bool      `json:"isIdeal"`
}

// Series pairs the target samples with the horizon floor at each sample's azimuth.
type Series struct {
	Points       []SeriesPoint `json:"points"`
	HorizonFloor []float64     `json:"horizonFloor"`
}

// Peak returns the sample with the highest raw altitude.
func (s Series) Peak() (SeriesPoint, bool) {
	if len(s.Points) == 0 {
		return SeriesPoint{}, false
	}
	best := s.Points[0]
	for _, pt := range s.Points[1:] {
		if pt.RawAltitude > best.RawAltitude {
			best = pt
		}
	}
	return best, true
}

// SampleNight samples the 14-hour night from 18:00 at SeriesStep (57 points).
func SampleNight(eq Equatorial, site Site, now time.Time) Series {
	night := NightFor(now)
	return Sample(eq, site, night.Start, night.End, SeriesStep)
}

// Sample evaluates eq at every step from start through end inclusive.
func Sample(eq Equatorial, site Site, start, end time.Time, step time.Duration) Series {
	if step <= 0 || end.Before(start) {
		return Series{}
	}
	count := int(end.Sub(start)/step) + 1
	series := Series{
		Points:       make([]SeriesPoint, 0, count),
		HorizonFloor: make([]float64, 0, count),
	}
	for i := 0; i < count; i++ {
		t := start.Add(time.Duration(i) * step)
		pos := site.Position(eq, t)
		series.Points = append(series.Points, SeriesPoint{
			Time:        t,
			Altitude:    math.Max(0, pos.Altitude),
			RawAltitude: pos.Altitude,
			Azimuth:     pos.Azimuth,
			Compass:     CompassDirection(pos.Azimuth),
			IsIdeal:     pos.Altitude >= IdealAltitude,
		})
		series.HorizonFloor = append(series.HorizonFloor, HorizonAltitude(site.Horizon, pos.Azimuth))
	}
	return series
}
