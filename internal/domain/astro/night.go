package astro

import "time"

const (
	// NightStartHour is the local clock hour a nightly scan begins.
	NightStartHour = 18
	// NightLength is the elapsed span of a nightly scan, 18:00 to 08:00 on
	// nights without a clock change.
	NightLength = 14 * time.Hour
)

// Night is the local scan interval used by the window search and the sampler.
type Night struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NightFor returns 18:00 on now's calendar day through 14 hours later, in
// now's location. Callers pass now already converted to the observer's zone.
// The span is elapsed time, so across a daylight-saving change the end reads
// 07:00 or 09:00 on the local clock.
func NightFor(now time.Time) Night {
	y, m, d := now.Date()
	start := time.Date(y, m, d, NightStartHour, 0, 0, 0, now.Location())
	return Night{Start: start, End: start.Add(NightLength)}
}

// Key identifies the night for cache bucketing.
func (n Night) Key() string {
	return n.Start.Format("2006-01-02T15:04Z07:00")
}
