package astro

import "time"

type crossing int

const (
	crossingUp crossing = iota
	crossingDown
)

const (
	crossingScanStep  = 10 * time.Minute
	crossingTolerance = 30 * time.Second
)

// findCrossing scans f across [start, end) for the first sign change in the
// requested direction and bisects it down to tol.
func findCrossing(f func(time.Time) float64, start, end time.Time, step time.Duration, dir crossing, tol time.Duration) (time.Time, bool) {
	if !end.After(start) || step <= 0 {
		return time.Time{}, false
	}
	prevT := start
	prevV := f(start)
	for t := start.Add(step); !t.After(end); t = t.Add(step) {
		v := f(t)
		if matches(prevV, v, dir) {
			return bisect(f, prevT, t, dir, tol), true
		}
		prevT, prevV = t, v
	}
	return time.Time{}, false
}

func matches(before, after float64, dir crossing) bool {
	if dir == crossingUp {
		return before < 0 && after >= 0
	}
	return before >= 0 && after < 0
}

func bisect(f func(time.Time) float64, lo, hi time.Time, dir crossing, tol time.Duration) time.Time {
	for hi.Sub(lo) > tol {
		mid := lo.Add(hi.Sub(lo) / 2)
		above := f(mid) >= 0
		// keep the sub-interval that still contains the crossing
		if above == (dir == crossingUp) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2)
}
