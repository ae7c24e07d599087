package catalog

import "strings"

// MatchesType reports whether the target type contains any of types,
// case-insensitively. An empty list matches everything.
func MatchesType(targetType string, types []string) bool {
	if len(types) == 0 {
		return true
	}
	lowered := strings.ToLower(targetType)
	for _, want := range types {
		want = strings.ToLower(strings.TrimSpace(want))
		if want != "" && strings.Contains(lowered, want) {
			return true
		}
	}
	return false
}

// WithinMagnitude applies optional bounds. A target without a known
// magnitude passes; the bounds only exclude what they can judge.
func WithinMagnitude(mag, minMag, maxMag *float64) bool {
	if mag == nil {
		return true
	}
	if minMag != nil && *mag < *minMag {
		return false
	}
	if maxMag != nil && *mag > *maxMag {
		return false
	}
	return true
}

// Matches applies every filter constraint except Limit.
func (f Filter) Matches(t Target) bool {
	return MatchesType(t.Type, f.Types) && WithinMagnitude(t.Magnitude, f.MinMagnitude, f.MaxMagnitude)
}
