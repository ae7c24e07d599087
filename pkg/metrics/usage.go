package metrics

// EvaluationStats counts how a recommendation request disposed of its candidates.
type EvaluationStats struct {
	Candidates   int `json:"candidates"`
	Filtered     int `json:"filtered"`
	BelowHorizon int `json:"belowHorizon"`
	ShortWindow  int `json:"shortWindow"`
	Recommended  int `json:"recommended"`
	CacheHits    int `json:"cacheHits,omitempty"`
	CacheMisses  int `json:"cacheMisses,omitempty"`
}

// IsZero reports whether no candidate was evaluated.
func (s EvaluationStats) IsZero() bool {
	return s == EvaluationStats{}
}

// Add folds another batch into s.
func (s *EvaluationStats) Add(o EvaluationStats) {
	s.Candidates += o.Candidates
	s.Filtered += o.Filtered
	s.BelowHorizon += o.BelowHorizon
	s.ShortWindow += o.ShortWindow
	s.Recommended += o.Recommended
	s.CacheHits += o.CacheHits
	s.CacheMisses += o.CacheMisses
}
