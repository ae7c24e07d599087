// Package recommend ranks catalog targets for an observer and a night.
package recommend

import (
	"runtime"
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/catalog"
	"github.com/yanqian/skyplan/internal/domain/observer"
	"github.com/yanqian/skyplan/pkg/metrics"
)

const (
	// DefaultRecommender is the registry key used when a request names none.
	DefaultRecommender = "visibility"
	DefaultMinAltitude = 20.0
	DefaultMaxTargets  = 20
)

// Context is the per-request environment a recommender evaluates against.
// Now should already be in the observer's zone; the nightly scan starts at
// 18:00 on Now's calendar day. Moon may be supplied to avoid recomputation.
type Context struct {
	Now        time.Time
	Observer   observer.Location
	CloudCover *float64
	Seeing     *float64
	Moon       *astro.MoonState
}

// Options tune candidate filtering and output size.
type Options struct {
	MinAltitude  float64
	MaxTargets   int
	Types        []string
	MinMagnitude *float64
	MaxMagnitude *float64
	Parallelism  int
}

// DefaultOptions returns a 20° floor and a cap of 20 results.
func DefaultOptions() Options {
	return Options{MinAltitude: DefaultMinAltitude, MaxTargets: DefaultMaxTargets}
}

func (o Options) maxTargets() int {
	if o.MaxTargets <= 0 {
		return DefaultMaxTargets
	}
	return o.MaxTargets
}

func (o Options) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Parallelism
}

// RecommendedTarget is a ranked candidate. It is built per request and never stored.
type RecommendedTarget struct {
	Target   catalog.Target         `json:"target"`
	Position astro.AltAz            `json:"position"`
	Compass  string                 `json:"compass"`
	Window   astro.VisibilityWindow `json:"window"`
	Score    int                    `json:"score"`
	Reasons  []string               `json:"reasons"`
}

// Request is the service-level payload, shared by HTTP and the refresher.
type Request struct {
	Observer     observer.Ref `json:"observer"`
	Recommender  string       `json:"recommender,omitempty"`
	Now          *time.Time   `json:"now,omitempty"`
	CloudCover   *float64     `json:"cloudCover,omitempty"`
	Seeing       *float64     `json:"seeing,omitempty"`
	MinAltitude  *float64     `json:"minAltitude,omitempty"`
	MaxTargets   *int         `json:"maxTargets,omitempty"`
	Types        []string     `json:"types,omitempty"`
	MinMagnitude *float64     `json:"minMagnitude,omitempty"`
	MaxMagnitude *float64     `json:"maxMagnitude,omitempty"`
	TargetIDs    []string     `json:"targetIds,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	Recommender string                  `json:"recommender"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Night       astro.Night             `json:"night"`
	Observer    observer.Location       `json:"observer"`
	Moon        astro.MoonState         `json:"moon"`
	Targets     []RecommendedTarget     `json:"targets"`
	Stats       metrics.EvaluationStats `json:"stats"`
	DurationMs  int64                   `json:"durationMs,omitempty"`
}

// Config holds runtime knobs for the recommendation service.
type Config struct {
	DefaultRecommender string
	MinAltitude        float64
	MaxTargets         int
	Parallelism        int
}
