package recommend

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

// WindowCache memoises visibility windows. Entries must be time bounded; a
// window is only meaningful for the night it was computed for.
type WindowCache interface {
	Get(ctx context.Context, key string) (astro.VisibilityWindow, bool, error)
	Set(ctx context.Context, key string, window astro.VisibilityWindow, ttl time.Duration) error
}

// WindowKey identifies a window by target, observer fingerprint, night and
// altitude floor.
func WindowKey(targetID, observerFingerprint string, night astro.Night, minAltitude float64) string {
	return strings.Join([]string{
		targetID,
		observerFingerprint,
		night.Key(),
		strconv.FormatFloat(minAltitude, 'f', 2, 64),
	}, "|")
}
