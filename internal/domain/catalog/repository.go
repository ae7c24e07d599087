package catalog

import "context"

// Repository is the catalog source. Implementations return targets in a
// stable order so that downstream ranking ties are reproducible.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Target, error)
	Get(ctx context.Context, id string) (Target, bool, error)
	// Near returns targets within radiusDeg of (raHours, decDeg), closest first.
	Near(ctx context.Context, raHours, decDeg, radiusDeg float64, limit int) ([]Match, error)
	Upsert(ctx context.Context, targets []Target) (int, error)
}
