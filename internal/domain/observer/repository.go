package observer

import (
	"context"

	"github.com/yanqian/skyplan/internal/domain/astro"
)

// Repository persists saved observing sites.
type Repository interface {
	Get(ctx context.Context, id string) (Location, bool, error)
	List(ctx context.Context) ([]Location, error)
	Save(ctx context.Context, loc Location) (Location, error)
}

// HorizonSource loads a horizon file by key. Implementations parse leniently:
// a malformed or empty file yields an empty (flat) profile, not an error.
// Errors are reserved for the file being unreachable.
type HorizonSource interface {
	Load(ctx context.Context, key string) (astro.HorizonProfile, error)
}
