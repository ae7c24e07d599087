package catalogrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/skyplan/internal/domain/catalog"
)

// MemoryRepository is an in-process catalog used for development, tests and
// as the fallback when no database is configured. Targets keep insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]catalog.Target
}

// NewMemoryRepository constructs a repo preloaded with the given targets.
func NewMemoryRepository(seed ...catalog.Target) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]catalog.Target, len(seed))}
	_, _ = r.Upsert(context.Background(), seed)
	return r
}

// NewBuiltinRepository seeds a memory repo with the embedded catalog.
func NewBuiltinRepository() *MemoryRepository {
	return NewMemoryRepository(catalog.Builtin()...)
}

// List implements catalog.Repository.
func (r *MemoryRepository) List(_ context.Context, filter catalog.Filter) ([]catalog.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Target, 0, len(r.order))
	for _, id := range r.order {
		target := r.byID[id]
		if !filter.Matches(target) {
			continue
		}
		out = append(out, target.Clone())
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Get implements catalog.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (catalog.Target, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	target, ok := r.byID[id]
	if !ok {
		return catalog.Target{}, false, nil
	}
	return target.Clone(), true, nil
}

// Near implements catalog.Repository with a linear scan.
func (r *MemoryRepository) Near(_ context.Context, raHours, decDeg, radiusDeg float64, limit int) ([]catalog.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []catalog.Match
	for _, id := range r.order {
		target := r.byID[id]
		sep := catalog.Separation(raHours, decDeg, target.RA, target.Dec)
		if sep > radiusDeg {
			continue
		}
		matches = append(matches, catalog.Match{Target: target.Clone(), Separation: sep})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Separation < matches[j].Separation
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Upsert implements catalog.Repository. Existing ids keep their position.
func (r *MemoryRepository) Upsert(_ context.Context, targets []catalog.Target) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, target := range targets {
		if _, exists := r.byID[target.ID]; !exists {
			r.order = append(r.order, target.ID)
		}
		r.byID[target.ID] = target.Clone()
	}
	return len(targets), nil
}

var _ catalog.Repository = (*MemoryRepository)(nil)
