package observerrepo

import (
	"context"
	"sync"

	"github.com/yanqian/skyplan/internal/domain/observer"
)

// MemoryRepository keeps saved locations in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]observer.Location
}

// NewMemoryRepository constructs a repo preloaded with seed locations.
func NewMemoryRepository(seed ...observer.Location) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]observer.Location, len(seed))}
	for _, loc := range seed {
		_, _ = r.Save(context.Background(), loc)
	}
	return r
}

// Get implements observer.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (observer.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.byID[id]
	if !ok {
		return observer.Location{}, false, nil
	}
	return clone(loc), true, nil
}

// List implements observer.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]observer.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]observer.Location, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.byID[id]))
	}
	return out, nil
}

// Save implements observer.Repository.
func (r *MemoryRepository) Save(_ context.Context, loc observer.Location) (observer.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[loc.ID]; !exists {
		r.order = append(r.order, loc.ID)
	}
	r.byID[loc.ID] = clone(loc)
	return clone(loc), nil
}

func clone(loc observer.Location) observer.Location {
	loc.Horizon = loc.Horizon.Clone()
	return loc
}

var _ observer.Repository = (*MemoryRepository)(nil)
