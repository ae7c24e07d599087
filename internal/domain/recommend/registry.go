package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yanqian/skyplan/internal/domain/catalog"
)

// Recommender ranks candidate targets. Implementations must not mutate the
// targets slice and must return results ordered best first.
type Recommender interface {
	Name() string
	Recommend(ctx context.Context, targets []catalog.Target, rc Context, opts Options) ([]RecommendedTarget, error)
}

// Registry resolves recommenders by key.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Recommender
}

// NewRegistry registers the given recommenders; duplicate names panic since
// they indicate a wiring mistake.
func NewRegistry(recs ...Recommender) *Registry {
	r := &Registry{items: make(map[string]Recommender, len(recs))}
	for _, rec := range recs {
		if err := r.Register(rec); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds rec under its lower-cased Name.
func (r *Registry) Register(rec Recommender) error {
	key := strings.ToLower(strings.TrimSpace(rec.Name()))
	if key == "" {
		return fmt.Errorf("recommender name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("recommender %q already registered", key)
	}
	r.items[key] = rec
	return nil
}

// Get looks up a recommender; an empty name selects DefaultRecommender.
func (r *Registry) Get(name string) (Recommender, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultRecommender
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[key]
	return rec, ok
}

// Names lists registered keys alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
