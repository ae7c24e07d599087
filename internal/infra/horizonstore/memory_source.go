package horizonstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/observer"
)

// MemorySource serves horizon documents held in memory. Useful for tests and local dev.
type MemorySource struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewMemorySource constructs a source from key → horizon file contents.
func NewMemorySource(docs map[string]string) *MemorySource {
	copied := make(map[string]string, len(docs))
	for k, v := range docs {
		copied[k] = v
	}
	return &MemorySource{docs: copied}
}

// Put stores or replaces a document.
func (s *MemorySource) Put(key, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = doc
}

// Load implements observer.HorizonSource.
func (s *MemorySource) Load(_ context.Context, key string) (astro.HorizonProfile, error) {
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("horizon %q not found", key)
	}
	return astro.ParseHorizonProfile(strings.NewReader(doc)), nil
}

var _ observer.HorizonSource = (*MemorySource)(nil)
