package resource

import "sync"

// Index maps component keys to resources. Create one per analysis run;
// entries are never removed except by Reset.
type Index struct {
	mu    sync.RWMutex
	byKey map[string]*Resource
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{byKey: make(map[string]*Resource)}
}

// Register adds r to the index. A resource registered again under the same
// key replaces the earlier one.
func (idx *Index) Register(r *Resource) {
	if r == nil || r.Key == "" {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byKey[r.Key] = r
}

// RegisterAll registers every resource in rs
func (idx *Index) RegisterAll(rs []*Resource) {
	for _, r := range rs {
		idx.Register(r)
	}
}

// Lookup returns the resource registered under key
func (idx *Index) Lookup(key string) (*Resource, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	r, ok := idx.byKey[key]
	return r, ok
}

// Len returns the number of registered resources
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byKey)
}

// Reset removes every resource
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byKey = make(map[string]*Resource)
}
