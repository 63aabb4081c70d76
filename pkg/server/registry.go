package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gtreader/pkg/graph"
)

type entry struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Hash     string    `json:"hash"`
	LoadedAt time.Time `json:"loaded_at"`

	graph *graph.Graph
}

// registry holds loaded graphs in insertion order.
type registry struct {
	mu      sync.RWMutex
	max     int
	entries map[string]*entry
	order   []string
}

func newRegistry(max int) *registry {
	return &registry{max: max, entries: make(map[string]*entry)}
}

// add stores g under a fresh id, evicting the oldest entries past max.
func (r *registry) add(source, hash string, g *graph.Graph) *entry {
	e := &entry{
		ID:       uuid.NewString(),
		Source:   source,
		Hash:     hash,
		LoadedAt: time.Now().UTC(),
		graph:    g,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
	r.order = append(r.order, e.ID)
	for r.max > 0 && len(r.order) > r.max {
		delete(r.entries, r.order[0])
		r.order = r.order[1:]
	}
	return e
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry) list() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, len(r.order))
	for i, id := range r.order {
		out[i] = r.entries[id]
	}
	return out
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
