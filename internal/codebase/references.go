package codebase

import (
	"sync"

	"github.com/hakanago/hakana/internal/interner"
)

// SymbolReferences is the reverse-dependency graph the incremental driver
// walks to decide what else needs reanalysis after a file changes (spec §7
// "Invalidation": "changing a class invalidates every direct and
// transitive user of it").
type SymbolReferences struct {
	mu sync.RWMutex

	// dependents[to] is the set of symbols whose declaration or body
	// references `to`.
	dependents map[interner.Id]map[interner.Id]bool
}

func NewSymbolReferences() *SymbolReferences {
	return &SymbolReferences{dependents: make(map[interner.Id]map[interner.Id]bool)}
}

// AddReference records that `from` mentions `to` (a parent class, an
// implemented interface, a parameter/return type, a called function).
func (r *SymbolReferences) AddReference(from, to interner.Id) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.dependents[to]
	if !ok {
		set = make(map[interner.Id]bool)
		r.dependents[to] = set
	}
	set[from] = true
}

// ClearReferencesFrom drops every reference recorded as coming from `from`,
// called before a file's symbols are re-scanned so stale edges don't linger.
func (r *SymbolReferences) ClearReferencesFrom(from interner.Id) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, set := range r.dependents {
		delete(set, from)
	}
}

// Dependents returns every symbol that directly references sym.
func (r *SymbolReferences) Dependents(sym interner.Id) []interner.Id {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.dependents[sym]
	out := make([]interner.Id, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	return out
}

// TransitiveClosure returns every symbol reachable by following Dependents
// edges from changed, including changed itself — the full invalidation set
// for one scan pass.
func (r *SymbolReferences) TransitiveClosure(changed []interner.Id) map[interner.Id]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[interner.Id]bool, len(changed))
	queue := append([]interner.Id(nil), changed...)
	for _, id := range queue {
		result[id] = true
	}
	for i := 0; i < len(queue); i++ {
		for d := range r.dependents[queue[i]] {
			if !result[d] {
				result[d] = true
				queue = append(queue, d)
			}
		}
	}
	return result
}
