// Package interner provides the process-wide string<->Id mapping every
// other component addresses identifiers through (spec §4.1).
package interner

import (
	"sync"

	"github.com/hakanago/hakana/internal/config"
)

// Id is a 32-bit opaque index into a process-wide interner. Zero is the
// empty identifier.
type Id uint32

// Empty is the reserved zero Id.
const Empty Id = 0

// Interner is the shared, mutex-guarded string table. Ids are stable across
// scans of the same repository in the same process; they are re-minted
// across process restarts, so a persisted cache rewrites its Ids by
// re-interning the string table on load (spec §4.1 "Contract").
type Interner struct {
	mu      sync.Mutex
	strings []string
	byValue map[string]Id
}

// New builds an Interner with its reserved builtin range pre-populated, so
// that every process sees the same small, dense Ids for built-in names.
func New() *Interner {
	in := &Interner{
		strings: make([]string, 1, 256), // index 0 reserved for Empty
		byValue: make(map[string]Id, 256),
	}
	for _, name := range config.ReservedBuiltinNames {
		in.intern(name)
	}
	return in
}

func (in *Interner) intern(s string) Id {
	if id, ok := in.byValue[s]; ok {
		return id
	}
	id := Id(len(in.strings))
	in.strings = append(in.strings, s)
	in.byValue[s] = id
	return id
}

// Intern returns the Id for s, minting a new one if s has not been seen.
// O(1) amortized.
func (in *Interner) Intern(s string) Id {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.intern(s)
}

// InternMany interns a batch of strings under a single lock acquisition.
// Nothing in the module calls it; the scanner interns through a Handle.
func (in *Interner) InternMany(ss []string) []Id {
	in.mu.Lock()
	defer in.mu.Unlock()
	ids := make([]Id, len(ss))
	for i, s := range ss {
		ids[i] = in.intern(s)
	}
	return ids
}

// Lookup returns the string for id. It panics if id was never produced by
// this Interner, matching spec §4.1's "infallible if the Id was produced by
// this interner" contract (a foreign Id is a caller bug, not user input).
func (in *Interner) Lookup(id Id) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(id) >= len(in.strings) {
		panic("interner: lookup of unknown Id")
	}
	return in.strings[id]
}

// Snapshot copies the current string table for merging into another
// Interner. Nothing in the module calls it: parallel scan workers intern
// straight into the shared table through their Handles.
func (in *Interner) Snapshot() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]string, len(in.strings))
	copy(out, in.strings)
	return out
}

// Merge interns every string from other's snapshot into in and returns the
// mapping from other's Ids to in's Ids, so a caller can rewrite any Ids it
// minted against other. Like Snapshot, it has no caller in the module.
func (in *Interner) Merge(otherStrings []string) map[Id]Id {
	remap := make(map[Id]Id, len(otherStrings))
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, s := range otherStrings {
		if i == 0 {
			remap[0] = 0
			continue
		}
		remap[Id(i)] = in.intern(s)
	}
	return remap
}

// Handle is a cloneable per-thread cache that forwards Intern to a shared
// Interner while caching hot Ids locally, avoiding a lock acquisition for
// repeated lookups of the same identifier within one worker (spec §4.1,
// §5 "the interner is shared; writes are behind a mutex, reads are
// lock-free after intern").
type Handle struct {
	shared *Interner
	cache  map[string]Id
}

// NewHandle creates a Handle bound to shared.
func NewHandle(shared *Interner) *Handle {
	return &Handle{shared: shared, cache: make(map[string]Id, 64)}
}

// Intern returns the Id for s, consulting the local cache before taking the
// shared Interner's lock.
func (h *Handle) Intern(s string) Id {
	if id, ok := h.cache[s]; ok {
		return id
	}
	id := h.shared.Intern(s)
	h.cache[s] = id
	return id
}

// Lookup defers to the shared Interner; reads need no local cache since the
// underlying table only grows.
func (h *Handle) Lookup(id Id) string {
	return h.shared.Lookup(id)
}

// Clone returns a new Handle sharing the same backing Interner with an
// empty local cache, for forking onto another worker goroutine.
func (h *Handle) Clone() *Handle {
	return NewHandle(h.shared)
}
