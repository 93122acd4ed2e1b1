package types

import (
	"sort"
	"strings"
)

// DataFlowNodeID is an opaque identifier for a dataflow graph vertex,
// declared here (rather than imported from internal/dataflow) to avoid a
// cycle: internal/dataflow depends on internal/types for the Union it
// carries on each node, not the other way around.
type DataFlowNodeID string

// Union is the ordered-by-key mapping from Atomic.Key() to Atomic that
// spec §3 calls `Type`: the one type every expression, parameter, and local
// variable actually carries (renamed here to avoid Go's types.Type stutter).
//
// Invariant: no two atomics share a Key (spec §3 "Union type").
type Union struct {
	atomics map[string]Atomic

	// ParentNodes is the set of dataflow nodes that produced this value.
	ParentNodes map[DataFlowNodeID]struct{}

	HadTemplate                bool
	ReferenceFree               bool
	PossiblyUndefinedFromTry    bool
	IgnoreFalsableIssues        bool
	FromTemplateDefault         bool
	HasMutations                bool
	Populated                   bool

	// PossiblyUndefined marks a union produced from an optional known-item
	// or a destructuring slot that might not exist at runtime.
	PossiblyUndefined bool
}

// Single builds the one-atomic union; spec §3 calls this "the single form"
// and many call sites switch on it directly.
func Single(a Atomic) Union {
	return Union{atomics: map[string]Atomic{a.Key(): a}}
}

// FromAtomics builds a union from a set of distinct-keyed atomics. It does
// not merge same-keyed atomics; callers that might produce collisions
// should route through comparator.Combine first.
func FromAtomics(atomics ...Atomic) Union {
	u := Union{atomics: make(map[string]Atomic, len(atomics))}
	for _, a := range atomics {
		u.atomics[a.Key()] = a
	}
	return u
}

// Empty reports whether this union carries no atomics (an uninitialized
// zero value, or the impossible type before it's reconciled to TNothing).
func (u Union) Empty() bool { return len(u.atomics) == 0 }

// Len returns the number of distinct-keyed atomics.
func (u Union) Len() int { return len(u.atomics) }

// AsSingle tests whether the union has exactly one atomic and returns it.
func (u Union) AsSingle() (Atomic, bool) {
	if len(u.atomics) != 1 {
		return nil, false
	}
	for _, a := range u.atomics {
		return a, true
	}
	return nil, false
}

// Get returns the atomic stored under key, if any.
func (u Union) Get(key string) (Atomic, bool) {
	a, ok := u.atomics[key]
	return a, ok
}

// Has reports whether any atomic in u has the given key.
func (u Union) Has(key string) bool {
	_, ok := u.atomics[key]
	return ok
}

// Atomics returns the union's atomics sorted by key, for deterministic
// iteration (diagnostics, test golden output, cache serialization).
func (u Union) Atomics() []Atomic {
	keys := make([]string, 0, len(u.atomics))
	for k := range u.atomics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Atomic, len(keys))
	for i, k := range keys {
		out[i] = u.atomics[k]
	}
	return out
}

// With returns a copy of u with a replaced/added (flags preserved).
func (u Union) With(a Atomic) Union {
	out := u.clone()
	out.atomics[a.Key()] = a
	return out
}

// Without returns a copy of u with the atomic under key removed.
func (u Union) Without(key string) Union {
	out := u.clone()
	delete(out.atomics, key)
	return out
}

func (u Union) clone() Union {
	out := Union{
		atomics:                  make(map[string]Atomic, len(u.atomics)),
		HadTemplate:              u.HadTemplate,
		ReferenceFree:            u.ReferenceFree,
		PossiblyUndefinedFromTry: u.PossiblyUndefinedFromTry,
		IgnoreFalsableIssues:     u.IgnoreFalsableIssues,
		FromTemplateDefault:      u.FromTemplateDefault,
		HasMutations:             u.HasMutations,
		Populated:                u.Populated,
		PossiblyUndefined:        u.PossiblyUndefined,
	}
	for k, v := range u.atomics {
		out.atomics[k] = v
	}
	if u.ParentNodes != nil {
		out.ParentNodes = make(map[DataFlowNodeID]struct{}, len(u.ParentNodes))
		for k := range u.ParentNodes {
			out.ParentNodes[k] = struct{}{}
		}
	}
	return out
}

// WithParentNode returns a copy of u with id added to ParentNodes, used by
// the flow analyzer when it threads a dataflow edge into a freshly
// computed expression type (spec §4.6 "Assignment" step 6).
func (u Union) WithParentNode(id DataFlowNodeID) Union {
	out := u.clone()
	if out.ParentNodes == nil {
		out.ParentNodes = make(map[DataFlowNodeID]struct{}, 1)
	}
	out.ParentNodes[id] = struct{}{}
	return out
}

func (u Union) String() string {
	if u.Empty() {
		return "nothing"
	}
	atomics := u.Atomics()
	parts := make([]string, len(atomics))
	for i, a := range atomics {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

// Nothing is the bottom union: an impossible type with no atomics. It is
// distinct from Single(TNothing{}), which has one atomic and for which
// Empty() reports false.
func Nothing() Union { return Union{} }
