package types

import (
	"fmt"
	"strings"

	"github.com/hakanago/hakana/internal/interner"
)

// TNamedObject is an instantiated classlike type, e.g. `Box<int>`.
// ExtraTypes represents an intersection with further named types
// (`Box<int> & Countable`), following spec §4.4's "intersections are
// represented by the extra_types slot on NamedObject".
// RemappedParams holds, for generics inferred via a narrowing assertion, the
// substitution from the class's own template names to the narrowed args
// (used when reconciling `$x is Box<int>` against a generic `$x: Box<Tv>`).
type TNamedObject struct {
	Name           interner.Id
	TypeParams     []Union // nil when not yet specialized / raw
	IsThis         bool    // `this` rather than a plain instantiation
	ExtraTypes     []TNamedObject
	RemappedParams map[interner.Id]Union
}

func (TNamedObject) Key() string { return "named-object" }

func (t TNamedObject) String() string {
	name := lookupOrId(t.Name)
	s := name
	if len(t.TypeParams) > 0 {
		parts := make([]string, len(t.TypeParams))
		for i, p := range t.TypeParams {
			parts[i] = p.String()
		}
		s = fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
	}
	if t.IsThis {
		s = "this(" + s + ")"
	}
	for _, extra := range t.ExtraTypes {
		s += "&" + extra.String()
	}
	return s
}

// TObject is the untyped `object` supertype of every classlike.
type TObject struct{}

func (TObject) Key() string    { return "object" }
func (TObject) String() string { return "object" }

// nameLookup, when installed through SetNameLookup, lets Atomic.String()
// render human-readable names without threading an interner handle through
// every call. Nothing in the module calls SetNameLookup, so by default ids
// render as "#<n>". It is only used for diagnostics; analysis never depends
// on String() output.
var nameLookup func(interner.Id) string

// SetNameLookup installs the function used to render interner Ids in
// diagnostic strings.
func SetNameLookup(f func(interner.Id) string) { nameLookup = f }

func lookupOrId(id interner.Id) string {
	if nameLookup != nil {
		return nameLookup(id)
	}
	return fmt.Sprintf("#%d", uint32(id))
}
