package types

import (
	"fmt"
	"strings"

	"github.com/hakanago/hakana/internal/interner"
)

// TTypeAlias is a resolved reference to a `type`/`newtype` declaration.
// AsType is its declared upper bound for a newtype (opaque outside its
// declaring file), nil for a transparent `type` alias.
type TTypeAlias struct {
	Name       interner.Id
	TypeParams []Union
	AsType     *Union
}

func (t TTypeAlias) Key() string { return fmt.Sprintf("alias#%d", uint32(t.Name)) }

func (t TTypeAlias) String() string {
	if len(t.TypeParams) == 0 {
		return lookupOrId(t.Name)
	}
	parts := make([]string, len(t.TypeParams))
	for i, p := range t.TypeParams {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s<%s>", lookupOrId(t.Name), strings.Join(parts, ", "))
}

// Reference is an unresolved placeholder left by the scanner before
// population runs: a bare name that could turn out to be a class, an enum,
// or a type alias once the symbol graph is populated (spec §4.2
// "Population").
type Reference struct {
	Name       interner.Id
	TypeParams []Union
}

func (r Reference) Key() string    { return fmt.Sprintf("ref#%d", uint32(r.Name)) }
func (r Reference) String() string { return lookupOrId(r.Name) }
