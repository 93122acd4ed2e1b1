// Package comparator implements the subtype judgment and lattice join over
// internal/types values (spec §4.4 "Type comparator & combiner"). It is
// kept separate from internal/types per spec §2's component split: the type
// model knows what a type is, the comparator knows how two types relate.
package comparator

import (
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// Hierarchy is the minimal symbol-graph surface the comparator needs:
// inheritance closures, sealed whitelists, and template parameter mappings.
// codebase.Codebase implements it; declared here to avoid an import cycle
// (codebase depends on comparator to answer "is the declared return type
// compatible" during population-adjacent checks... in practice the
// dependency only runs one way, comparator -> this interface -> codebase,
// resolved through the interface, not a direct import).
type Hierarchy interface {
	// IsParentClass reports whether ancestor is in descendant's transitive
	// all_parent_classes set.
	IsParentClass(descendant, ancestor interner.Id) bool
	// IsParentInterface reports whether ancestor is in descendant's
	// transitive all_parent_interfaces set.
	IsParentInterface(descendant, ancestor interner.Id) bool
	// TemplateExtendedParams returns, for descendant's relationship to
	// ancestor, the mapping from ancestor's template parameter names to the
	// concrete types descendant's declaration supplied.
	TemplateExtendedParams(descendant, ancestor interner.Id) map[interner.Id]types.Union
	// SealedChildren returns the other direct descendants of a sealed
	// class/interface besides except, for negative subtype refinement
	// (spec §4.4 "Sealed classes").
	SealedChildren(sealedParent, except interner.Id) []interner.Id
	// CommonAncestor returns the nearest common ancestor of two named
	// classlikes for combine's cross-name join (spec §4.2 rule 2).
	CommonAncestor(a, b interner.Id) (interner.Id, bool)
	// EnumCaseValue returns the inferred literal atomic for one case of an
	// enum, used when checking `LiteralString ⊑ Enum{E}`.
	EnumCaseValue(enumName, member interner.Id) (types.Atomic, bool)
	// EnumMembers lists an enum's case names, so a bare literal can be
	// checked against every case's value (spec §4.4 "Enum containment").
	EnumMembers(enumName interner.Id) []interner.Id
}

// Comparator bundles a Hierarchy with the two public operations spec §4.4
// names: IsContainedBy and Combine.
type Comparator struct {
	H Hierarchy
}

func New(h Hierarchy) *Comparator {
	return &Comparator{H: h}
}
