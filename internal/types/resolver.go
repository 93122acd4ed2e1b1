package types

import "github.com/hakanago/hakana/internal/interner"

// ResolvedKind classifies what a bare Reference turned out to name once the
// symbol graph has been populated (spec §4.2 "Population").
type ResolvedKind int

const (
	ResolvedNone ResolvedKind = iota
	ResolvedClass
	ResolvedEnum
	ResolvedTypeAlias
)

// Resolver is the minimal symbol-graph surface Populate/Expand need.
// codebase.Codebase implements it; the interface lives here (rather than
// types importing codebase) so that codebase, which stores types.Union
// values on every record, doesn't form an import cycle with types.
type Resolver interface {
	// ResolveName classifies a bare name after population.
	ResolveName(id interner.Id) ResolvedKind

	// EnumBounds returns an enum's declared `as` bound and underlying
	// scalar type.
	EnumBounds(id interner.Id) (asType, underlying Union, ok bool)

	// TypeAliasBody returns a type alias's declared shape.
	TypeAliasBody(id interner.Id) (params []interner.Id, isOpaque bool, underlying Union, ok bool)

	// TypeConstant resolves `class::member` to its bound type.
	TypeConstant(class, member interner.Id) (Union, bool)

	// ClosureSignature returns a named function's type as a closure, used
	// to resolve TClosureAlias.
	ClosureSignature(function interner.Id) (TClosure, bool)

	// StaticClassContext resolves `this`/`static`/`self` for expand_union's
	// options.static_class_type (spec §4.2 "Expansion").
	StaticClassContext() (interner.Id, bool)
}
