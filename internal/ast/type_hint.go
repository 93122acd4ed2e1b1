package ast

// NamedTypeHint covers both simple names (`int`, `MyClass`) and generic
// instantiations (`dict<string, int>`, `Box<Tv>`).
type NamedTypeHint struct {
	span
	Name       string
	TypeParams []TypeHint
}

func (h *NamedTypeHint) typeHintNode() {}

// NullableTypeHint is `?T`.
type NullableTypeHint struct {
	span
	Inner TypeHint
}

func (h *NullableTypeHint) typeHintNode() {}

// UnionTypeHint is `T1 | T2 | ...` (a Hakana-extension-style union literal
// in a type position, as opposed to the inferred Union value type).
type UnionTypeHint struct {
	span
	Members []TypeHint
}

func (h *UnionTypeHint) typeHintNode() {}

// IntersectionTypeHint is `T1 & T2`.
type IntersectionTypeHint struct {
	span
	Members []TypeHint
}

func (h *IntersectionTypeHint) typeHintNode() {}

// ShapeTypeHint is `shape('a' => int, ?'b' => string, ...)`.
type ShapeField struct {
	Name     string
	Optional bool
	Hint     TypeHint
}

type ShapeTypeHint struct {
	span
	Fields     []ShapeField
	IsOpen     bool // trailing `...`
	ShapeName  string
}

func (h *ShapeTypeHint) typeHintNode() {}

// TupleTypeHint is `(int, string, bool)`.
type TupleTypeHint struct {
	span
	Elements []TypeHint
}

func (h *TupleTypeHint) typeHintNode() {}

// ClosureTypeHint is `(function(int, string): bool)`.
type ClosureTypeHint struct {
	span
	Params     []TypeHint
	ReturnHint TypeHint
}

func (h *ClosureTypeHint) typeHintNode() {}

// LiteralTypeHint is an inline literal in a type position, used for enum
// `as` clauses and literal-string/int narrowing hints.
type LiteralTypeHint struct {
	span
	IntValue    int64
	StringValue string
	IsString    bool
}

func (h *LiteralTypeHint) typeHintNode() {}

// ClassTypeConstantHint is `C::TMember`.
type ClassTypeConstantHint struct {
	span
	ClassHint  TypeHint
	MemberName string
}

func (h *ClassTypeConstantHint) typeHintNode() {}

// ThisTypeHint is the literal `this` type.
type ThisTypeHint struct{ span }

func (h *ThisTypeHint) typeHintNode() {}
