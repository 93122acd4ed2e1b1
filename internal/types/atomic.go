// Package types implements the type lattice: atomic types, the union form
// that unions them, and the type-level operations that don't require
// comparing two atomics against each other (that's internal/comparator).
// This mirrors the teacher's internal/typesystem package split between
// "what a type is" (types.go) and "how two types relate" (unify.go), with
// the HM unification replaced by Hakana's structural containment lattice.
package types

import "github.com/hakanago/hakana/internal/interner"

// Atomic is the leaf form of a value type: one tagged variant from spec §3
// "Atomic type". Each variant is an immutable value struct; behaviour over
// Atomic lives in free functions that type-switch on it (internal/comparator,
// internal/flowanalyzer), per spec §9's "dynamic visitor dispatch... is
// modelled here as pattern matching on tagged variants".
type Atomic interface {
	// Key is the canonical short string used as the union map key. Two
	// atomics sharing a Key must be joinable into one by comparator.Combine
	// (spec §4.2 "Key").
	Key() string
	String() string
}

// --- Primitives ---

type TInt struct{}

func (TInt) Key() string    { return "int" }
func (TInt) String() string { return "int" }

type TFloat struct{}

func (TFloat) Key() string    { return "float" }
func (TFloat) String() string { return "float" }

// TNum is the int|float supertype produced by combine (spec §4.2 rule 3).
type TNum struct{}

func (TNum) Key() string    { return "num" }
func (TNum) String() string { return "num" }

type TString struct{}

func (TString) Key() string    { return "string" }
func (TString) String() string { return "string" }

// TStringWithFlags refines TString with three independent flags: truthy
// (non-"0", non-empty), non_empty, and nonspecific_literal (the value came
// from combining distinct literals and no longer names one).
type TStringWithFlags struct {
	Truthy              bool
	NonEmpty            bool
	NonspecificLiteral  bool
}

func (TStringWithFlags) Key() string { return "string" }
func (t TStringWithFlags) String() string {
	switch {
	case t.Truthy:
		return "truthy-string"
	case t.NonEmpty:
		return "non-empty-string"
	default:
		return "string"
	}
}

// TArraykey is int|string; FromAny marks one produced by erasing a Mixed
// rather than written directly by the user (affects coercion diagnostics).
type TArraykey struct {
	FromAny bool
}

func (TArraykey) Key() string    { return "arraykey" }
func (TArraykey) String() string { return "arraykey" }

type TBool struct{}

func (TBool) Key() string    { return "bool" }
func (TBool) String() string { return "bool" }

type TTrue struct{}

func (TTrue) Key() string    { return "true" }
func (TTrue) String() string { return "true" }

type TFalse struct{}

func (TFalse) Key() string    { return "false" }
func (TFalse) String() string { return "false" }

type TNull struct{}

func (TNull) Key() string    { return "null" }
func (TNull) String() string { return "null" }

type TVoid struct{}

func (TVoid) Key() string    { return "void" }
func (TVoid) String() string { return "void" }

// TNothing is the bottom type: the result of reconciling a variable to an
// impossible type (spec §4.5).
type TNothing struct{}

func (TNothing) Key() string    { return "nothing" }
func (TNothing) String() string { return "nothing" }

// TPlaceholder stands in for `_` in a type position.
type TPlaceholder struct{}

func (TPlaceholder) Key() string    { return "placeholder" }
func (TPlaceholder) String() string { return "_" }

// TScalar is the historical int|float|string|bool supertype.
type TScalar struct{}

func (TScalar) Key() string    { return "scalar" }
func (TScalar) String() string { return "scalar" }

// --- Literals ---

type TLiteralInt struct {
	Value int64
}

func (TLiteralInt) Key() string       { return "int" }
func (t TLiteralInt) String() string  { return intToString(t.Value) }

type TLiteralString struct {
	Value string
}

func (TLiteralString) Key() string      { return "string" }
func (t TLiteralString) String() string { return "'" + t.Value + "'" }

// TLiteralClassname is a `Foo::class` literal, e.g. the type of the
// expression `Foo::class` itself (not the classname<T> wrapper).
type TLiteralClassname struct {
	Name interner.Id
}

func (TLiteralClassname) Key() string        { return "class-string" }
func (t TLiteralClassname) String() string   { return lookupOrId(t.Name) + "::class" }

// --- Mixed family ---

type TMixed struct{}

func (TMixed) Key() string    { return "mixed" }
func (TMixed) String() string { return "mixed" }

// TMixedAny is the "any"-flavoured mixed produced by an unresolved symbol
// (spec §7 "Missing symbol at analyze time ... substitutes MixedAny").
type TMixedAny struct{}

func (TMixedAny) Key() string    { return "mixed" }
func (TMixedAny) String() string { return "mixed" }

type TNonnullMixed struct{}

func (TNonnullMixed) Key() string    { return "mixed" }
func (TNonnullMixed) String() string { return "nonnull" }

// TMixedFromLoopIsset marks a variable narrowed inside isset() within a loop
// whose pre-loop type was unknown; used to suppress false "always truthy"
// diagnostics on loop-induced placeholders (spec §4.5).
type TMixedFromLoopIsset struct{}

func (TMixedFromLoopIsset) Key() string    { return "mixed" }
func (TMixedFromLoopIsset) String() string { return "mixed" }

type TFalsyMixed struct{}

func (TFalsyMixed) Key() string    { return "mixed" }
func (TFalsyMixed) String() string { return "falsy-mixed" }

type TTruthyMixed struct{}

func (TTruthyMixed) Key() string    { return "mixed" }
func (TTruthyMixed) String() string { return "truthy-mixed" }

func intToString(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
