// Package formula implements the CNF assertion store and reconciler the
// flow analyzer narrows local variable types with (spec §4.5 "Formula
// store & reconciler").
package formula

import (
	"fmt"
	"strings"

	"github.com/hakanago/hakana/internal/types"
)

// Assertion is one fact a branch condition can assert about a variable.
// The closed set mirrors spec §4.5's assertion grammar.
type Assertion interface {
	assertionNode()
	String() string
}

// IsType asserts the variable is contained by Type.
type IsType struct{ Type types.Atomic }

func (IsType) assertionNode()  {}
func (a IsType) String() string { return a.Type.Key() + ":" + a.Type.String() }

// IsNotType asserts the variable is not contained by Type.
type IsNotType struct{ Type types.Atomic }

func (IsNotType) assertionNode()  {}
func (a IsNotType) String() string { return "!" + a.Type.Key() + ":" + a.Type.String() }

// IsEqual asserts the variable equals the literal atomic Type exactly.
type IsEqual struct{ Type types.Atomic }

func (IsEqual) assertionNode()  {}
func (a IsEqual) String() string { return "=" + a.Type.String() }

// IsNotEqual asserts the variable does not equal the literal atomic Type.
type IsNotEqual struct{ Type types.Atomic }

func (IsNotEqual) assertionNode()  {}
func (a IsNotEqual) String() string { return "!=" + a.Type.String() }

// Falsy / Truthy assert the variable's runtime truthiness.
type Falsy struct{}

func (Falsy) assertionNode()  {}
func (Falsy) String() string { return "falsy" }

type Truthy struct{}

func (Truthy) assertionNode()  {}
func (Truthy) String() string { return "truthy" }

// IsIsset / IsNotIsset assert isset()-style definedness.
type IsIsset struct{}

func (IsIsset) assertionNode()  {}
func (IsIsset) String() string { return "isset" }

type IsNotIsset struct{}

func (IsNotIsset) assertionNode()  {}
func (IsNotIsset) String() string { return "!isset" }

// IsArrayKey asserts the variable is a valid arraykey (int or string).
type IsArrayKey struct{}

func (IsArrayKey) assertionNode()  {}
func (IsArrayKey) String() string { return "array-key" }

// HasArrayKey asserts a container definitely has Key, from a
// `array_key_exists`/`isset($a[k])`-style predicate.
type HasArrayKey struct{ Key string }

func (HasArrayKey) assertionNode()  {}
func (a HasArrayKey) String() string { return fmt.Sprintf("has-array-key:%s", a.Key) }

// ArrayKeyExists asserts the variable is a container at all (any key).
type ArrayKeyExists struct{}

func (ArrayKeyExists) assertionNode()  {}
func (ArrayKeyExists) String() string { return "array-key-exists" }

// NonEmptyCountable asserts a Countable has at least one element. Recursive
// additionally asserts every known item is itself non-empty.
type NonEmptyCountable struct{ Recursive bool }

func (NonEmptyCountable) assertionNode() {}
func (a NonEmptyCountable) String() string {
	if a.Recursive {
		return "non-empty-countable-recursive"
	}
	return "non-empty-countable"
}

// HasExactCount asserts a Countable has exactly N elements.
type HasExactCount struct{ N int }

func (HasExactCount) assertionNode()  {}
func (a HasExactCount) String() string { return fmt.Sprintf("has-exact-count:%d", a.N) }

// IgnoreTaints asserts the following code should not propagate taint from
// this variable (an explicit `invariant`/sanitizer-style escape hatch).
type IgnoreTaints struct{}

func (IgnoreTaints) assertionNode()  {}
func (IgnoreTaints) String() string { return "ignore-taints" }

// RemoveTaints asserts specific taint kinds should be stripped from Var,
// injected by starts-with-literal/regex-match predicates on URI-ish values
// (spec §4.6 "Special-cased names").
type RemoveTaints struct {
	Var    string
	Taints []string
}

func (RemoveTaints) assertionNode() {}
func (a RemoveTaints) String() string {
	return fmt.Sprintf("remove-taints(%s):%s", a.Var, strings.Join(a.Taints, ","))
}

// Negate returns the logical complement of a, used by negate_formula and by
// the positive/negative split in reconcile.
func Negate(a Assertion) Assertion {
	switch v := a.(type) {
	case IsType:
		return IsNotType{Type: v.Type}
	case IsNotType:
		return IsType{Type: v.Type}
	case IsEqual:
		return IsNotEqual{Type: v.Type}
	case IsNotEqual:
		return IsEqual{Type: v.Type}
	case Falsy:
		return Truthy{}
	case Truthy:
		return Falsy{}
	case IsIsset:
		return IsNotIsset{}
	case IsNotIsset:
		return IsIsset{}
	default:
		return a
	}
}
