package types

import (
	"fmt"
	"strings"

	"github.com/hakanago/hakana/internal/interner"
)

// Param is one closure parameter's type-level shape (distinct from
// ast.Param, which also carries source position and a default-value
// expression).
type Param struct {
	Name       string
	Type       Union
	IsOptional bool
	IsVariadic bool
	IsByRef    bool
}

// Effects mirrors ast.FunctionEffects at the type level, carried on TClosure
// so effect-polymorphic higher-order functions can propagate it.
type EffectsKind int

const (
	EffectsNone EffectsKind = iota
	EffectsArg
	EffectsSome
	EffectsUnknown
)

type Effects struct {
	Kind EffectsKind
	Arg  uint8
	Mask uint64
}

// TClosure is a first-class function type, e.g. `(function(int): string)`.
type TClosure struct {
	Params     []Param
	ReturnType *Union // nil means not yet inferred
	Effects    Effects
	ClosureID  interner.Id // identifies the declaring closure literal
}

func (TClosure) Key() string { return "closure" }

func (t TClosure) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Type.String()
	}
	ret := "mixed"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return fmt.Sprintf("(function(%s): %s)", strings.Join(parts, ", "), ret)
}

// TClosureAlias is a bare reference to a named function used where a
// closure type is expected, e.g. passing `some_function<>` by name.
type TClosureAlias struct {
	FunctionID interner.Id
}

func (TClosureAlias) Key() string      { return "closure" }
func (t TClosureAlias) String() string { return lookupOrId(t.FunctionID) + "<>" }
