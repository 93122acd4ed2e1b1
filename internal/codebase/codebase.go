// Package codebase holds the global symbol graph: every classlike,
// function, typedef, and constant the scanner discovered, plus the
// inheritance and template-parameter closures computed over them
// (spec §4.3 "Codebase & symbol graph"). It implements types.Resolver and
// comparator.Hierarchy so the lower-level packages can stay dependency-free
// of it (see internal/types/resolver.go, internal/comparator/comparator.go).
package codebase

import (
	"sync"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// TemplateParamInfo is one declared generic parameter on a class or
// function (spec §3 "Classlike record ... template_types").
type TemplateParamInfo struct {
	Name     interner.Id
	AsType   types.Union
	Variance ast.TemplateVariance
}

// ParamInfo is one resolved function/method parameter.
type ParamInfo struct {
	Name       interner.Id
	Type       types.Union
	IsVariadic bool
	IsByRef    bool
	IsOptional bool
}

// ClasslikeInfo is spec §3's "Classlike record": a class, interface, trait,
// or enum, plus the inheritance closures Populate computes over it.
type ClasslikeInfo struct {
	Name       interner.Id
	Kind       ast.ClasslikeKind
	IsFinal    bool
	IsAbstract bool

	TemplateParams []TemplateParamInfo

	DirectParentClass     interner.Id // Empty when none
	DirectParentClassArgs []types.Union
	DirectParentInterfaces     []interner.Id
	DirectParentInterfaceArgs  [][]types.Union
	DirectTraits               []interner.Id

	// SealedChildren is the declared `<<Sealed(...)>>` whitelist, trusted
	// as-is rather than re-derived from a reverse scan of every other
	// class's DirectParentClass (spec §4.4 "Sealed classes").
	SealedChildren []interner.Id

	// AllParentClasses / AllParentInterfaces / TemplateExtendedParams are
	// filled by (*Codebase).Populate; nil beforehand.
	AllParentClasses       map[interner.Id]bool
	AllParentInterfaces    map[interner.Id]bool
	TemplateExtendedParams map[interner.Id]map[interner.Id]types.Union

	Properties    map[interner.Id]types.Union
	Methods       map[interner.Id]bool // method name set; bodies live in Codebase.Functionlikes
	Constants     map[interner.Id]types.Union
	TypeConstants map[interner.Id]types.Union

	// Enum-only fields (Kind == KindEnum || KindEnumClass).
	EnumAsType     *types.Union
	EnumUnderlying *types.Union
	EnumCases      map[interner.Id]types.Atomic

	DeclaringFile string
	SignatureHash uint64
	BodyHash      uint64
}

// FunctionlikeInfo is spec §3's "Functionlike record": a free function,
// method, or closure's resolved signature.
type FunctionlikeInfo struct {
	Key            MemberKey
	TemplateParams []TemplateParamInfo
	Params         []ParamInfo
	ReturnType     types.Union
	Effects        types.Effects

	IsStatic   bool
	IsAbstract bool
	IsPure     bool
	IsAsync    bool

	DeclaringFile string
	SignatureHash uint64
	BodyHash      uint64
}

// MemberKey identifies a function or method: Class is Empty for a free
// function, or the declaring classlike's Id for a method.
type MemberKey struct {
	Class  interner.Id
	Member interner.Id
}

// TypedefInfo is spec §3's "Typedef record": a `type`/`newtype` declaration.
type TypedefInfo struct {
	Name           interner.Id
	TemplateParams []interner.Id
	IsOpaque       bool
	AsType         *types.Union
	Underlying     types.Union
	DeclaringFile  string
	SignatureHash  uint64
}

// ConstantInfo is a top-level `const` declaration.
type ConstantInfo struct {
	Name          interner.Id
	Type          types.Union
	DeclaringFile string
	SignatureHash uint64
}

// Codebase is the global symbol graph every analyzed file contributes to
// and every flow-sensitive check reads from (spec §2 "internal/codebase").
type Codebase struct {
	mu sync.RWMutex

	Classlikes    map[interner.Id]*ClasslikeInfo
	Functionlikes map[MemberKey]*FunctionlikeInfo
	Typedefs      map[interner.Id]*TypedefInfo
	Constants     map[interner.Id]*ConstantInfo

	// staticClassContext is set by the flow analyzer before expanding a
	// method body's types, so `this`/`self`/`static` resolve correctly
	// (spec §4.2 "Expansion", types.Resolver.StaticClassContext).
	staticClassContext interner.Id
	hasStaticContext   bool

	populated bool
}

func NewCodebase() *Codebase {
	return &Codebase{
		Classlikes:    make(map[interner.Id]*ClasslikeInfo),
		Functionlikes: make(map[MemberKey]*FunctionlikeInfo),
		Typedefs:      make(map[interner.Id]*TypedefInfo),
		Constants:     make(map[interner.Id]*ConstantInfo),
	}
}

// AddClasslike registers ci, overwriting any previous definition under the
// same name — the scan driver calls this once per file per classlike, and
// re-calls it on a rescan after invalidation (spec §7 "Scan phase").
func (cb *Codebase) AddClasslike(ci *ClasslikeInfo) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.Classlikes[ci.Name] = ci
	cb.populated = false
}

func (cb *Codebase) AddFunctionlike(fi *FunctionlikeInfo) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.Functionlikes[fi.Key] = fi
}

func (cb *Codebase) AddTypedef(td *TypedefInfo) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.Typedefs[td.Name] = td
}

func (cb *Codebase) AddConstant(c *ConstantInfo) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.Constants[c.Name] = c
}

// SetStaticClassContext pins `this`/`static`/`self` resolution for the
// duration of one method body's analysis; the flow analyzer calls this
// before Expand-ing any type drawn from that body.
func (cb *Codebase) SetStaticClassContext(id interner.Id) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.staticClassContext = id
	cb.hasStaticContext = true
}

func (cb *Codebase) ClearStaticClassContext() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.hasStaticContext = false
}

// Classlike looks up one classlike record by name.
func (cb *Codebase) Classlike(id interner.Id) (*ClasslikeInfo, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[id]
	return ci, ok
}

// Functionlike looks up a free function or method's record.
func (cb *Codebase) Functionlike(key MemberKey) (*FunctionlikeInfo, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	fi, ok := cb.Functionlikes[key]
	return fi, ok
}

// ResolveMethod looks up class.member, falling back through the
// inheritance closure when the method wasn't redeclared on class itself
// (inheritMembers only flattens the *signature* tables; the body stays
// keyed under its original declaring class).
func (cb *Codebase) ResolveMethod(class, member interner.Id) (*FunctionlikeInfo, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	if fi, ok := cb.Functionlikes[MemberKey{Class: class, Member: member}]; ok {
		return fi, true
	}
	ci, ok := cb.Classlikes[class]
	if !ok {
		return nil, false
	}
	for anc := range ci.AllParentClasses {
		if fi, ok := cb.Functionlikes[MemberKey{Class: anc, Member: member}]; ok {
			return fi, true
		}
	}
	for anc := range ci.AllParentInterfaces {
		if fi, ok := cb.Functionlikes[MemberKey{Class: anc, Member: member}]; ok {
			return fi, true
		}
	}
	return nil, false
}
