package codebase

import (
	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// ResolveName implements types.Resolver (spec §4.2 "Population").
func (cb *Codebase) ResolveName(id interner.Id) types.ResolvedKind {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	if ci, ok := cb.Classlikes[id]; ok {
		if ci.Kind == ast.KindEnum || ci.Kind == ast.KindEnumClass {
			return types.ResolvedEnum
		}
		return types.ResolvedClass
	}
	if _, ok := cb.Typedefs[id]; ok {
		return types.ResolvedTypeAlias
	}
	return types.ResolvedNone
}

// EnumBounds implements types.Resolver.
func (cb *Codebase) EnumBounds(id interner.Id) (types.Union, types.Union, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[id]
	if !ok || ci.EnumAsType == nil {
		return types.Union{}, types.Union{}, false
	}
	underlying := types.Union{}
	if ci.EnumUnderlying != nil {
		underlying = *ci.EnumUnderlying
	}
	return *ci.EnumAsType, underlying, true
}

// TypeAliasBody implements types.Resolver.
func (cb *Codebase) TypeAliasBody(id interner.Id) ([]interner.Id, bool, types.Union, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	td, ok := cb.Typedefs[id]
	if !ok {
		return nil, false, types.Union{}, false
	}
	return td.TemplateParams, td.IsOpaque, td.Underlying, true
}

// TypeConstant implements types.Resolver, walking the inheritance closure
// when member isn't declared directly on class.
func (cb *Codebase) TypeConstant(class, member interner.Id) (types.Union, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[class]
	if !ok {
		return types.Union{}, false
	}
	if u, ok := ci.TypeConstants[member]; ok {
		return u, true
	}
	for anc := range ci.AllParentClasses {
		if pi, ok := cb.Classlikes[anc]; ok {
			if u, ok := pi.TypeConstants[member]; ok {
				return u, true
			}
		}
	}
	return types.Union{}, false
}

// ClosureSignature implements types.Resolver for a bare free-function
// reference used where a closure type is expected.
func (cb *Codebase) ClosureSignature(function interner.Id) (types.TClosure, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	fi, ok := cb.Functionlikes[MemberKey{Member: function}]
	if !ok {
		return types.TClosure{}, false
	}
	params := make([]types.Param, len(fi.Params))
	for i, p := range fi.Params {
		params[i] = types.Param{
			Type:       p.Type,
			IsOptional: p.IsOptional,
			IsVariadic: p.IsVariadic,
			IsByRef:    p.IsByRef,
		}
	}
	ret := fi.ReturnType
	return types.TClosure{Params: params, ReturnType: &ret, Effects: fi.Effects, ClosureID: function}, true
}

// StaticClassContext implements types.Resolver using the context the flow
// analyzer pins for the duration of one method body (see
// Codebase.SetStaticClassContext).
func (cb *Codebase) StaticClassContext() (interner.Id, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.staticClassContext, cb.hasStaticContext
}
