package codebase

import (
	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// DeclClasslike translates a parsed class/interface/trait/enum declaration
// into a ClasslikeInfo and registers it, the scan phase's producer for
// Codebase.Classlikes (spec §7 "Scan phase"). file is the declaring path
// recorded for invalidation bookkeeping.
func DeclClasslike(d *ast.ClasslikeDecl, file string, ids *interner.Handle) *ClasslikeInfo {
	ci := &ClasslikeInfo{
		Name:           ids.Intern(d.Name),
		Kind:           d.Kind,
		IsFinal:        d.IsFinal,
		IsAbstract:     d.IsAbstract,
		DeclaringFile:  file,
		SignatureHash:  d.SignatureHash,
		BodyHash:       d.BodyHash,
		TemplateParams: declTemplateParams(d.TemplateParams, ids),
	}

	if len(d.Extends) > 0 {
		if d.Kind == ast.KindInterface {
			ci.DirectParentInterfaces, ci.DirectParentInterfaceArgs = declParentRefs(d.Extends, ids)
		} else {
			name, args := declParentRef(d.Extends[0], ids)
			ci.DirectParentClass = name
			ci.DirectParentClassArgs = args
		}
	}
	if len(d.Implements) > 0 {
		ifaces, args := declParentRefs(d.Implements, ids)
		ci.DirectParentInterfaces = append(ci.DirectParentInterfaces, ifaces...)
		ci.DirectParentInterfaceArgs = append(ci.DirectParentInterfaceArgs, args...)
	}
	for _, t := range d.UsesTraits {
		name, _ := declParentRef(t, ids)
		ci.DirectTraits = append(ci.DirectTraits, name)
	}
	for _, name := range d.SealedWhitelist {
		ci.SealedChildren = append(ci.SealedChildren, ids.Intern(name))
	}

	if len(d.Properties) > 0 {
		ci.Properties = make(map[interner.Id]types.Union, len(d.Properties))
		for _, p := range d.Properties {
			ci.Properties[ids.Intern(p.Name)] = ResolveTypeHint(p.TypeHint, ids)
		}
	}
	if len(d.Methods) > 0 {
		ci.Methods = make(map[interner.Id]bool, len(d.Methods))
		for _, m := range d.Methods {
			ci.Methods[ids.Intern(m.Name)] = true
		}
	}
	if len(d.Constants) > 0 {
		ci.Constants = make(map[interner.Id]types.Union, len(d.Constants))
		for _, c := range d.Constants {
			ci.Constants[ids.Intern(c.Name)] = ResolveTypeHint(c.TypeHint, ids)
		}
	}
	if len(d.TypeConstants) > 0 {
		ci.TypeConstants = make(map[interner.Id]types.Union, len(d.TypeConstants))
		for _, tc := range d.TypeConstants {
			hint := tc.Is
			if hint == nil {
				hint = tc.As
			}
			ci.TypeConstants[ids.Intern(tc.Name)] = ResolveTypeHint(hint, ids)
		}
	}

	if d.Kind == ast.KindEnum || d.Kind == ast.KindEnumClass {
		asType := ResolveTypeHint(d.EnumAsHint, ids)
		ci.EnumAsType = &asType
		underlying := ResolveTypeHint(d.EnumUnderlying, ids)
		ci.EnumUnderlying = &underlying
		ci.EnumCases = make(map[interner.Id]types.Atomic, len(d.EnumCases))
		for _, c := range d.EnumCases {
			if lit, ok := declLiteralAtomic(c.Value); ok {
				ci.EnumCases[ids.Intern(c.Name)] = lit
			}
		}
	}

	return ci
}

// DeclFunction translates a free function or method declaration.
// class is Empty for a free function.
func DeclFunction(d *ast.FunctionDecl, class interner.Id, file string, ids *interner.Handle) *FunctionlikeInfo {
	fi := &FunctionlikeInfo{
		Key:            MemberKey{Class: class, Member: ids.Intern(d.Name)},
		TemplateParams: declTemplateParams(d.TemplateParams, ids),
		ReturnType:     ResolveTypeHint(d.ReturnHint, ids),
		Effects:        declEffects(d.Effects),
		IsStatic:       d.IsStatic,
		IsAbstract:     d.IsAbstract,
		IsPure:         d.IsPure,
		IsAsync:        d.IsAsync,
		DeclaringFile:  file,
		SignatureHash:  d.SignatureHash,
		BodyHash:       d.BodyHash,
	}
	fi.Params = make([]ParamInfo, len(d.Params))
	for i, p := range d.Params {
		fi.Params[i] = ParamInfo{
			Name:       ids.Intern(p.Name),
			Type:       ResolveTypeHint(p.TypeHint, ids),
			IsVariadic: p.IsVariadic,
			IsByRef:    p.IsByRef,
			IsOptional: p.Default != nil,
		}
	}
	return fi
}

// DeclTypedef translates a top-level `type`/`newtype` declaration.
func DeclTypedef(d *ast.TypedefDecl, file string, ids *interner.Handle) *TypedefInfo {
	td := &TypedefInfo{
		Name:          ids.Intern(d.Name),
		IsOpaque:      d.IsOpaque,
		Underlying:    ResolveTypeHint(d.Underlying, ids),
		DeclaringFile: file,
		SignatureHash: d.SignatureHash,
	}
	for _, tp := range d.TemplateParams {
		td.TemplateParams = append(td.TemplateParams, ids.Intern(tp.Name))
	}
	if d.AsHint != nil {
		asType := ResolveTypeHint(d.AsHint, ids)
		td.AsType = &asType
	}
	return td
}

// DeclConstant translates a top-level `const` declaration.
func DeclConstant(d *ast.ConstantDecl, file string, ids *interner.Handle) *ConstantInfo {
	return &ConstantInfo{
		Name:          ids.Intern(d.Name),
		Type:          ResolveTypeHint(d.TypeHint, ids),
		DeclaringFile: file,
		SignatureHash: d.SignatureHash,
	}
}

func declTemplateParams(decls []*ast.TemplateParamDecl, ids *interner.Handle) []TemplateParamInfo {
	if len(decls) == 0 {
		return nil
	}
	out := make([]TemplateParamInfo, len(decls))
	for i, tp := range decls {
		out[i] = TemplateParamInfo{
			Name:     ids.Intern(tp.Name),
			AsType:   ResolveTypeHint(tp.AsHint, ids),
			Variance: tp.Variant,
		}
	}
	return out
}

// declParentRef resolves one `Extends`/`Implements`/`UsesTraits` hint to the
// referenced name plus its generic arguments (`Box<int>` -> Box, [int]).
func declParentRef(h ast.TypeHint, ids *interner.Handle) (interner.Id, []types.Union) {
	named, ok := h.(*ast.NamedTypeHint)
	if !ok {
		return interner.Empty, nil
	}
	name := ids.Intern(named.Name)
	if len(named.TypeParams) == 0 {
		return name, nil
	}
	args := make([]types.Union, len(named.TypeParams))
	for i, p := range named.TypeParams {
		args[i] = ResolveTypeHint(p, ids)
	}
	return name, args
}

func declParentRefs(hints []ast.TypeHint, ids *interner.Handle) ([]interner.Id, [][]types.Union) {
	names := make([]interner.Id, len(hints))
	args := make([][]types.Union, len(hints))
	for i, h := range hints {
		names[i], args[i] = declParentRef(h, ids)
	}
	return names, args
}

func declEffects(e ast.FunctionEffects) types.Effects {
	return types.Effects{
		Kind: types.EffectsKind(e.Kind),
		Arg:  e.Arg,
		Mask: e.Mask,
	}
}

// declLiteralAtomic evaluates a plain enum case's literal value expression
// into the Atomic EnumCaseValue compares against (enum class cases, whose
// Value is an instantiation expression rather than a literal, are left
// unregistered — comparator.enumAccepts only needs plain-enum members).
func declLiteralAtomic(e ast.Expr) (types.Atomic, bool) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return types.TLiteralInt{Value: v.Value}, true
	case *ast.StringLiteral:
		return types.TLiteralString{Value: v.Value}, true
	default:
		return nil, false
	}
}
