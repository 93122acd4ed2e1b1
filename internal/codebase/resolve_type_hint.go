package codebase

import (
	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// ResolveTypeHint turns a parsed type hint into a Union (spec §4.3's
// supplemented "parser-independent type hint resolution": the declared
// AST shape a concrete parser hands the codebase, and the scanner's first
// step before Populate can run). Named types it doesn't recognize as a
// builtin become Reference placeholders, resolved later by
// types.PopulateUnion once every classlike/typedef is known.
func ResolveTypeHint(h ast.TypeHint, ids *interner.Handle) types.Union {
	if h == nil {
		return types.Union{}
	}
	switch t := h.(type) {
	case *ast.NamedTypeHint:
		return resolveNamedHint(t, ids)
	case *ast.NullableTypeHint:
		return addAtomic(ResolveTypeHint(t.Inner, ids), types.TNull{})
	case *ast.UnionTypeHint:
		atoms := make([]types.Atomic, 0, len(t.Members))
		for _, m := range t.Members {
			atoms = append(atoms, ResolveTypeHint(m, ids).Atomics()...)
		}
		return types.FromAtomics(atoms...)
	case *ast.IntersectionTypeHint:
		return resolveIntersectionHint(t, ids)
	case *ast.ShapeTypeHint:
		items := make(map[types.DictKey]types.KnownItem, len(t.Fields))
		for _, f := range t.Fields {
			items[types.DictKey{StrKey: f.Name, Kind: types.DictKeyString}] = types.KnownItem{
				Optional: f.Optional,
				Type:     ResolveTypeHint(f.Hint, ids),
			}
		}
		return types.Single(types.TDict{KnownItems: items, ShapeName: t.ShapeName})
	case *ast.TupleTypeHint:
		items := make(map[int]types.KnownItem, len(t.Elements))
		for i, e := range t.Elements {
			items[i] = types.KnownItem{Type: ResolveTypeHint(e, ids)}
		}
		n := len(t.Elements)
		return types.Single(types.TVec{KnownItems: items, KnownCount: &n})
	case *ast.ClosureTypeHint:
		params := make([]types.Param, len(t.Params))
		for i, p := range t.Params {
			params[i] = types.Param{Type: ResolveTypeHint(p, ids)}
		}
		ret := ResolveTypeHint(t.ReturnHint, ids)
		return types.Single(types.TClosure{Params: params, ReturnType: &ret})
	case *ast.LiteralTypeHint:
		if t.IsString {
			return types.Single(types.TLiteralString{Value: t.StringValue})
		}
		return types.Single(types.TLiteralInt{Value: t.IntValue})
	case *ast.ClassTypeConstantHint:
		return types.Single(types.TClassTypeConstant{
			ClassType:  ResolveTypeHint(t.ClassHint, ids),
			MemberName: ids.Intern(t.MemberName),
		})
	case *ast.ThisTypeHint:
		return types.Single(types.TNamedObject{IsThis: true})
	default:
		return types.Union{}
	}
}

func resolveIntersectionHint(t *ast.IntersectionTypeHint, ids *interner.Handle) types.Union {
	if len(t.Members) == 0 {
		return types.Union{}
	}
	first := ResolveTypeHint(t.Members[0], ids)
	single, ok := first.AsSingle()
	if !ok {
		return first
	}
	named, ok := single.(types.TNamedObject)
	if !ok {
		return first
	}
	for _, m := range t.Members[1:] {
		other, ok := ResolveTypeHint(m, ids).AsSingle()
		if !ok {
			continue
		}
		if on, ok := other.(types.TNamedObject); ok {
			named.ExtraTypes = append(named.ExtraTypes, on)
		}
	}
	return types.Single(named)
}

func addAtomic(u types.Union, a types.Atomic) types.Union {
	atoms := append(u.Atomics(), a)
	return types.FromAtomics(atoms...)
}

func resolveNamedHint(t *ast.NamedTypeHint, ids *interner.Handle) types.Union {
	switch t.Name {
	case "int":
		return types.Single(types.TInt{})
	case "float":
		return types.Single(types.TFloat{})
	case "num":
		return types.Single(types.TNum{})
	case "string":
		return types.Single(types.TString{})
	case "arraykey":
		return types.Single(types.TArraykey{})
	case "bool":
		return types.Single(types.TBool{})
	case "null":
		return types.Single(types.TNull{})
	case "void":
		return types.Single(types.TVoid{})
	case "mixed":
		return types.Single(types.TMixed{})
	case "nonnull":
		return types.Single(types.TNonnullMixed{})
	case "nothing":
		return types.Single(types.TNothing{})
	case "scalar":
		return types.Single(types.TScalar{})
	case "this", "self", "static":
		return types.Single(types.TNamedObject{Name: ids.Intern(t.Name), IsThis: true})
	case "classname":
		if len(t.TypeParams) > 0 {
			return types.Single(types.TClassname{AsType: ResolveTypeHint(t.TypeParams[0], ids)})
		}
		return types.Single(types.TGenericClassname{})
	case "typename":
		if len(t.TypeParams) > 0 {
			return types.Single(types.TTypename{AsType: ResolveTypeHint(t.TypeParams[0], ids)})
		}
		return types.Single(types.TGenericTypename{})
	case "vec":
		var tp types.Union
		if len(t.TypeParams) > 0 {
			tp = ResolveTypeHint(t.TypeParams[0], ids)
		}
		return types.Single(types.TVec{TypeParam: tp})
	case "dict":
		var k, v types.Union
		if len(t.TypeParams) > 1 {
			k = ResolveTypeHint(t.TypeParams[0], ids)
			v = ResolveTypeHint(t.TypeParams[1], ids)
		}
		return types.Single(types.TDict{TypeParamKey: k, TypeParamValue: v})
	case "keyset":
		var tp types.Union
		if len(t.TypeParams) > 0 {
			tp = ResolveTypeHint(t.TypeParams[0], ids)
		}
		return types.Single(types.TKeyset{TypeParam: tp})
	default:
		name := ids.Intern(t.Name)
		params := make([]types.Union, len(t.TypeParams))
		for i, p := range t.TypeParams {
			params[i] = ResolveTypeHint(p, ids)
		}
		return types.Single(types.Reference{Name: name, TypeParams: params})
	}
}
