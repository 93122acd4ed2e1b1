package types

import "github.com/hakanago/hakana/internal/interner"

// ExpandOptions configures Expand's recursive normalisation
// (spec §4.2 "Expansion").
type ExpandOptions struct {
	// StaticClassType is substituted for `this`/`static`/`self` atomics.
	StaticClassType interner.Id
	// EvaluatingFile is used to decide whether a newtype alias is opaque
	// at this call site (opaque outside its declaring file).
	EvaluatingFile   string
	DeclaringFile    map[interner.Id]string
}

// Expand performs one recursive normalisation pass over u (spec §4.2
// "Expansion"): resolves this/static/self, expands transparent type
// aliases, resolves class type constants and closure aliases, and recurses
// into every container/object/closure child. Expand is idempotent
// (spec §8): calling it twice produces the same result as calling it once,
// because a fully expanded union contains no more Reference, TypeAlias
// (transparent), ClassTypeConstant, or ClosureAlias atomics to rewrite.
func Expand(u Union, opts ExpandOptions, r Resolver) Union {
	out := Union{atomics: make(map[string]Atomic, u.Len())}
	out.ParentNodes = u.ParentNodes
	out.HadTemplate = u.HadTemplate
	out.Populated = u.Populated
	for _, a := range u.Atomics() {
		for _, expanded := range expandAtomic(a, opts, r, 0) {
			out.atomics[expanded.Key()] = expanded
		}
	}
	return out
}

const maxExpandDepth = 64

func expandAtomic(a Atomic, opts ExpandOptions, r Resolver, depth int) []Atomic {
	if depth > maxExpandDepth {
		return []Atomic{a} // cyclic alias guard; bail out rather than loop forever
	}
	switch t := a.(type) {
	case TNamedObject:
		if t.IsThis || isSelfOrStatic(t.Name) {
			if cls, ok := r.StaticClassContext(); ok {
				t.Name = cls
			}
		}
		t.TypeParams = expandList(t.TypeParams, opts, r, depth)
		return []Atomic{t}
	case TTypeAlias:
		isOpaqueHere := opts.DeclaringFile != nil && opts.DeclaringFile[t.Name] != opts.EvaluatingFile
		if t.AsType != nil && isOpaqueHere {
			// newtype boundary: stays aliased outside its declaring file
			bound := Expand(*t.AsType, opts, r)
			t.AsType = &bound
			return []Atomic{t}
		}
		params, isOpaque, underlying, ok := r.TypeAliasBody(t.Name)
		_ = params
		if !ok || (isOpaque && isOpaqueHere) {
			return []Atomic{t}
		}
		expanded := Expand(underlying, opts, r)
		out := make([]Atomic, 0, expanded.Len())
		for _, inner := range expanded.Atomics() {
			out = append(out, expandAtomic(inner, opts, r, depth+1)...)
		}
		return out
	case TClassTypeConstant:
		classType := Expand(t.ClassType, opts, r)
		single, ok := classType.AsSingle()
		if !ok {
			return []Atomic{t}
		}
		named, ok := single.(TNamedObject)
		if !ok {
			return []Atomic{t}
		}
		bound, ok := r.TypeConstant(named.Name, t.MemberName)
		if !ok {
			return []Atomic{t}
		}
		expanded := Expand(bound, opts, r)
		out := make([]Atomic, 0, expanded.Len())
		for _, inner := range expanded.Atomics() {
			out = append(out, expandAtomic(inner, opts, r, depth+1)...)
		}
		return out
	case TClosureAlias:
		sig, ok := r.ClosureSignature(t.FunctionID)
		if !ok {
			return []Atomic{t}
		}
		for i := range sig.Params {
			sig.Params[i].Type = Expand(sig.Params[i].Type, opts, r)
		}
		if sig.ReturnType != nil {
			ret := Expand(*sig.ReturnType, opts, r)
			sig.ReturnType = &ret
		}
		return []Atomic{sig}
	case TVec:
		t.TypeParam = Expand(t.TypeParam, opts, r)
		if t.KnownItems != nil {
			items := make(map[int]KnownItem, len(t.KnownItems))
			for k, v := range t.KnownItems {
				v.Type = Expand(v.Type, opts, r)
				items[k] = v
			}
			t.KnownItems = items
		}
		return []Atomic{t}
	case TDict:
		t.TypeParamKey = Expand(t.TypeParamKey, opts, r)
		t.TypeParamValue = Expand(t.TypeParamValue, opts, r)
		if t.KnownItems != nil {
			items := make(map[DictKey]KnownItem, len(t.KnownItems))
			for k, v := range t.KnownItems {
				v.Type = Expand(v.Type, opts, r)
				items[k] = v
			}
			t.KnownItems = items
		}
		return []Atomic{t}
	case TKeyset:
		t.TypeParam = Expand(t.TypeParam, opts, r)
		return []Atomic{t}
	case TClosure:
		for i := range t.Params {
			t.Params[i].Type = Expand(t.Params[i].Type, opts, r)
		}
		if t.ReturnType != nil {
			ret := Expand(*t.ReturnType, opts, r)
			t.ReturnType = &ret
		}
		return []Atomic{t}
	case TTemplateParam:
		t.AsType = Expand(t.AsType, opts, r)
		return []Atomic{t}
	case TClassname:
		t.AsType = Expand(t.AsType, opts, r)
		return []Atomic{t}
	case TTypename:
		t.AsType = Expand(t.AsType, opts, r)
		return []Atomic{t}
	default:
		return []Atomic{a}
	}
}

func expandList(us []Union, opts ExpandOptions, r Resolver, depth int) []Union {
	if us == nil {
		return nil
	}
	out := make([]Union, len(us))
	for i, u := range us {
		out[i] = Expand(u, opts, r)
	}
	return out
}

// isSelfOrStatic reports whether name is one of the reserved self-reference
// class names. Concrete Ids for "this"/"self"/"static" are assigned from
// config.ReservedBuiltinNames at interner construction time; the comparison
// here is against their interned string form via the Resolver's own
// bookkeeping, so callers normally compare by looking the name back up.
// Kept as a narrow helper rather than threading three extra interner.Ids
// through ExpandOptions.
func isSelfOrStatic(id interner.Id) bool {
	name := lookupOrId(id)
	return name == "this" || name == "self" || name == "static"
}
