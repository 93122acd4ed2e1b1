package types

// PopulateUnion resolves every Reference placeholder inside u into a
// NamedObject, Enum, or TypeAlias, recursing into container/object/closure
// type parameters (spec §4.2 "Population"). It returns a new Union; the
// input is never mutated.
func PopulateUnion(u Union, r Resolver) Union {
	if u.Populated {
		return u
	}
	out := Union{
		atomics:                  make(map[string]Atomic, len(u.atomics)),
		ParentNodes:              u.ParentNodes,
		HadTemplate:              u.HadTemplate,
		ReferenceFree:            true,
		PossiblyUndefinedFromTry: u.PossiblyUndefinedFromTry,
		IgnoreFalsableIssues:     u.IgnoreFalsableIssues,
		FromTemplateDefault:      u.FromTemplateDefault,
		HasMutations:             u.HasMutations,
		Populated:                true,
		PossiblyUndefined:        u.PossiblyUndefined,
	}
	for _, a := range u.Atomics() {
		populated := PopulateAtomic(a, r)
		if _, isRef := populated.(Reference); isRef {
			out.ReferenceFree = false
		}
		out.atomics[populated.Key()] = populated
	}
	return out
}

// PopulateAtomic resolves a single atomic, recursing into its children.
func PopulateAtomic(a Atomic, r Resolver) Atomic {
	switch t := a.(type) {
	case Reference:
		switch r.ResolveName(t.Name) {
		case ResolvedClass:
			return TNamedObject{Name: t.Name, TypeParams: populateList(t.TypeParams, r)}
		case ResolvedEnum:
			asType, underlying, ok := r.EnumBounds(t.Name)
			e := TEnum{Name: t.Name}
			if ok {
				e.AsType = &asType
				e.UnderlyingType = &underlying
			}
			return e
		case ResolvedTypeAlias:
			params, _, underlying, ok := r.TypeAliasBody(t.Name)
			alias := TTypeAlias{Name: t.Name, TypeParams: populateList(t.TypeParams, r)}
			if ok {
				_ = params
				bound := PopulateUnion(underlying, r)
				alias.AsType = &bound
			}
			return alias
		default:
			return t // stays unresolved; a later pass emits NonExistentClass
		}
	case TVec:
		t.TypeParam = PopulateUnion(t.TypeParam, r)
		if t.KnownItems != nil {
			items := make(map[int]KnownItem, len(t.KnownItems))
			for k, v := range t.KnownItems {
				v.Type = PopulateUnion(v.Type, r)
				items[k] = v
			}
			t.KnownItems = items
		}
		return t
	case TDict:
		t.TypeParamKey = PopulateUnion(t.TypeParamKey, r)
		t.TypeParamValue = PopulateUnion(t.TypeParamValue, r)
		if t.KnownItems != nil {
			items := make(map[DictKey]KnownItem, len(t.KnownItems))
			for k, v := range t.KnownItems {
				v.Type = PopulateUnion(v.Type, r)
				items[k] = v
			}
			t.KnownItems = items
		}
		return t
	case TKeyset:
		t.TypeParam = PopulateUnion(t.TypeParam, r)
		return t
	case TNamedObject:
		t.TypeParams = populateList(t.TypeParams, r)
		return t
	case TClosure:
		params := make([]Param, len(t.Params))
		copy(params, t.Params)
		t.Params = params
		for i := range t.Params {
			t.Params[i].Type = PopulateUnion(t.Params[i].Type, r)
		}
		if t.ReturnType != nil {
			ret := PopulateUnion(*t.ReturnType, r)
			t.ReturnType = &ret
		}
		return t
	case TTemplateParam:
		t.AsType = PopulateUnion(t.AsType, r)
		return t
	case TClassname:
		t.AsType = PopulateUnion(t.AsType, r)
		return t
	case TTypename:
		t.AsType = PopulateUnion(t.AsType, r)
		return t
	case TClassTypeConstant:
		t.ClassType = PopulateUnion(t.ClassType, r)
		return t
	default:
		return a
	}
}

func populateList(us []Union, r Resolver) []Union {
	if us == nil {
		return nil
	}
	out := make([]Union, len(us))
	for i, u := range us {
		out[i] = PopulateUnion(u, r)
	}
	return out
}
