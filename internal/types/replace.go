package types

// ReplaceTemplates walks u and rewrites any TTemplateParam bound in result
// to its inferred type (spec §4.2 "Template substitution",
// `inferred_type_replacer::replace`). Unbound template params are left
// as-is (e.g. inside a still-generic method body).
func ReplaceTemplates(u Union, result *TemplateResult) Union {
	out := Union{atomics: make(map[string]Atomic, u.Len())}
	out.ParentNodes = u.ParentNodes
	out.HadTemplate = u.HadTemplate
	out.Populated = u.Populated
	for _, a := range u.Atomics() {
		replaced := replaceAtomic(a, result)
		for _, ra := range replaced {
			out.atomics[ra.Key()] = ra
		}
	}
	return out
}

// replaceAtomic returns one or more replacement atomics: a bound template
// parameter may expand into several atomics if its bound is a union.
func replaceAtomic(a Atomic, result *TemplateResult) []Atomic {
	switch t := a.(type) {
	case TTemplateParam:
		key := TemplateKey{Name: t.Name, DefiningEntity: t.DefiningEntity}
		if bound, ok := result.LowerBounds[key]; ok {
			return bound.Atomics()
		}
		if bound, ok := result.TemplateTypes[key]; ok {
			t.AsType = ReplaceTemplates(bound, result)
			return []Atomic{t}
		}
		return []Atomic{t}
	case TTemplateParamClass:
		key := TemplateKey{Name: t.ParamName, DefiningEntity: t.DefiningEntity}
		if bound, ok := result.LowerBounds[key]; ok {
			if single, ok := bound.AsSingle(); ok {
				return []Atomic{TClassname{AsType: Single(single)}}
			}
			return []Atomic{TClassname{AsType: bound}}
		}
		return []Atomic{t}
	case TVec:
		t.TypeParam = ReplaceTemplates(t.TypeParam, result)
		return []Atomic{t}
	case TDict:
		t.TypeParamKey = ReplaceTemplates(t.TypeParamKey, result)
		t.TypeParamValue = ReplaceTemplates(t.TypeParamValue, result)
		return []Atomic{t}
	case TKeyset:
		t.TypeParam = ReplaceTemplates(t.TypeParam, result)
		return []Atomic{t}
	case TNamedObject:
		if len(t.TypeParams) > 0 {
			params := make([]Union, len(t.TypeParams))
			for i, p := range t.TypeParams {
				params[i] = ReplaceTemplates(p, result)
			}
			t.TypeParams = params
		}
		return []Atomic{t}
	case TClosure:
		params := make([]Param, len(t.Params))
		for i, p := range t.Params {
			p.Type = ReplaceTemplates(p.Type, result)
			params[i] = p
		}
		t.Params = params
		if t.ReturnType != nil {
			ret := ReplaceTemplates(*t.ReturnType, result)
			t.ReturnType = &ret
		}
		return []Atomic{t}
	case TClassname:
		t.AsType = ReplaceTemplates(t.AsType, result)
		return []Atomic{t}
	case TTypename:
		t.AsType = ReplaceTemplates(t.AsType, result)
		return []Atomic{t}
	default:
		return []Atomic{a}
	}
}
