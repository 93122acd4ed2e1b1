package comparator

import "github.com/hakanago/hakana/internal/types"

// CombineOptions toggles optional widenings that are sound in general but
// lose information callers sometimes want to keep (spec §4.2 rule 3).
type CombineOptions struct {
	// SimplifyArraykey widens a non-literal Int|String pair to Arraykey.
	SimplifyArraykey bool
}

// Combine joins a set of atomics into one union (spec §4.2 "Combine"):
// group by key, merge each group into one representative, then apply the
// cross-group simplifications (True|False -> Bool, Int|Float -> Num, ...).
func (c *Comparator) Combine(atomics []types.Atomic, opts CombineOptions) types.Union {
	order := make([]string, 0, len(atomics))
	groups := make(map[string][]types.Atomic, len(atomics))
	for _, a := range atomics {
		k := a.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], a)
	}
	merged := make([]types.Atomic, 0, len(order))
	for _, k := range order {
		group := groups[k]
		acc := group[0]
		for _, next := range group[1:] {
			acc = c.mergeSameKey(acc, next)
		}
		merged = append(merged, acc)
	}
	merged = c.simplifyAcrossGroups(merged, opts)
	return types.FromAtomics(merged...)
}

// CombineUnions is Combine over the flattened atomics of two unions; the
// join used wherever control flow merges two branches' inferred types
// (spec §4.5 "Branch merge").
func (c *Comparator) CombineUnions(a, b types.Union, opts CombineOptions) types.Union {
	all := make([]types.Atomic, 0, a.Len()+b.Len())
	all = append(all, a.Atomics()...)
	all = append(all, b.Atomics()...)
	if len(all) == 0 {
		return types.Nothing()
	}
	return c.Combine(all, opts)
}

func (c *Comparator) mergeSameKey(a, b types.Atomic) types.Atomic {
	switch at := a.(type) {
	case types.TLiteralInt:
		if bt, ok := b.(types.TLiteralInt); ok {
			if bt.Value == at.Value {
				return at
			}
		}
		return types.TInt{}
	case types.TInt:
		return types.TInt{}
	case types.TFloat:
		return types.TFloat{}
	case types.TNum:
		return types.TNum{}

	case types.TLiteralString:
		if bt, ok := b.(types.TLiteralString); ok {
			if bt.Value == at.Value {
				return at
			}
			return types.TStringWithFlags{
				Truthy:             literalTruthy(at.Value) && literalTruthy(bt.Value),
				NonEmpty:           at.Value != "" && bt.Value != "",
				NonspecificLiteral: true,
			}
		}
		return b
	case types.TStringWithFlags:
		switch bt := b.(type) {
		case types.TLiteralString:
			return types.TStringWithFlags{
				Truthy:             at.Truthy && literalTruthy(bt.Value),
				NonEmpty:           at.NonEmpty && bt.Value != "",
				NonspecificLiteral: true,
			}
		case types.TStringWithFlags:
			return types.TStringWithFlags{
				Truthy:             at.Truthy && bt.Truthy,
				NonEmpty:           at.NonEmpty && bt.NonEmpty,
				NonspecificLiteral: at.NonspecificLiteral || bt.NonspecificLiteral,
			}
		}
		return types.TString{}
	case types.TString:
		return types.TString{}

	case types.TArraykey:
		if bt, ok := b.(types.TArraykey); ok {
			return types.TArraykey{FromAny: at.FromAny || bt.FromAny}
		}
		return at

	case types.TLiteralClassname:
		bt, ok := b.(types.TLiteralClassname)
		if !ok {
			return a
		}
		if bt.Name == at.Name {
			return at
		}
		if anc, ok := c.H.CommonAncestor(at.Name, bt.Name); ok {
			return types.TClassname{AsType: types.Single(types.TNamedObject{Name: anc})}
		}
		return types.TGenericClassname{}
	case types.TClassname:
		bt, ok := b.(types.TClassname)
		if !ok {
			return a
		}
		return types.TClassname{AsType: c.CombineUnions(at.AsType, bt.AsType, CombineOptions{})}
	case types.TTypename:
		bt, ok := b.(types.TTypename)
		if !ok {
			return a
		}
		return types.TTypename{AsType: c.CombineUnions(at.AsType, bt.AsType, CombineOptions{})}

	case types.TVec:
		bt, ok := b.(types.TVec)
		if !ok {
			return a
		}
		return c.mergeVec(at, bt)
	case types.TDict:
		bt, ok := b.(types.TDict)
		if !ok {
			return a
		}
		return c.mergeDict(at, bt)
	case types.TKeyset:
		bt, ok := b.(types.TKeyset)
		if !ok {
			return a
		}
		return types.TKeyset{TypeParam: c.CombineUnions(at.TypeParam, bt.TypeParam, CombineOptions{})}

	case types.TNamedObject:
		bt, ok := b.(types.TNamedObject)
		if !ok {
			return types.TObject{}
		}
		return c.mergeNamedObject(at, bt)

	case types.TEnum:
		switch bt := b.(type) {
		case types.TEnum:
			if bt.Name == at.Name {
				return at
			}
		case types.TEnumLiteralCase:
			if bt.EnumName == at.Name {
				return at
			}
		}
		return a
	case types.TEnumLiteralCase:
		switch bt := b.(type) {
		case types.TEnumLiteralCase:
			if bt.EnumName == at.EnumName {
				if bt.MemberName == at.MemberName {
					return at
				}
				return types.TEnum{Name: at.EnumName, AsType: at.AsType, UnderlyingType: at.UnderlyingType}
			}
			return at
		case types.TEnum:
			if bt.Name == at.EnumName {
				return bt
			}
		}
		return at

	case types.TTemplateParam:
		bt, ok := b.(types.TTemplateParam)
		if ok && bt.Name == at.Name && bt.DefiningEntity == at.DefiningEntity {
			at.AsType = c.CombineUnions(at.AsType, bt.AsType, CombineOptions{})
			return at
		}
		return a

	case types.TClosure:
		bt, ok := b.(types.TClosure)
		if !ok || len(bt.Params) != len(at.Params) {
			return a
		}
		return c.mergeClosure(at, bt)

	default:
		return a
	}
}

func literalTruthy(s string) bool { return s != "" && s != "0" }

func (c *Comparator) mergeVec(a, b types.TVec) types.TVec {
	out := types.TVec{
		TypeParam: c.CombineUnions(a.TypeParam, b.TypeParam, CombineOptions{}),
		NonEmpty:  a.NonEmpty && b.NonEmpty,
	}
	if a.KnownCount != nil && b.KnownCount != nil && *a.KnownCount == *b.KnownCount {
		out.KnownCount = a.KnownCount
	}
	if a.KnownItems != nil && b.KnownItems != nil {
		items := make(map[int]types.KnownItem, len(a.KnownItems))
		for idx, ai := range a.KnownItems {
			if bi, ok := b.KnownItems[idx]; ok {
				items[idx] = types.KnownItem{
					Optional: ai.Optional || bi.Optional,
					Type:     c.CombineUnions(ai.Type, bi.Type, CombineOptions{}),
				}
				continue
			}
			items[idx] = types.KnownItem{Optional: true, Type: ai.Type}
		}
		for idx, bi := range b.KnownItems {
			if _, ok := a.KnownItems[idx]; !ok {
				items[idx] = types.KnownItem{Optional: true, Type: bi.Type}
			}
		}
		out.KnownItems = items
		for _, it := range items {
			out.TypeParam = c.CombineUnions(out.TypeParam, it.Type, CombineOptions{})
		}
	}
	return out
}

func (c *Comparator) mergeDict(a, b types.TDict) types.TDict {
	out := types.TDict{
		TypeParamKey:   c.CombineUnions(a.TypeParamKey, b.TypeParamKey, CombineOptions{}),
		TypeParamValue: c.CombineUnions(a.TypeParamValue, b.TypeParamValue, CombineOptions{}),
		NonEmpty:       a.NonEmpty && b.NonEmpty,
	}
	if a.ShapeName != "" && a.ShapeName == b.ShapeName {
		out.ShapeName = a.ShapeName
	}
	if a.KnownItems != nil && b.KnownItems != nil {
		items := make(map[types.DictKey]types.KnownItem, len(a.KnownItems))
		for key, ai := range a.KnownItems {
			if bi, ok := b.KnownItems[key]; ok {
				items[key] = types.KnownItem{
					Optional: ai.Optional || bi.Optional,
					Type:     c.CombineUnions(ai.Type, bi.Type, CombineOptions{}),
				}
				continue
			}
			items[key] = types.KnownItem{Optional: true, Type: ai.Type}
		}
		for key, bi := range b.KnownItems {
			if _, ok := a.KnownItems[key]; !ok {
				items[key] = types.KnownItem{Optional: true, Type: bi.Type}
			}
		}
		out.KnownItems = items
		for _, it := range items {
			out.TypeParamValue = c.CombineUnions(out.TypeParamValue, it.Type, CombineOptions{})
		}
	}
	return out
}

func (c *Comparator) mergeNamedObject(a, b types.TNamedObject) types.Atomic {
	if a.Name == b.Name {
		out := a
		n := len(a.TypeParams)
		if len(b.TypeParams) > n {
			n = len(b.TypeParams)
		}
		if n > 0 {
			params := make([]types.Union, n)
			for i := 0; i < n; i++ {
				var ap, bp types.Union
				if i < len(a.TypeParams) {
					ap = a.TypeParams[i]
				}
				if i < len(b.TypeParams) {
					bp = b.TypeParams[i]
				}
				params[i] = c.CombineUnions(ap, bp, CombineOptions{})
			}
			out.TypeParams = params
		}
		out.ExtraTypes = intersectExtraTypes(a.ExtraTypes, b.ExtraTypes)
		out.IsThis = a.IsThis && b.IsThis
		return out
	}
	if anc, ok := c.H.CommonAncestor(a.Name, b.Name); ok {
		return types.TNamedObject{Name: anc}
	}
	return types.TObject{}
}

func intersectExtraTypes(a, b []types.TNamedObject) []types.TNamedObject {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	bNames := make(map[interface{}]bool, len(b))
	for _, e := range b {
		bNames[e.Name] = true
	}
	out := make([]types.TNamedObject, 0, len(a))
	for _, e := range a {
		if bNames[e.Name] {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *Comparator) mergeClosure(a, b types.TClosure) types.Atomic {
	out := a
	params := make([]types.Param, len(a.Params))
	for i := range a.Params {
		params[i] = a.Params[i]
		params[i].Type = c.CombineUnions(a.Params[i].Type, b.Params[i].Type, CombineOptions{})
	}
	out.Params = params
	if a.ReturnType != nil && b.ReturnType != nil {
		ret := c.CombineUnions(*a.ReturnType, *b.ReturnType, CombineOptions{})
		out.ReturnType = &ret
	} else {
		out.ReturnType = nil
	}
	return out
}

func (c *Comparator) simplifyAcrossGroups(atomics []types.Atomic, opts CombineOptions) []types.Atomic {
	m := make(map[string]types.Atomic, len(atomics))
	for _, a := range atomics {
		m[a.Key()] = a
	}

	if _, ok := m["mixed"]; ok {
		return []types.Atomic{m["mixed"]}
	}

	_, hasTrue := m["true"]
	_, hasFalse := m["false"]
	if hasTrue && hasFalse {
		delete(m, "true")
		delete(m, "false")
		m["bool"] = types.TBool{}
	}

	if _, isLitInt := m["int"].(types.TLiteralInt); !isLitInt {
		if _, hasInt := m["int"]; hasInt {
			if _, hasFloat := m["float"]; hasFloat {
				delete(m, "int")
				delete(m, "float")
				m["num"] = types.TNum{}
			}
		}
	}

	if opts.SimplifyArraykey {
		_, isLitInt := m["int"].(types.TLiteralInt)
		_, isLitStr := m["string"].(types.TLiteralString)
		_, hasInt := m["int"]
		_, hasStr := m["string"]
		if hasInt && hasStr && !isLitInt && !isLitStr {
			delete(m, "int")
			delete(m, "string")
			m["arraykey"] = types.TArraykey{}
		}
	}

	if _, hasNum := m["num"]; hasNum {
		delete(m, "float")
		if _, isLitInt := m["int"].(types.TLiteralInt); !isLitInt {
			delete(m, "int")
		}
	}
	if _, hasArraykey := m["arraykey"]; hasArraykey {
		if _, isLitInt := m["int"].(types.TLiteralInt); !isLitInt {
			delete(m, "int")
		}
		if _, isLitStr := m["string"].(types.TLiteralString); !isLitStr {
			delete(m, "string")
		}
	}
	if _, hasBool := m["bool"]; hasBool {
		delete(m, "true")
		delete(m, "false")
	}

	out := make([]types.Atomic, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	return out
}
