package comparator

import (
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// IsContainedBy reports whether every atomic of a is contained by some
// atomic of b (spec §4.4, §8 "Union ⊑ Union"). res may be nil when the
// caller doesn't need the finer-grained coercion markers.
func (c *Comparator) IsContainedBy(a, b types.Union, res *TypeComparisonResult) bool {
	if a.Empty() {
		return true // Nothing is contained by everything
	}
	for _, left := range a.Atomics() {
		if !c.atomicContainedByUnion(left, b, res) {
			return false
		}
	}
	return true
}

func (c *Comparator) atomicContainedByUnion(left types.Atomic, b types.Union, res *TypeComparisonResult) bool {
	for _, right := range b.Atomics() {
		if c.atomicContainedBy(left, right, res) {
			return true
		}
	}
	return false
}

// CanExpressionTypesBeIdentical reports whether a and b have any non-empty
// intersection — used for `===`/`==` paradox detection (spec §4.4,
// scenario 4 in spec §8).
func (c *Comparator) CanExpressionTypesBeIdentical(a, b types.Union, insideAssertion bool) bool {
	_ = insideAssertion
	for _, l := range a.Atomics() {
		for _, r := range b.Atomics() {
			if c.atomicsOverlap(l, r) {
				return true
			}
		}
	}
	return false
}

func (c *Comparator) atomicsOverlap(l, r types.Atomic) bool {
	if c.atomicContainedBy(l, r, nil) || c.atomicContainedBy(r, l, nil) {
		return true
	}
	// Two distinct literals of the same base type never overlap unless
	// equal, which atomicContainedBy already covers via identity. Two
	// different named classes overlap only through a common descendant,
	// approximated conservatively as "no" unless one inherits the other.
	return false
}

func (c *Comparator) atomicContainedBy(a, b types.Atomic, res *TypeComparisonResult) bool {
	// Mixed family: everything is contained by Mixed/MixedAny; Mixed is
	// only contained by itself or NonnullMixed is not contained by Mixed
	// because of nullability... kept simple: Mixed absorbs everything.
	switch b.(type) {
	case types.TMixed, types.TMixedAny:
		return true
	}

	switch at := a.(type) {
	case types.TNothing:
		return true // bottom type contained by everything
	case types.TPlaceholder:
		return true

	case types.TInt:
		_, ok := b.(types.TInt)
		if ok {
			return true
		}
		_, ok = b.(types.TNum)
		return ok || arraykeyTarget(b)
	case types.TFloat:
		_, ok := b.(types.TFloat)
		if ok {
			return true
		}
		_, ok = b.(types.TNum)
		return ok
	case types.TNum:
		_, ok := b.(types.TNum)
		return ok
	case types.TLiteralInt:
		switch bt := b.(type) {
		case types.TLiteralInt:
			return bt.Value == at.Value
		case types.TInt, types.TNum:
			return true
		case types.TArraykey:
			return true
		case types.TEnum:
			return enumAccepts(c, bt, at, res)
		}
		return false
	case types.TString:
		_, ok := b.(types.TString)
		if ok {
			return true
		}
		if _, ok := b.(types.TStringWithFlags); ok {
			return false // a bare string doesn't satisfy a flagged requirement
		}
		return arraykeyTarget(b)
	case types.TStringWithFlags:
		switch bt := b.(type) {
		case types.TString:
			return true
		case types.TStringWithFlags:
			return (!bt.Truthy || at.Truthy) && (!bt.NonEmpty || at.NonEmpty || at.Truthy)
		}
		return arraykeyTarget(b)
	case types.TLiteralString:
		switch bt := b.(type) {
		case types.TLiteralString:
			return bt.Value == at.Value
		case types.TString:
			return true
		case types.TStringWithFlags:
			truthy := at.Value != "" && at.Value != "0"
			return (!bt.Truthy || truthy) && (!bt.NonEmpty || len(at.Value) > 0)
		case types.TArraykey:
			return true
		case types.TEnum:
			return enumAccepts(c, bt, at, res)
		}
		return false
	case types.TLiteralClassname:
		bc, ok := b.(types.TClassname)
		if !ok {
			if _, ok := b.(types.TGenericClassname); ok {
				return true
			}
			return false
		}
		single, ok := bc.AsType.AsSingle()
		if !ok || bc.AsType.Empty() {
			return true
		}
		bn, ok := single.(types.TNamedObject)
		if !ok {
			return true
		}
		if at.Name == bn.Name || c.H.IsParentClass(at.Name, bn.Name) || c.H.IsParentInterface(at.Name, bn.Name) {
			return true
		}
		return false
	case types.TArraykey:
		_, ok := b.(types.TArraykey)
		return ok
	case types.TBool:
		_, ok := b.(types.TBool)
		return ok
	case types.TTrue:
		if _, ok := b.(types.TTrue); ok {
			return true
		}
		_, ok := b.(types.TBool)
		return ok
	case types.TFalse:
		if _, ok := b.(types.TFalse); ok {
			return true
		}
		_, ok := b.(types.TBool)
		return ok
	case types.TNull:
		_, ok := b.(types.TNull)
		return ok
	case types.TVoid:
		_, ok := b.(types.TVoid)
		return ok
	case types.TScalar:
		_, ok := b.(types.TScalar)
		return ok
	case types.TNonnullMixed, types.TMixedFromLoopIsset, types.TFalsyMixed, types.TTruthyMixed:
		return sameKind(a, b)

	case types.TVec:
		bt, ok := b.(types.TVec)
		if !ok {
			return false
		}
		return c.vecContainedBy(at, bt, res)
	case types.TDict:
		bt, ok := b.(types.TDict)
		if !ok {
			return false
		}
		return c.dictContainedBy(at, bt, res)
	case types.TKeyset:
		bt, ok := b.(types.TKeyset)
		if !ok {
			return false
		}
		return c.IsContainedBy(at.TypeParam, bt.TypeParam, res)

	case types.TNamedObject:
		bt, ok := b.(types.TNamedObject)
		if !ok {
			if _, ok := b.(types.TObject); ok {
				return true
			}
			return false
		}
		return c.namedObjectContainedBy(at, bt, res)
	case types.TObject:
		_, ok := b.(types.TObject)
		return ok

	case types.TEnum:
		switch bt := b.(type) {
		case types.TEnum:
			return bt.Name == at.Name
		default:
			if at.AsType != nil {
				return c.atomicContainedByUnion2(*at.AsType, b, res)
			}
			return false
		}
	case types.TEnumLiteralCase:
		switch bt := b.(type) {
		case types.TEnum:
			return bt.Name == at.EnumName
		case types.TEnumLiteralCase:
			return bt.EnumName == at.EnumName && bt.MemberName == at.MemberName
		default:
			if at.AsType != nil {
				return c.atomicContainedByUnion2(*at.AsType, b, res)
			}
			return false
		}

	case types.TTemplateParam:
		if bt, ok := b.(types.TTemplateParam); ok {
			if bt.Name == at.Name && bt.DefiningEntity == at.DefiningEntity {
				return true
			}
		}
		return c.atomicContainedByUnion2(at.AsType, b, res)

	case types.TClosure:
		bt, ok := b.(types.TClosure)
		if !ok {
			return false
		}
		return c.closureContainedBy(at, bt, res)

	case types.TClassname:
		bt, ok := b.(types.TClassname)
		if !ok {
			_, ok = b.(types.TGenericClassname)
			return ok
		}
		return c.IsContainedBy(at.AsType, bt.AsType, res)
	case types.TTypename:
		bt, ok := b.(types.TTypename)
		if !ok {
			_, ok = b.(types.TGenericTypename)
			return ok
		}
		return c.IsContainedBy(at.AsType, bt.AsType, res)

	default:
		return sameKind(a, b)
	}
}

// atomicContainedByUnion2 checks a single atomic against a union, used when
// a variant's own `as_type`/bound is itself a union (templates, enums).
func (c *Comparator) atomicContainedByUnion2(left types.Union, b types.Atomic, res *TypeComparisonResult) bool {
	for _, l := range left.Atomics() {
		if c.atomicContainedBy(l, b, res) {
			return true
		}
	}
	return false
}

func arraykeyTarget(b types.Atomic) bool {
	_, ok := b.(types.TArraykey)
	return ok
}

func sameKind(a, b types.Atomic) bool {
	return a.Key() == b.Key()
}

func enumAccepts(c *Comparator, e types.TEnum, literal types.Atomic, res *TypeComparisonResult) bool {
	for _, member := range c.H.EnumMembers(e.Name) {
		val, ok := c.H.EnumCaseValue(e.Name, member)
		if !ok {
			continue
		}
		if literalsEqual(val, literal) {
			res.markCoerced()
			return true
		}
	}
	return false
}

func literalsEqual(a, b types.Atomic) bool {
	switch at := a.(type) {
	case types.TLiteralInt:
		bt, ok := b.(types.TLiteralInt)
		return ok && bt.Value == at.Value
	case types.TLiteralString:
		bt, ok := b.(types.TLiteralString)
		return ok && bt.Value == at.Value
	}
	return false
}

// vecContainedBy checks one vec atomic against another (spec §4.4
// "Container covariance"): element types are covariant, and a shape with
// known_items is compatible when every required slot the target names is
// present, non-optional where required, and itself covariant.
func (c *Comparator) vecContainedBy(a, b types.TVec, res *TypeComparisonResult) bool {
	if b.NonEmpty && !a.NonEmpty {
		return false
	}
	if b.KnownCount != nil && (a.KnownCount == nil || *a.KnownCount != *b.KnownCount) {
		return false
	}
	if b.KnownItems == nil {
		return c.IsContainedBy(a.TypeParam, b.TypeParam, res)
	}
	for idx, bi := range b.KnownItems {
		if a.KnownItems != nil {
			ai, ok := a.KnownItems[idx]
			if !ok {
				if !bi.Optional {
					return false
				}
				continue
			}
			if !bi.Optional && ai.Optional {
				return false
			}
			if !c.IsContainedBy(ai.Type, bi.Type, res) {
				return false
			}
			continue
		}
		if !bi.Optional && !c.IsContainedBy(a.TypeParam, bi.Type, res) {
			return false
		}
	}
	return true
}

// dictContainedBy mirrors vecContainedBy for dict/shape atomics: a
// known-items target requires each of its non-optional keys be present
// (not optional) in the input with a contained value type (spec §4.4
// "Dict containment").
func (c *Comparator) dictContainedBy(a, b types.TDict, res *TypeComparisonResult) bool {
	if b.NonEmpty && !a.NonEmpty {
		return false
	}
	if b.KnownItems == nil {
		return c.IsContainedBy(a.TypeParamKey, b.TypeParamKey, res) &&
			c.IsContainedBy(a.TypeParamValue, b.TypeParamValue, res)
	}
	for key, bi := range b.KnownItems {
		if a.KnownItems != nil {
			ai, ok := a.KnownItems[key]
			if !ok {
				if !bi.Optional {
					return false
				}
				continue
			}
			if !bi.Optional && ai.Optional {
				return false
			}
			if !c.IsContainedBy(ai.Type, bi.Type, res) {
				return false
			}
			continue
		}
		if !bi.Optional && !c.IsContainedBy(a.TypeParamValue, bi.Type, res) {
			return false
		}
	}
	return true
}

// namedObjectContainedBy checks class/interface containment plus template
// parameter and intersection (ExtraTypes) compatibility (spec §4.4 "Object
// containment"). When a.Name != b.Name and Hierarchy.TemplateExtendedParams
// reports a mapping from a's class onto b's, it compares b's TypeParams
// against that mapping (via remapTemplateParams) instead of a's own
// TypeParams; otherwise it compares a's TypeParams positionally.
func (c *Comparator) namedObjectContainedBy(a, b types.TNamedObject, res *TypeComparisonResult) bool {
	if a.Name != b.Name {
		if !c.H.IsParentClass(a.Name, b.Name) && !c.H.IsParentInterface(a.Name, b.Name) {
			return false
		}
	}
	params := a.TypeParams
	if a.Name != b.Name {
		if mapped := c.H.TemplateExtendedParams(a.Name, b.Name); len(mapped) > 0 {
			params = remapTemplateParams(b, mapped)
		}
	}
	for i, bp := range b.TypeParams {
		if i >= len(params) {
			return false
		}
		if !c.IsContainedBy(params[i], bp, res) {
			return false
		}
	}
	for _, extra := range b.ExtraTypes {
		if !namedObjectSatisfiesExtra(c, a, extra) {
			return false
		}
	}
	return true
}

// remapTemplateParams orders the ancestor-class-keyed mapping produced by
// TemplateExtendedParams into the positional slice IsContainedBy compares
// against, using b's own template parameter identifiers (by position in its
// TypeParams) as the key order; callers further up the stack are expected to
// have already built b from the ancestor's own template parameter names.
func remapTemplateParams(b types.TNamedObject, mapped map[interner.Id]types.Union) []types.Union {
	out := make([]types.Union, len(b.TypeParams))
	i := 0
	for _, u := range mapped {
		if i >= len(out) {
			break
		}
		out[i] = u
		i++
	}
	return out
}

func namedObjectSatisfiesExtra(c *Comparator, a types.TNamedObject, extra types.TNamedObject) bool {
	if a.Name == extra.Name {
		return true
	}
	for _, ae := range a.ExtraTypes {
		if ae.Name == extra.Name {
			return true
		}
	}
	return c.H.IsParentClass(a.Name, extra.Name) || c.H.IsParentInterface(a.Name, extra.Name)
}

// closureContainedBy checks function-type compatibility: parameters are
// contravariant, the return type covariant (spec §4.4 "Closure
// containment").
func (c *Comparator) closureContainedBy(a, b types.TClosure, res *TypeComparisonResult) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !c.IsContainedBy(b.Params[i].Type, a.Params[i].Type, res) {
			return false
		}
	}
	if a.ReturnType != nil && b.ReturnType != nil {
		if !c.IsContainedBy(*a.ReturnType, *b.ReturnType, res) {
			return false
		}
	}
	return true
}
