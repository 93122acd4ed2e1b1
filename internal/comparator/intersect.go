package comparator

import (
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// IntersectUnionWithAtomic computes the meet of every atomic in u with a,
// dropping any pairing that reduces to the empty type (spec §4.4
// "intersect_union_with_atomic").
func (c *Comparator) IntersectUnionWithAtomic(u types.Union, a types.Atomic) types.Union {
	out := make([]types.Atomic, 0, u.Len())
	for _, left := range u.Atomics() {
		if meet, ok := c.IntersectAtomicWithAtomic(left, a); ok {
			out = append(out, meet)
		}
	}
	if len(out) == 0 {
		return types.Nothing()
	}
	return c.Combine(out, CombineOptions{})
}

// IntersectAtomicWithAtomic computes the meet of two atomics (spec §4.4
// "intersect_atomic_with_atomic"). The second return value is false when the
// meet is empty (the two types can never describe the same value).
func (c *Comparator) IntersectAtomicWithAtomic(a, b types.Atomic) (types.Atomic, bool) {
	if c.atomicContainedBy(a, b, nil) {
		return a, true
	}
	if c.atomicContainedBy(b, a, nil) {
		return b, true
	}

	switch at := a.(type) {
	case types.TNamedObject:
		bt, ok := b.(types.TNamedObject)
		if !ok {
			if _, ok := b.(types.TObject); ok {
				return at, true
			}
			return nil, false
		}
		// Neither side contains the other (checked above): meet is the
		// intersection type, represented by adding bt to at's extra_types
		// (spec §4.4 "intersections are represented by the extra_types slot
		// on NamedObject"), unless the class hierarchy makes that
		// impossible (two distinct, unrelated final/sealed leaves).
		if c.isImpossibleIntersection(at.Name, bt.Name) {
			return nil, false
		}
		merged := at
		merged.ExtraTypes = appendExtraType(at.ExtraTypes, bt)
		return merged, true

	case types.TDict:
		bt, ok := b.(types.TDict)
		if !ok {
			return nil, false
		}
		return c.intersectDict(at, bt)

	case types.TVec:
		bt, ok := b.(types.TVec)
		if !ok {
			return nil, false
		}
		typeParam := c.IntersectUnionWithAtomicUnion(at.TypeParam, bt.TypeParam)
		if typeParam.Empty() {
			return nil, false
		}
		out := at
		out.TypeParam = typeParam
		out.NonEmpty = at.NonEmpty || bt.NonEmpty
		return out, true
	}

	return nil, false
}

// IntersectUnionWithAtomicUnion meets every atomic of a with every atomic of
// b, collecting the non-empty results — the union-level counterpart used
// when a container's type parameter (itself a Union) must be intersected.
func (c *Comparator) IntersectUnionWithAtomicUnion(a, b types.Union) types.Union {
	out := make([]types.Atomic, 0, a.Len())
	for _, la := range a.Atomics() {
		for _, lb := range b.Atomics() {
			if meet, ok := c.IntersectAtomicWithAtomic(la, lb); ok {
				out = append(out, meet)
			}
		}
	}
	if len(out) == 0 {
		return types.Nothing()
	}
	return c.Combine(out, CombineOptions{})
}

// intersectDict implements spec §4.4's dict intersection rule: overlapping
// known-items take the stronger (non-optional) flag; a key required on one
// side with no matching params on the other makes the whole meet empty.
func (c *Comparator) intersectDict(a, b types.TDict) (types.Atomic, bool) {
	out := types.TDict{
		TypeParamKey:   c.IntersectUnionWithAtomicUnion(a.TypeParamKey, b.TypeParamKey),
		TypeParamValue: c.IntersectUnionWithAtomicUnion(a.TypeParamValue, b.TypeParamValue),
		NonEmpty:       a.NonEmpty || b.NonEmpty,
	}
	if a.KnownItems == nil && b.KnownItems == nil {
		if out.TypeParamKey.Empty() || out.TypeParamValue.Empty() {
			return nil, false
		}
		return out, true
	}

	items := make(map[types.DictKey]types.KnownItem)
	if a.KnownItems != nil {
		for k, v := range a.KnownItems {
			items[k] = v
		}
	}
	for k, bi := range b.KnownItems {
		ai, ok := items[k]
		if !ok {
			if !bi.Optional && a.KnownItems != nil {
				return nil, false // required on b's side, absent from a's known shape
			}
			items[k] = bi
			continue
		}
		merged := c.IntersectUnionWithAtomicUnion(ai.Type, bi.Type)
		if merged.Empty() {
			return nil, false
		}
		items[k] = types.KnownItem{Optional: ai.Optional && bi.Optional, Type: merged}
	}
	out.KnownItems = items
	return out, true
}

func appendExtraType(existing []types.TNamedObject, add types.TNamedObject) []types.TNamedObject {
	for _, e := range existing {
		if e.Name == add.Name {
			return existing
		}
	}
	out := make([]types.TNamedObject, len(existing), len(existing)+1)
	copy(out, existing)
	return append(out, add)
}

// isImpossibleIntersection reports two named classlikes as never describing
// the same value exactly when Hierarchy.CommonAncestor finds no shared
// ancestor for them. It does not look at finality and makes no exception
// for interfaces: two unrelated interfaces are reported impossible too.
func (c *Comparator) isImpossibleIntersection(a, b interner.Id) bool {
	_, ok := c.H.CommonAncestor(a, b)
	return !ok
}

// SubtractSealed narrows u by removing NamedObject{parent} and replacing it
// with the other direct children of parent besides except (spec §4.4
// "Sealed classes": negative refinement after an `if ($x instanceof
// Except) { ... } else { /* here */ }` branch).
func (c *Comparator) SubtractSealed(u types.Union, parent, except interner.Id) types.Union {
	replacement, ok := u.Get("named-object")
	if !ok {
		return u
	}
	named, ok := replacement.(types.TNamedObject)
	if !ok || named.Name != parent {
		return u
	}
	siblings := c.H.SealedChildren(parent, except)
	if len(siblings) == 0 {
		return u.Without("named-object")
	}
	atomics := make([]types.Atomic, 0, len(siblings))
	for _, sib := range siblings {
		atomics = append(atomics, types.TNamedObject{Name: sib})
	}
	out := u.Without("named-object")
	for _, a := range atomics {
		out = out.With(a)
	}
	return out
}
