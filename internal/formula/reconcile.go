package formula

import (
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/types"
)

// Reconciler narrows a variable's current Type by one Assertion (spec §4.5
// "Reconciler"), using the same Comparator the flow analyzer's subtype
// checks go through.
type Reconciler struct {
	Cmp *comparator.Comparator
}

func NewReconciler(cmp *comparator.Comparator) *Reconciler {
	return &Reconciler{Cmp: cmp}
}

// Result carries the narrowed type plus whether the reconciliation was
// impossible (the positive case emptied the union, or the negative case
// removed nothing at all from it) — the caller uses this to decide whether
// to emit a paradox/redundant-check issue.
type Result struct {
	Type       types.Union
	Impossible bool
}

// Reconcile narrows t by assertion, returning the refined type.
func (r *Reconciler) Reconcile(assertion Assertion, t types.Union) Result {
	switch a := assertion.(type) {
	case IsType:
		return r.reconcileIsType(t, a.Type)
	case IsNotType:
		return r.reconcileIsNotType(t, a.Type)
	case IsEqual:
		return r.reconcileIsType(t, a.Type)
	case IsNotEqual:
		return r.reconcileIsNotType(t, a.Type)
	case Falsy:
		return r.reconcileFalsy(t)
	case Truthy:
		return r.reconcileTruthy(t)
	case IsIsset:
		return r.reconcileIsset(t)
	case IsNotIsset:
		return Result{Type: types.Single(types.TNull{})}
	case IsArrayKey:
		return r.reconcileIsType(t, types.TArraykey{})
	default:
		return Result{Type: t}
	}
}

func (r *Reconciler) reconcileIsType(t types.Union, target types.Atomic) Result {
	if t.Empty() {
		return Result{Type: t}
	}
	narrowed := r.Cmp.IntersectUnionWithAtomic(t, target)
	if narrowed.Empty() {
		return Result{Type: types.Single(types.TNothing{}), Impossible: true}
	}
	return Result{Type: narrowed}
}

func (r *Reconciler) reconcileIsNotType(t types.Union, target types.Atomic) Result {
	if t.Empty() {
		return Result{Type: t}
	}

	if named, ok := target.(types.TNamedObject); ok {
		subtracted := r.Cmp.SubtractSealed(t, named.Name, named.Name)
		if subtracted.Len() != t.Len() {
			return Result{Type: subtracted}
		}
	}

	kept := make([]types.Atomic, 0, t.Len())
	removedAny := false
	for _, atom := range t.Atomics() {
		var res comparator.TypeComparisonResult
		if r.Cmp.IsContainedBy(types.Single(atom), types.Single(target), &res) {
			removedAny = true
			continue
		}
		kept = append(kept, atom)
	}
	if !removedAny {
		return Result{Type: t, Impossible: true}
	}
	if len(kept) == 0 {
		return Result{Type: types.Single(types.TNothing{}), Impossible: true}
	}
	return Result{Type: types.FromAtomics(kept...)}
}

// reconcileFalsy reduces each atomic in t to its falsy representative,
// dropping atomics that have no falsy form (spec §4.5 "Falsy/Truthy reduce
// via a fixed table per atomic kind").
func (r *Reconciler) reconcileFalsy(t types.Union) Result {
	atoms := make([]types.Atomic, 0, t.Len())
	for _, a := range t.Atomics() {
		if f, ok := falsyForm(a); ok {
			atoms = append(atoms, f)
		}
	}
	if len(atoms) == 0 {
		atoms = []types.Atomic{types.TFalse{}, types.TNull{}, types.TLiteralInt{Value: 0}, types.TLiteralString{Value: ""}}
	}
	u := types.FromAtomics(atoms...)
	if u.Empty() {
		return Result{Type: types.Single(types.TNothing{}), Impossible: true}
	}
	return Result{Type: u}
}

func (r *Reconciler) reconcileTruthy(t types.Union) Result {
	atoms := make([]types.Atomic, 0, t.Len())
	removedAny := false
	for _, a := range t.Atomics() {
		switch a.(type) {
		case types.TFalse, types.TNull, types.TVoid:
			removedAny = true
			continue
		}
		if lit, ok := a.(types.TLiteralInt); ok && lit.Value == 0 {
			removedAny = true
			continue
		}
		if lit, ok := a.(types.TLiteralString); ok && lit.Value == "" {
			removedAny = true
			continue
		}
		atoms = append(atoms, a)
	}
	if !removedAny && len(atoms) == t.Len() {
		return Result{Type: t, Impossible: t.Len() > 0}
	}
	if len(atoms) == 0 {
		return Result{Type: types.Single(types.TNothing{}), Impossible: true}
	}
	return Result{Type: types.FromAtomics(atoms...)}
}

// falsyForm returns the falsy representative of an atomic kind, or false
// when that kind has no falsy value (e.g. a non-empty known-items vec).
func falsyForm(a types.Atomic) (types.Atomic, bool) {
	switch v := a.(type) {
	case types.TBool, types.TTrue:
		return types.TFalse{}, true
	case types.TFalse, types.TNull, types.TVoid:
		return v, true
	case types.TInt, types.TNum, types.TArraykey:
		return types.TLiteralInt{Value: 0}, true
	case types.TLiteralInt:
		if v.Value == 0 {
			return v, true
		}
		return nil, false
	case types.TString, types.TStringWithFlags:
		return types.TLiteralString{Value: ""}, true
	case types.TLiteralString:
		if v.Value == "" {
			return v, true
		}
		return nil, false
	case types.TVec:
		if v.NonEmpty {
			return nil, false
		}
		empty := v
		empty.KnownItems = nil
		n := 0
		empty.KnownCount = &n
		return empty, true
	case types.TDict:
		if v.NonEmpty {
			return nil, false
		}
		empty := v
		empty.KnownItems = nil
		return empty, true
	case types.TMixed, types.TNonnullMixed:
		return v, true
	default:
		return nil, false
	}
}

// reconcileIsset strips Null from the union and clears PossiblyUndefined
// (spec §4.5 "IsIsset strips Null and possibly_undefined").
func (r *Reconciler) reconcileIsset(t types.Union) Result {
	atoms := make([]types.Atomic, 0, t.Len())
	for _, a := range t.Atomics() {
		switch a.(type) {
		case types.TNull, types.TVoid:
			continue
		}
		atoms = append(atoms, a)
	}
	if len(atoms) == 0 {
		return Result{Type: types.Single(types.TNothing{}), Impossible: true}
	}
	u := types.FromAtomics(atoms...)
	u.PossiblyUndefined = false
	return Result{Type: u}
}
