package formula

import (
	"testing"

	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// noopHierarchy is a Hierarchy with no declared inheritance, enough to
// exercise reconciliation over primitive/container types that never
// consult it.
type noopHierarchy struct{}

func (noopHierarchy) IsParentClass(interner.Id, interner.Id) bool     { return false }
func (noopHierarchy) IsParentInterface(interner.Id, interner.Id) bool { return false }
func (noopHierarchy) TemplateExtendedParams(interner.Id, interner.Id) map[interner.Id]types.Union {
	return nil
}
func (noopHierarchy) SealedChildren(interner.Id, interner.Id) []interner.Id { return nil }
func (noopHierarchy) CommonAncestor(interner.Id, interner.Id) (interner.Id, bool) {
	return interner.Empty, false
}
func (noopHierarchy) EnumCaseValue(interner.Id, interner.Id) (types.Atomic, bool) { return nil, false }
func (noopHierarchy) EnumMembers(interner.Id) []interner.Id                       { return nil }

func newTestReconciler() *Reconciler {
	return NewReconciler(comparator.New(noopHierarchy{}))
}

func TestReconcileIsTypeNarrowsUnion(t *testing.T) {
	r := newTestReconciler()
	u := types.FromAtomics(types.TInt{}, types.TString{})
	result := r.Reconcile(IsType{Type: types.TInt{}}, u)
	if result.Impossible {
		t.Fatalf("expected a possible reconciliation")
	}
	if _, ok := result.Type.AsSingle(); !ok {
		t.Fatalf("expected exactly one atomic after narrowing, got %v", result.Type)
	}
}

func TestReconcileIsTypeImpossible(t *testing.T) {
	r := newTestReconciler()
	u := types.Single(types.TString{})
	result := r.Reconcile(IsType{Type: types.TBool{}}, u)
	if !result.Impossible {
		t.Fatalf("expected narrowing string to bool to be impossible")
	}
}

func TestReconcileIsNotTypeSubtracts(t *testing.T) {
	r := newTestReconciler()
	u := types.FromAtomics(types.TInt{}, types.TString{})
	result := r.Reconcile(IsNotType{Type: types.TInt{}}, u)
	if result.Impossible {
		t.Fatalf("expected a possible reconciliation")
	}
	single, ok := result.Type.AsSingle()
	if !ok {
		t.Fatalf("expected exactly one atomic remaining, got %v", result.Type)
	}
	if _, ok := single.(types.TString); !ok {
		t.Fatalf("expected the remaining atomic to be string, got %T", single)
	}
}

func TestReconcileFalsyOnBool(t *testing.T) {
	r := newTestReconciler()
	u := types.Single(types.TBool{})
	result := r.Reconcile(Falsy{}, u)
	single, ok := result.Type.AsSingle()
	if !ok {
		t.Fatalf("expected a single falsy atomic, got %v", result.Type)
	}
	if _, ok := single.(types.TFalse); !ok {
		t.Fatalf("expected TFalse, got %T", single)
	}
}

func TestReconcileIsIssetStripsNull(t *testing.T) {
	r := newTestReconciler()
	u := types.FromAtomics(types.TInt{}, types.TNull{})
	result := r.Reconcile(IsIsset{}, u)
	if result.Impossible {
		t.Fatalf("expected a possible reconciliation")
	}
	if result.Type.Len() != 1 {
		t.Fatalf("expected null to be stripped, got %v", result.Type)
	}
}
