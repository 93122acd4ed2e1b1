package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cmpUnion compares two unions' atomic sets structurally, ignoring the
// unexported atomics map (cmp can't see into it anyway) by comparing the
// already-sorted Atomics() slices instead.
func cmpUnion(t *testing.T, got, want Union) {
	t.Helper()
	diff := cmp.Diff(want.Atomics(), got.Atomics(), cmpopts.EquateEmpty())
	if diff != "" {
		t.Errorf("union atomics mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAtomicsIgnoresInsertionOrder(t *testing.T) {
	u := FromAtomics(TInt{}, TString{}, TBool{})
	cmpUnion(t, u, FromAtomics(TBool{}, TInt{}, TString{}))
	if u.Len() != 3 {
		t.Fatalf("expected 3 distinct atomics, got %d", u.Len())
	}
}

func TestWithAddsDistinctKeyedAtomic(t *testing.T) {
	u := Single(TInt{})
	u = u.With(TString{})
	cmpUnion(t, u, FromAtomics(TInt{}, TString{}))
}

func TestWithoutRemovesByKey(t *testing.T) {
	u := FromAtomics(TInt{}, TString{})
	u = u.Without(TString{}.String())
	cmpUnion(t, u, Single(TInt{}))
}

func TestAsSingleOnlyTrueForOneAtomic(t *testing.T) {
	if _, ok := FromAtomics(TInt{}, TString{}).AsSingle(); ok {
		t.Errorf("expected AsSingle to fail on a two-atomic union")
	}
	a, ok := Single(TInt{}).AsSingle()
	if !ok {
		t.Fatalf("expected AsSingle to succeed on a single-atomic union")
	}
	if diff := cmp.Diff(TInt{}, a); diff != "" {
		t.Errorf("AsSingle mismatch (-want +got):\n%s", diff)
	}
}
