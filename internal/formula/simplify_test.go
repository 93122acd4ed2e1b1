package formula

import (
	"testing"

	"github.com/hakanago/hakana/internal/types"
)

func TestSimplifyCNFUnitPropagation(t *testing.T) {
	unit := NewClause("$x", IsType{Type: types.TInt{}})
	disjunctive := NewClause("$x", IsNotType{Type: types.TInt{}}, IsType{Type: types.TString{}})

	out := SimplifyCNF([]*Clause{unit, disjunctive})

	for _, c := range out {
		if a, ok := c.SinglePossibility("$x"); ok {
			if _, isNotInt := a.(IsNotType); isNotInt {
				t.Fatalf("expected IsNotType(int) to be propagated away by the unit clause, got %v", c)
			}
		}
	}
}

func TestSimplifyCNFSubsumption(t *testing.T) {
	narrow := NewClause("$x", IsType{Type: types.TInt{}})
	wide := NewClause("$x", IsType{Type: types.TInt{}}, IsType{Type: types.TString{}})

	out := SimplifyCNF([]*Clause{narrow, wide})
	if len(out) != 1 {
		t.Fatalf("expected the subsumed wide clause to be dropped, got %d clauses: %v", len(out), out)
	}
}

func TestNegateFormulaSimpleClause(t *testing.T) {
	clauses := []*Clause{NewClause("$x", IsType{Type: types.TInt{}})}
	negated, err := NegateFormula(clauses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(negated) != 1 {
		t.Fatalf("expected one negated clause, got %d", len(negated))
	}
	a, ok := negated[0].SinglePossibility("$x")
	if !ok {
		t.Fatalf("expected a single possibility in the negated clause")
	}
	if _, ok := a.(IsNotType); !ok {
		t.Fatalf("expected IsNotType, got %T", a)
	}
}

func TestGetTruthsFromFormula(t *testing.T) {
	clauses := []*Clause{
		NewClause("$x", IsType{Type: types.TInt{}}),
		NewClause("$y", IsType{Type: types.TInt{}}, IsType{Type: types.TString{}}),
	}
	truths := GetTruthsFromFormula(clauses, 0)
	if len(truths["$x"]) != 1 {
		t.Fatalf("expected exactly one truth for $x, got %d", len(truths["$x"]))
	}
	if len(truths["$y"]) != 0 {
		t.Fatalf("did not expect a truth for the two-way disjunction on $y")
	}
}
