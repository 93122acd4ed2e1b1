package formula

import (
	"testing"

	"github.com/hakanago/hakana/internal/types"
)

func TestClauseEqual(t *testing.T) {
	a := NewClause("$x", IsType{Type: types.TInt{}}, IsType{Type: types.TString{}})
	b := NewClause("$x", IsType{Type: types.TString{}}, IsType{Type: types.TInt{}})
	if !a.Equal(b) {
		t.Fatalf("expected clauses with the same possibilities in different insertion order to be equal")
	}
}

func TestClauseContainsSubset(t *testing.T) {
	wide := NewClause("$x", IsType{Type: types.TInt{}}, IsType{Type: types.TString{}})
	narrow := NewClause("$x", IsType{Type: types.TInt{}})
	if !wide.Contains(narrow) {
		t.Fatalf("expected wide to contain narrow")
	}
	if narrow.Contains(wide) {
		t.Fatalf("did not expect narrow to contain wide")
	}
}

func TestClauseSinglePossibility(t *testing.T) {
	c := NewClause("$x", IsType{Type: types.TInt{}})
	a, ok := c.SinglePossibility("$x")
	if !ok {
		t.Fatalf("expected a single possibility")
	}
	if _, isInt := a.(IsType); !isInt {
		t.Fatalf("expected IsType, got %T", a)
	}

	wide := NewClause("$y", IsType{Type: types.TInt{}}, IsType{Type: types.TString{}})
	if _, ok := wide.SinglePossibility("$y"); ok {
		t.Fatalf("expected no single possibility on a two-way disjunction")
	}
}

func TestNegate(t *testing.T) {
	cases := []struct {
		in   Assertion
		want Assertion
	}{
		{Falsy{}, Truthy{}},
		{Truthy{}, Falsy{}},
		{IsIsset{}, IsNotIsset{}},
		{IsType{Type: types.TInt{}}, IsNotType{Type: types.TInt{}}},
	}
	for _, c := range cases {
		got := Negate(c.in)
		if got.String() != c.want.String() {
			t.Errorf("Negate(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
