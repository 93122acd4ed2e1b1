package formula

import "errors"

// ErrComplicated is returned when a formula operation's result would be too
// large to be worth computing (spec §4.5 "refuses... (error: Complicated)").
// Callers treat the branch as having learned nothing and continue.
var ErrComplicated = errors.New("formula: complicated")

const maxNegationProduct = 20000

// NegateFormula converts ¬(⋀Cᵢ) into CNF by distributing the negation of
// each clause's disjunction across every other clause's negated disjuncts
// (spec §4.5 "negate_formula"). It refuses when the product of disjunct
// widths would exceed maxNegationProduct.
func NegateFormula(clauses []*Clause) ([]*Clause, error) {
	if len(clauses) == 0 {
		return []*Clause{NewWedge()}, nil
	}

	product := 1
	for _, c := range clauses {
		width := 0
		for _, set := range c.Possibilities {
			width += len(set)
		}
		if width == 0 {
			width = 1
		}
		product *= width
		if product > maxNegationProduct {
			return nil, ErrComplicated
		}
	}

	negatedPerClause := make([][]*Clause, len(clauses))
	for i, c := range clauses {
		negatedPerClause[i] = c.NegatedVariants()
	}

	result := []*Clause{NewWedge()}
	for _, variants := range negatedPerClause {
		if len(variants) == 0 {
			continue
		}
		next := make([]*Clause, 0, len(result)*len(variants))
		for _, acc := range result {
			for _, v := range variants {
				merged, ok := orClauses(acc, v)
				if !ok {
					continue
				}
				next = append(next, merged)
			}
		}
		if len(next) > maxNegationProduct {
			return nil, ErrComplicated
		}
		result = next
	}
	return SimplifyCNF(result), nil
}

// orClauses merges two single/few-key clauses into one wider disjunction,
// the building block negate_formula's distribution and combine_ored_clauses
// both use. It fails (ok=false) when the merge would assert and deny the
// same atomic for the same key, a contradictory binding that can't be
// expressed and is simply dropped from the product.
func orClauses(a, b *Clause) (*Clause, bool) {
	if a.Wedge {
		return b, true
	}
	if b.Wedge {
		return a, true
	}
	merged := map[ClauseKey]map[string]Assertion{}
	for k, set := range a.Possibilities {
		copySet := make(map[string]Assertion, len(set))
		for h, assn := range set {
			copySet[h] = assn
		}
		merged[k] = copySet
	}
	for k, set := range b.Possibilities {
		existing, ok := merged[k]
		if !ok {
			copySet := make(map[string]Assertion, len(set))
			for h, assn := range set {
				copySet[h] = assn
			}
			merged[k] = copySet
			continue
		}
		for h, assn := range set {
			if neg, has := existing[Negate(assn).String()]; has && len(existing) == 1 && h != neg.String() {
				return nil, false
			}
			existing[h] = assn
		}
	}
	return &Clause{Possibilities: merged, Reconcilable: a.Reconcilable && b.Reconcilable, Generated: true}, true
}

const maxOredClauses = 2048

// CombineOredClauses cross-products left and right (one "or" across the two
// formulas), skipping pairs that would bind a key contradictorily, capped
// at maxOredClauses results (spec §4.5 "combine_ored_clauses").
func CombineOredClauses(left, right []*Clause, creatingConditionalID int) ([]*Clause, error) {
	out := make([]*Clause, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			merged, ok := orClauses(l, r)
			if !ok {
				continue
			}
			merged.CreatingConditionalID = creatingConditionalID
			out = append(out, merged)
			if len(out) > maxOredClauses {
				return nil, ErrComplicated
			}
		}
	}
	return SimplifyCNF(out), nil
}
