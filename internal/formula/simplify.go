package formula

// starVar marks a clause key the analyzer couldn't resolve to a concrete
// variable path (e.g. a computed property access) — simplify_cnf treats a
// large formula full of these as too unreliable to keep reducing.
const starVar = ClauseKey("*")

// maxClausesBeforeStarBailout is spec §4.5's "bails out ... when the clause
// count exceeds 50 and every clause involves an unknown (starred) variable".
const maxClausesBeforeStarBailout = 50

// SimplifyCNF applies unit propagation, subsumption, and complementary-pair
// absorption to a fixed point (spec §4.5 "simplify_cnf"). It never mutates
// its input clauses.
func SimplifyCNF(clauses []*Clause) []*Clause {
	if allStarred(clauses) && len(clauses) > maxClausesBeforeStarBailout {
		return clauses
	}

	current := cloneAll(clauses)
	for {
		next := unitPropagate(current)
		next = subsume(next)
		next = absorbComplementaryPairs(next)
		if sameClauseSet(current, next) {
			return next
		}
		current = next
	}
}

func allStarred(clauses []*Clause) bool {
	for _, c := range clauses {
		hasStar := false
		for k := range c.Possibilities {
			if k == starVar {
				hasStar = true
				break
			}
		}
		if !hasStar {
			return false
		}
	}
	return len(clauses) > 0
}

func cloneAll(clauses []*Clause) []*Clause {
	out := make([]*Clause, len(clauses))
	for i, c := range clauses {
		out[i] = c.WithoutKey("")
	}
	return out
}

// unitPropagate: when some clause has a single-possibility key {x:{t}},
// remove ¬t from every disjunction of x in every other clause. A clause
// whose key-disjunction becomes empty drops that key; a clause left with
// no keys at all is a contradiction and is dropped from the result (its
// absence signals "no satisfying assignment" to callers that care).
func unitPropagate(clauses []*Clause) []*Clause {
	units := map[ClauseKey]Assertion{}
	for _, c := range clauses {
		if c.Wedge {
			continue
		}
		for key := range c.Possibilities {
			if a, ok := c.SinglePossibility(key); ok {
				units[key] = a
			}
		}
	}
	if len(units) == 0 {
		return clauses
	}

	out := make([]*Clause, 0, len(clauses))
	for _, c := range clauses {
		if c.Wedge {
			out = append(out, c)
			continue
		}
		newPoss := map[ClauseKey]map[string]Assertion{}
		contradiction := false
		for key, set := range c.Possibilities {
			unit, hasUnit := units[key]
			if hasUnit && len(set) == 1 {
				if _, ok := set[unit.String()]; ok {
					newPoss[key] = set
					continue
				}
			}
			filtered := map[string]Assertion{}
			for h, a := range set {
				if hasUnit && h == Negate(unit).String() && len(set) > 1 {
					continue
				}
				filtered[h] = a
			}
			if len(filtered) == 0 {
				contradiction = true
				break
			}
			newPoss[key] = filtered
		}
		if contradiction {
			continue
		}
		if len(newPoss) == 0 {
			continue
		}
		out = append(out, &Clause{
			Possibilities:         newPoss,
			CreatingConditionalID: c.CreatingConditionalID,
			CreatingObjectID:      c.CreatingObjectID,
			Wedge:                 c.Wedge,
			Reconcilable:          c.Reconcilable,
			Generated:             c.Generated,
			RedefinedVars:         c.RedefinedVars,
		})
	}
	return out
}

// subsume drops any clause that is a (non-strict) superset of another
// distinct clause — the superset is logically implied and redundant in a
// conjunction.
func subsume(clauses []*Clause) []*Clause {
	keep := make([]bool, len(clauses))
	for i := range clauses {
		keep[i] = true
	}
	for i, ci := range clauses {
		if !keep[i] {
			continue
		}
		for j, cj := range clauses {
			if i == j || !keep[j] {
				continue
			}
			if ci.Contains(cj) && !cj.Contains(ci) {
				keep[i] = false
				break
			}
		}
	}
	out := make([]*Clause, 0, len(clauses))
	for i, c := range clauses {
		if keep[i] {
			out = append(out, c)
		}
	}
	return dedupeEqual(out)
}

func dedupeEqual(clauses []*Clause) []*Clause {
	out := make([]*Clause, 0, len(clauses))
	for _, c := range clauses {
		dup := false
		for _, existing := range out {
			if c.Equal(existing) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// absorbComplementaryPairs drops (X∨Y) when (A∨X) and (¬A∨Y) are both
// present and X, Y are the same disjunct set — spec §4.5 rule 3.
func absorbComplementaryPairs(clauses []*Clause) []*Clause {
	drop := make([]bool, len(clauses))
	for i, xy := range clauses {
		if len(xy.Possibilities) != 2 {
			continue
		}
		keys := xy.Keys()
		kx, ky := keys[0], keys[1]
		x := xy.Possibilities[kx]
		y := xy.Possibilities[ky]
		for _, ax := range clauses {
			if !singleKeyMatches(ax, kx, x) {
				continue
			}
			aAssertion, aKey, aOK := otherSingle(ax, kx)
			if !aOK {
				continue
			}
			for _, negAy := range clauses {
				if !singleKeyMatches(negAy, ky, y) {
					continue
				}
				negAssertion, negKey, negOK := otherSingle(negAy, ky)
				if !negOK || negKey != aKey {
					continue
				}
				if negAssertion.String() == Negate(aAssertion).String() {
					drop[i] = true
				}
			}
		}
	}
	out := make([]*Clause, 0, len(clauses))
	for i, c := range clauses {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out
}

func singleKeyMatches(c *Clause, key ClauseKey, set map[string]Assertion) bool {
	other, ok := c.Possibilities[key]
	if !ok || len(other) != len(set) {
		return false
	}
	for h := range set {
		if _, ok := other[h]; !ok {
			return false
		}
	}
	return true
}

func otherSingle(c *Clause, excluding ClauseKey) (Assertion, ClauseKey, bool) {
	for key, set := range c.Possibilities {
		if key == excluding {
			continue
		}
		if len(set) != 1 {
			return nil, "", false
		}
		for _, a := range set {
			return a, key, true
		}
	}
	return nil, "", false
}

func sameClauseSet(a, b []*Clause) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ca := range a {
		found := false
		for _, cb := range b {
			if ca.Equal(cb) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
