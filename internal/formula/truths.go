package formula

// GetTruthsFromFormula returns, per variable key, the assertions implied
// unconditionally by clauses with exactly one possibility for that key
// (spec §4.5 "get_truths_from_formula"). A non-zero creatingID skips clauses
// created by a different conditional; clauses with no creating conditional
// (CreatingConditionalID zero) are always kept. A zero creatingID keeps
// every clause — the driver's "get everything the whole formula entails" call.
func GetTruthsFromFormula(clauses []*Clause, creatingID int) map[ClauseKey][]Assertion {
	out := map[ClauseKey][]Assertion{}
	for _, c := range clauses {
		if c.Wedge || !c.Reconcilable {
			continue
		}
		if creatingID != 0 && c.CreatingConditionalID != 0 && c.CreatingConditionalID != creatingID {
			continue
		}
		for key, set := range c.Possibilities {
			if len(set) != 1 {
				continue
			}
			for _, a := range set {
				out[key] = append(out[key], a)
			}
		}
	}
	return out
}
