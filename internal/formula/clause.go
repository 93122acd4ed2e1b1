package formula

import "sort"

// ClauseKey identifies one variable or variable path a clause's
// possibilities are keyed by: a bare local (`$x`), a property access
// (`$x->prop`), or an array index (`$x[0]`) — spec §4.5's `ClauseKey`.
type ClauseKey string

// Clause is a disjunction of per-variable assertions: one "or" grouping
// per key, the whole clause conjoined with every other clause in a CNF
// (spec §4.5 "Representation").
type Clause struct {
	// Possibilities maps a variable key to its disjunction of assertions,
	// keyed a second time by the assertion's String() (its "hash") so
	// duplicates collapse for free.
	Possibilities map[ClauseKey]map[string]Assertion

	CreatingConditionalID int
	CreatingObjectID      int

	// Wedge marks "no information" — always satisfiable, dropped from any
	// conjunction it appears in.
	Wedge bool
	// Reconcilable is false for clauses synthesized only to track
	// redefinition bookkeeping, never applied by the reconciler.
	Reconcilable bool
	// Generated marks a clause synthesized by the analyzer itself (e.g.
	// loop widening) rather than parsed from a source condition.
	Generated bool

	// RedefinedVars lists variable keys this clause's creating condition
	// reassigns, used to drop stale clauses after the branch that created
	// them closes.
	RedefinedVars map[string]bool
}

// NewWedge returns the always-true "no information" clause.
func NewWedge() *Clause {
	return &Clause{Possibilities: map[ClauseKey]map[string]Assertion{}, Wedge: true, Reconcilable: true}
}

// NewClause builds a single-key, single-possibility clause: `key` must
// satisfy one of asserts.
func NewClause(key ClauseKey, asserts ...Assertion) *Clause {
	c := &Clause{Possibilities: map[ClauseKey]map[string]Assertion{}, Reconcilable: true}
	set := make(map[string]Assertion, len(asserts))
	for _, a := range asserts {
		set[a.String()] = a
	}
	c.Possibilities[key] = set
	return c
}

// Keys returns the clause's variable keys in a stable, sorted order.
func (c *Clause) Keys() []ClauseKey {
	keys := make([]ClauseKey, 0, len(c.Possibilities))
	for k := range c.Possibilities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Contains reports whether c's possibilities are a (non-strict) superset of
// other's — used by subsumption: a clause implied by a stricter one is
// redundant in a conjunction.
func (c *Clause) Contains(other *Clause) bool {
	if len(other.Possibilities) > len(c.Possibilities) {
		return false
	}
	for key, otherSet := range other.Possibilities {
		set, ok := c.Possibilities[key]
		if !ok {
			return false
		}
		for h := range otherSet {
			if _, ok := set[h]; !ok {
				return false
			}
		}
	}
	return true
}

// Equal reports whether c and other have identical possibilities (spec
// §3 "Two clauses with identical possibilities are equal").
func (c *Clause) Equal(other *Clause) bool {
	if len(c.Possibilities) != len(other.Possibilities) {
		return false
	}
	return c.Contains(other) && other.Contains(c)
}

// SinglePossibility reports whether key has exactly one possible
// assertion, returning it — the condition get_truths_from_formula looks
// for.
func (c *Clause) SinglePossibility(key ClauseKey) (Assertion, bool) {
	set, ok := c.Possibilities[key]
	if !ok || len(set) != 1 {
		return nil, false
	}
	for _, a := range set {
		return a, true
	}
	return nil, false
}

// Empty reports whether the clause has no possibilities left for any key
// (a contradiction once every key's disjunction has been emptied).
func (c *Clause) Empty() bool {
	return len(c.Possibilities) == 0
}

// WithoutKey returns a copy of c with key removed (used when unit
// propagation reduces a key's disjunction to nothing).
func (c *Clause) WithoutKey(key ClauseKey) *Clause {
	out := &Clause{
		Possibilities:         make(map[ClauseKey]map[string]Assertion, len(c.Possibilities)),
		CreatingConditionalID: c.CreatingConditionalID,
		CreatingObjectID:      c.CreatingObjectID,
		Wedge:                 c.Wedge,
		Reconcilable:          c.Reconcilable,
		Generated:             c.Generated,
		RedefinedVars:         c.RedefinedVars,
	}
	for k, v := range c.Possibilities {
		if k == key {
			continue
		}
		out.Possibilities[k] = v
	}
	return out
}

// NegatedVariants returns the clauses produced by negating one
// possibility from each key in turn — the distribution step
// negate_formula performs to turn ¬(A∧B∧...) into (¬A ∨ ¬B ∨ ...) CNF,
// one clause per combination of single negated assertions. For a clause
// with keys {k1: {a,b}, k2: {c}}, this yields the disjuncts
// {k1: !a}, {k1: !b}, {k2: !c} — the cross-product of complements across
// every disjunct in every key.
func (c *Clause) NegatedVariants() []*Clause {
	var out []*Clause
	for key, set := range c.Possibilities {
		for _, a := range set {
			out = append(out, NewClause(key, Negate(a)))
		}
	}
	return out
}
