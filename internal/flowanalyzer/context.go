// Package flowanalyzer implements the flow-sensitive pass over one
// function body at a time: per-statement type assignment, local narrowing
// via the formula store, and control-flow-aware scoping for branches,
// loops, switches, and try/catch (spec §4.6 "Flow analyzer").
package flowanalyzer

import (
	"github.com/hakanago/hakana/internal/formula"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// BreakKind distinguishes what a break_types frame belongs to, so `break`
// inside a switch nested in a loop unwinds the right scope.
type BreakKind int

const (
	BreakSwitch BreakKind = iota
	BreakLoop
)

// Ctx is spec §3's "Block context": the mutable per-statement state the
// analyzer threads through a function body, forked at every branch.
type Ctx struct {
	// Locals is the ordered map var_name -> current Type, in first-seen
	// order so diagnostics and re-serialization stay stable.
	Locals     map[string]types.Union
	LocalOrder []string

	CondReferencedVarIDs     map[string]bool
	AssignedVarIDs           map[string]bool
	PossiblyAssignedVarIDs   map[string]bool

	Clauses []*formula.Clause

	BreakTypes []BreakKind

	InsideConditional  bool
	InsideIsset        bool
	InsideUnset        bool
	InsideGeneralUse   bool
	InsideAssignment   bool
	InsideAsync        bool
	HasReturned        bool
	AllowTaints        bool
	InsideLoop         bool

	FunctionContext interner.Id

	// ParentConflictingClauseVars are vars whose clauses were dropped by an
	// assignment in a parent scope, so a child scope knows not to resurrect
	// stale narrowing for them.
	ParentConflictingClauseVars map[string]bool

	ControlActions map[ControlAction]bool
}

// NewCtx creates an empty block context for one function's entry point.
func NewCtx(fn interner.Id) *Ctx {
	return &Ctx{
		Locals:                      map[string]types.Union{},
		CondReferencedVarIDs:        map[string]bool{},
		AssignedVarIDs:              map[string]bool{},
		PossiblyAssignedVarIDs:      map[string]bool{},
		ParentConflictingClauseVars: map[string]bool{},
		ControlActions:              map[ControlAction]bool{},
		FunctionContext:             fn,
	}
}

// SetLocal records var's current type, appending to LocalOrder on first
// sight.
func (c *Ctx) SetLocal(name string, t types.Union) {
	if _, ok := c.Locals[name]; !ok {
		c.LocalOrder = append(c.LocalOrder, name)
	}
	c.Locals[name] = t
}

// RemoveClausesAbout drops every clause that mentions name or a descendant
// path of it (spec §3 invariant: "after assignment to x, every clause
// mentioning x or any child (property-access path) of x is discarded").
func (c *Ctx) RemoveClausesAbout(name string) {
	kept := make([]*formula.Clause, 0, len(c.Clauses))
	for _, cl := range c.Clauses {
		mentions := false
		for _, key := range cl.Keys() {
			if clauseKeyMentions(key, name) {
				mentions = true
				break
			}
		}
		if mentions {
			c.ParentConflictingClauseVars[name] = true
			continue
		}
		kept = append(kept, cl)
	}
	c.Clauses = kept
}

func clauseKeyMentions(key formula.ClauseKey, name string) bool {
	s := string(key)
	if s == name {
		return true
	}
	if len(s) > len(name) && s[:len(name)] == name {
		switch s[len(name)] {
		case '-', '[', '.':
			return true
		}
	}
	return false
}

// Fork produces an independent copy of c for a branch arm: locals and
// clauses are copied by value/slice-copy so mutating the fork never
// affects the parent.
func (c *Ctx) Fork() *Ctx {
	out := &Ctx{
		Locals:                      make(map[string]types.Union, len(c.Locals)),
		LocalOrder:                  append([]string(nil), c.LocalOrder...),
		CondReferencedVarIDs:        copyBoolSet(c.CondReferencedVarIDs),
		AssignedVarIDs:              copyBoolSet(c.AssignedVarIDs),
		PossiblyAssignedVarIDs:      copyBoolSet(c.PossiblyAssignedVarIDs),
		Clauses:                     append([]*formula.Clause(nil), c.Clauses...),
		BreakTypes:                  append([]BreakKind(nil), c.BreakTypes...),
		InsideConditional:           c.InsideConditional,
		InsideIsset:                 c.InsideIsset,
		InsideUnset:                 c.InsideUnset,
		InsideGeneralUse:            c.InsideGeneralUse,
		InsideAssignment:            c.InsideAssignment,
		InsideAsync:                 c.InsideAsync,
		HasReturned:                 c.HasReturned,
		AllowTaints:                 c.AllowTaints,
		InsideLoop:                  c.InsideLoop,
		FunctionContext:             c.FunctionContext,
		ParentConflictingClauseVars: copyBoolSet(c.ParentConflictingClauseVars),
		ControlActions:              map[ControlAction]bool{},
	}
	for k, v := range c.Locals {
		out.Locals[k] = v
	}
	return out
}

func copyBoolSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
