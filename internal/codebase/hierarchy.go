package codebase

import (
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// IsParentClass implements comparator.Hierarchy.
func (cb *Codebase) IsParentClass(descendant, ancestor interner.Id) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[descendant]
	if !ok {
		return false
	}
	return ci.AllParentClasses[ancestor]
}

// IsParentInterface implements comparator.Hierarchy.
func (cb *Codebase) IsParentInterface(descendant, ancestor interner.Id) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[descendant]
	if !ok {
		return false
	}
	return ci.AllParentInterfaces[ancestor]
}

// TemplateExtendedParams implements comparator.Hierarchy.
func (cb *Codebase) TemplateExtendedParams(descendant, ancestor interner.Id) map[interner.Id]types.Union {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[descendant]
	if !ok {
		return nil
	}
	return ci.TemplateExtendedParams[ancestor]
}

// SealedChildren implements comparator.Hierarchy.
func (cb *Codebase) SealedChildren(sealedParent, except interner.Id) []interner.Id {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[sealedParent]
	if !ok {
		return nil
	}
	out := make([]interner.Id, 0, len(ci.SealedChildren))
	for _, child := range ci.SealedChildren {
		if child != except {
			out = append(out, child)
		}
	}
	return out
}

// CommonAncestor implements comparator.Hierarchy, used by Combine to
// demote two differently-named NamedObjects to their nearest shared
// ancestor (spec §4.2 rule 2).
func (cb *Codebase) CommonAncestor(a, b interner.Id) (interner.Id, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ai, aok := cb.Classlikes[a]
	bi, bok := cb.Classlikes[b]
	if !aok || !bok {
		return interner.Empty, false
	}
	if ai.AllParentClasses[b] || ai.AllParentInterfaces[b] {
		return b, true
	}
	if bi.AllParentClasses[a] || bi.AllParentInterfaces[a] {
		return a, true
	}
	seen := map[interner.Id]bool{}
	for cur := ai.DirectParentClass; cur != interner.Empty && !seen[cur]; {
		seen[cur] = true
		if bi.AllParentClasses[cur] {
			return cur, true
		}
		ci, ok := cb.Classlikes[cur]
		if !ok {
			break
		}
		cur = ci.DirectParentClass
	}
	for anc := range ai.AllParentInterfaces {
		if bi.AllParentInterfaces[anc] {
			return anc, true
		}
	}
	return interner.Empty, false
}

// EnumCaseValue implements comparator.Hierarchy.
func (cb *Codebase) EnumCaseValue(enumName, member interner.Id) (types.Atomic, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[enumName]
	if !ok {
		return nil, false
	}
	v, ok := ci.EnumCases[member]
	return v, ok
}

// EnumMembers implements comparator.Hierarchy.
func (cb *Codebase) EnumMembers(enumName interner.Id) []interner.Id {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ci, ok := cb.Classlikes[enumName]
	if !ok {
		return nil
	}
	out := make([]interner.Id, 0, len(ci.EnumCases))
	for m := range ci.EnumCases {
		out = append(out, m)
	}
	return out
}
