package comparator

import "github.com/hakanago/hakana/internal/types"

// TypeComparisonResult is IsContainedBy's out-parameter (spec §4.4): callers
// use it to emit finer-grained diagnostics and to substitute template
// bindings after a successful containment check.
type TypeComparisonResult struct {
	TypeCoerced               bool
	TypeCoercedFromNestedMixed bool
	TypeCoercedFromNestedAny  bool
	TypeCoercedToLiteral      bool
	ReplacementAtomicType     types.Atomic
}

func (r *TypeComparisonResult) markCoerced() {
	if r != nil {
		r.TypeCoerced = true
	}
}

func (r *TypeComparisonResult) markCoercedFromNestedMixed() {
	if r != nil {
		r.TypeCoerced = true
		r.TypeCoercedFromNestedMixed = true
	}
}

func (r *TypeComparisonResult) markCoercedFromNestedAny() {
	if r != nil {
		r.TypeCoerced = true
		r.TypeCoercedFromNestedAny = true
	}
}

func (r *TypeComparisonResult) markCoercedToLiteral() {
	if r != nil {
		r.TypeCoerced = true
		r.TypeCoercedToLiteral = true
	}
}
