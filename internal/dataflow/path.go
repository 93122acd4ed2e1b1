package dataflow

// ArrayDataKind distinguishes an array fetch/assignment edge's role: the
// key itself, or the value stored at it (spec §3 "ArrayDataKind = ArrayKey
// | ArrayValue").
type ArrayDataKind int

const (
	ArrayKey ArrayDataKind = iota
	ArrayValue
)

// ExprKind distinguishes the expression-fetch/assignment edge family
// (property fetch, array fetch, etc.) that ExpressionFetch/
// ExpressionAssignment pair up (spec §4.7 "ExpressionAssignment(kind,
// label) pairs with ExpressionFetch(kind, label)").
type ExprKind int

const (
	ExprKindProperty ExprKind = iota
	ExprKindArrayKey
	ExprKindArrayValue
)

// PathKind tags one forward edge's semantics (spec §3 "Dataflow edge /
// Path").
type PathKind int

const (
	PathDefault PathKind = iota
	PathScalarTypeGuard
	PathRemoveDictKey
	PathExpressionFetch
	PathExpressionAssignment
	PathUnknownExpressionFetch
	PathUnknownExpressionAssignment
	PathArrayAssignment
	PathUnknownArrayAssignment
)

// Path is one forward edge's label (spec §3 "Dataflow edge / Path").
type Path struct {
	Kind PathKind

	// ExprKind/Label apply to the ExpressionFetch/ExpressionAssignment/
	// UnknownExpression* variants.
	ExprKind ExprKind
	Label    string

	// ArrayDataKind/Literal apply to the ArrayAssignment/
	// UnknownArrayAssignment variants; Literal holds the known key for
	// ArrayAssignment (empty for the Unknown variant).
	ArrayDataKind ArrayDataKind
	Literal       string

	// DictKey applies to RemoveDictKey.
	DictKey string

	AddedTaints   TaintSet
	RemovedTaints TaintSet
}

// shouldIgnoreFetch reports whether a fetch edge should be skipped because
// it doesn't match the nearest preceding assignment on the same kind+label
// (spec §4.7 "a path through a fetch is valid only if the fetch matches the
// nearest previous assignment on the same kind,label"). lastAssignment is
// the most recent non-default Path the search walked before reaching this
// fetch, or nil at the start of a path.
func shouldIgnoreFetch(fetch Path, lastAssignment *Path) bool {
	if lastAssignment == nil {
		return false
	}
	switch fetch.Kind {
	case PathExpressionFetch:
		return !(lastAssignment.Kind == PathExpressionAssignment &&
			lastAssignment.ExprKind == fetch.ExprKind &&
			lastAssignment.Label == fetch.Label)
	case PathUnknownExpressionFetch:
		return lastAssignment.Kind == PathExpressionAssignment && lastAssignment.ExprKind == fetch.ExprKind
	default:
		return false
	}
}

// shouldSuppressScalarGuard implements "ScalarTypeGuard is suppressed if
// the most recent non-default step was an array or property assignment".
func shouldSuppressScalarGuard(lastStep *Path) bool {
	if lastStep == nil {
		return false
	}
	switch lastStep.Kind {
	case PathExpressionAssignment, PathArrayAssignment, PathUnknownArrayAssignment:
		return true
	default:
		return false
	}
}
