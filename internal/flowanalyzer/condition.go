package flowanalyzer

import (
	"fmt"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/formula"
	"github.com/hakanago/hakana/internal/types"
)

// formulaClause is a local alias so stmt.go can refer to a clause without
// importing the formula package directly in every file.
type formulaClause = formula.Clause

// BuildFormula translates a branch condition into the CNF clause list it
// asserts (spec §4.5 "conditions are translated into CNF via the same
// boolean algebra as negate_formula/combine_ored_clauses"). condID is
// stamped as CreatingConditionalID only on null-comparison clauses and on
// clauses joined across `||`; the other clauses it builds carry no creating
// id, which GetTruthsFromFormula treats as matching every condition.
func (a *Analyzer) BuildFormula(cond ast.Expr, condID int) []*formula.Clause {
	clauses, err := a.buildFormula(cond, condID)
	if err != nil {
		return nil
	}
	return formula.SimplifyCNF(clauses)
}

func (a *Analyzer) buildFormula(cond ast.Expr, condID int) ([]*formula.Clause, error) {
	switch e := cond.(type) {
	case *ast.UnaryExpr:
		if e.Op == ast.OpNot {
			inner, err := a.buildFormula(e.Operand, condID)
			if err != nil {
				return nil, err
			}
			return formula.NegateFormula(inner)
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case ast.OpAnd:
			left, err := a.buildFormula(e.Left, condID)
			if err != nil {
				return nil, err
			}
			right, err := a.buildFormula(e.Right, condID)
			if err != nil {
				return nil, err
			}
			return append(left, right...), nil
		case ast.OpOr:
			left, err := a.buildFormula(e.Left, condID)
			if err != nil {
				return nil, err
			}
			right, err := a.buildFormula(e.Right, condID)
			if err != nil {
				return nil, err
			}
			return formula.CombineOredClauses(left, right, condID)
		case ast.OpEq, ast.OpStrictEq, ast.OpNotEq, ast.OpStrictNotEq:
			if key, ok := exprKey(e.Left); ok && isNullLiteral(e.Right) {
				return equalityClause(key, e.Op, condID), nil
			}
			if key, ok := exprKey(e.Right); ok && isNullLiteral(e.Left) {
				return equalityClause(key, e.Op, condID), nil
			}
		}
	case *ast.CastExpr:
		if e.Kind == ast.CastIs {
			if key, ok := exprKey(e.Operand); ok {
				atom := firstAtomic(a.resolveCastHint(e.TypeHint))
				if atom != nil {
					return []*formula.Clause{formula.NewClause(key, formula.IsType{Type: atom})}, nil
				}
			}
		}
	case *ast.IssetExpr:
		var clauses []*formula.Clause
		for _, target := range e.Targets {
			if key, ok := exprKey(target); ok {
				clauses = append(clauses, formula.NewClause(key, formula.IsIsset{}))
			}
		}
		return clauses, nil
	}

	if key, ok := exprKey(cond); ok {
		return []*formula.Clause{formula.NewClause(key, formula.Truthy{})}, nil
	}
	return []*formula.Clause{formula.NewWedge()}, nil
}

func equalityClause(key formula.ClauseKey, op ast.BinaryOp, condID int) []*formula.Clause {
	var assertion formula.Assertion
	switch op {
	case ast.OpEq, ast.OpStrictEq:
		assertion = formula.IsType{Type: types.TNull{}}
	default:
		assertion = formula.IsNotType{Type: types.TNull{}}
	}
	c := formula.NewClause(key, assertion)
	c.CreatingConditionalID = condID
	return []*formula.Clause{c}
}

func isNullLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.NullLiteral)
	return ok
}

func (a *Analyzer) resolveCastHint(h ast.TypeHint) types.Union {
	return codebase.ResolveTypeHint(h, a.Ids)
}

func firstAtomic(u types.Union) types.Atomic {
	atoms := u.Atomics()
	if len(atoms) == 0 {
		return nil
	}
	return atoms[0]
}

// exprKey builds the dotted/bracketed path a Variable/PropertyFetchExpr/
// ArrayFetchExpr chain is keyed under in the clause store (spec §3 "clauses
// are keyed by variable paths like $x, $x->prop, $x[0]"). Any other
// expression shape has no stable path and is reported not ok.
func exprKey(e ast.Expr) (formula.ClauseKey, bool) {
	switch v := e.(type) {
	case *ast.Variable:
		return formula.ClauseKey("$" + v.Name), true
	case *ast.ThisExpr:
		return formula.ClauseKey("$this"), true
	case *ast.PropertyFetchExpr:
		base, ok := exprKey(v.Target)
		if !ok {
			return "", false
		}
		return formula.ClauseKey(string(base) + "->" + v.Property), true
	case *ast.ArrayFetchExpr:
		base, ok := exprKey(v.Target)
		if !ok || v.Key == nil {
			return "", false
		}
		return formula.ClauseKey(string(base) + "[" + literalKeyString(v.Key) + "]"), true
	}
	return "", false
}

func literalKeyString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", v.Value)
	case *ast.StringLiteral:
		return v.Value
	default:
		return "?"
	}
}

// negateClauses negates a CNF formula, used by if/else branching to derive
// the else-arm's learned truths from the then-arm's condition.
func negateClauses(clauses []*formula.Clause) ([]*formula.Clause, error) {
	return formula.NegateFormula(clauses)
}

// negateOrEmpty negates clauses, returning nil instead of propagating
// ErrComplicated (used where the caller has nothing sensible to do with a
// refused negation other than learn nothing).
func negateOrEmpty(clauses []*formula.Clause) []*formula.Clause {
	negated, err := formula.NegateFormula(clauses)
	if err != nil {
		return nil
	}
	return negated
}

// truthsFromFormula narrows a branch formula down to single-possibility
// assertions per key (spec §4.5 "get_truths_from_formula").
func truthsFromFormula(clauses []*formula.Clause, condID int) map[formula.ClauseKey][]formula.Assertion {
	return formula.GetTruthsFromFormula(clauses, condID)
}

// reconcile applies one assertion to a local's current type via the shared
// reconciler.
func reconcile(r *formula.Reconciler, assertion formula.Assertion, t types.Union) formula.Result {
	return r.Reconcile(assertion, t)
}
