package flowanalyzer

import (
	"fmt"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/dataflow"
	"github.com/hakanago/hakana/internal/types"
)

// analyzeAssign implements spec §4.6's assignment algorithm: compute the
// RHS type, record an Assignment dataflow node for it, bind it to the LHS
// path (destructuring where the target is a tuple), and discard every
// clause that mentioned the reassigned path (the block context invariant
// RemoveClausesAbout enforces).
func (a *Analyzer) analyzeAssign(ctx *Ctx, v *ast.AssignExpr) types.Union {
	ctx.InsideAssignment = true
	rhs := a.analyzeExpr(ctx, v.Value)
	ctx.InsideAssignment = false

	if v.Op == ast.AssignCompound {
		lhsType := a.analyzeExpr(ctx, v.Target)
		rhs = a.combineCompound(v.Compound, lhsType, rhs)
	}

	node := dataflow.Node{
		ID:    a.freshNodeID("assign"),
		Kind:  dataflow.KindAssignment,
		Label: exprLabel(v.Target),
		Pos:   toDataflowPos(v.Start()),
	}
	a.Graph.AddNode(node)
	for parent := range rhs.ParentNodes {
		a.Graph.AddEdge(parent, node.ID, dataflow.Path{Kind: dataflow.PathDefault})
	}
	rhs = rhs.WithParentNode(node.ID)

	a.bindTarget(ctx, v.Target, rhs)
	return rhs
}

func (a *Analyzer) combineCompound(op ast.BinaryOp, lhs, rhs types.Union) types.Union {
	switch op {
	case ast.OpConcat:
		return types.Single(types.TString{})
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if isFloatish(lhs) || isFloatish(rhs) {
			return types.Single(types.TFloat{})
		}
		return types.Single(types.TInt{})
	default:
		return rhs
	}
}

// bindTarget assigns t to target, recursing into tuple destructuring and
// recording the dataflow edges a property/array-element assignment implies.
func (a *Analyzer) bindTarget(ctx *Ctx, target ast.Expr, t types.Union) {
	switch lhs := target.(type) {
	case *ast.Variable:
		name := "$" + lhs.Name
		ctx.RemoveClausesAbout(name)
		ctx.SetLocal(name, t)
		ctx.AssignedVarIDs[name] = true
	case *ast.TupleLiteral:
		for i, el := range lhs.Elements {
			var elemType types.Union
			if atoms := t.Atomics(); len(atoms) > 0 {
				if item, ok := atoms[0].(types.TVec); ok && item.KnownItems != nil {
					if known, ok := item.KnownItems[i]; ok {
						elemType = known.Type
					}
				}
			}
			if elemType.Len() == 0 {
				elemType = types.Single(types.TMixed{})
			}
			a.bindTarget(ctx, el, elemType)
		}
	case *ast.PropertyFetchExpr:
		if key, ok := exprKey(lhs); ok {
			ctx.RemoveClausesAbout(string(key))
		}
		node := dataflow.Node{ID: a.freshNodeID("assign-prop"), Kind: dataflow.KindAssignment, Label: lhs.Property}
		a.Graph.AddNode(node)
		for parent := range t.ParentNodes {
			a.Graph.AddEdge(parent, node.ID, dataflow.Path{
				Kind: dataflow.PathExpressionAssignment, ExprKind: dataflow.ExprKindProperty, Label: lhs.Property,
			})
		}
	case *ast.ArrayFetchExpr:
		if key, ok := exprKey(lhs); ok {
			ctx.RemoveClausesAbout(string(key))
		}
		node := dataflow.Node{ID: a.freshNodeID("assign-elem"), Kind: dataflow.KindAssignment}
		a.Graph.AddNode(node)
		kind, literal := arrayDataKindOf(lhs.Key)
		for parent := range t.ParentNodes {
			a.Graph.AddEdge(parent, node.ID, dataflow.Path{
				Kind: dataflow.PathArrayAssignment, ArrayDataKind: kind, Literal: literal,
			})
		}
	}
}

func arrayDataKindOf(key ast.Expr) (dataflow.ArrayDataKind, string) {
	if dk, ok := dictKeyOf(key); ok {
		return dataflow.ArrayValue, dk.String()
	}
	return dataflow.ArrayValue, ""
}

func exprLabel(e ast.Expr) string {
	if key, ok := exprKey(e); ok {
		return string(key)
	}
	return fmt.Sprintf("%T", e)
}
