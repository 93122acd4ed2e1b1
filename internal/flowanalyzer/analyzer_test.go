package flowanalyzer

import (
	"testing"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

func newTestAnalyzer() (*Analyzer, *interner.Handle) {
	shared := interner.New()
	ids := interner.NewHandle(shared)
	cb := codebase.NewCodebase()
	cmp := comparator.New(cb)
	return NewAnalyzer(cb, cmp, ids, "test.hck"), ids
}

// a function returning its int parameter unchanged ends with HasReturned
// set and its parameter still bound as int in the exit context.
func TestAnalyzeFunction_SimpleReturn(t *testing.T) {
	a, ids := newTestAnalyzer()
	fn := &codebase.FunctionlikeInfo{
		Key: codebase.MemberKey{Member: ids.Intern("identity")},
		Params: []codebase.ParamInfo{
			{Name: ids.Intern("x"), Type: types.Single(types.TInt{})},
		},
		ReturnType: types.Single(types.TInt{}),
	}
	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Variable{Name: "x"}},
		},
	}

	ctx := a.AnalyzeFunction(fn, body)
	if !ctx.HasReturned {
		t.Fatalf("expected HasReturned after a bare return statement")
	}
	xt, ok := ctx.Locals["$x"]
	if !ok {
		t.Fatalf("expected $x to remain bound in the exit context")
	}
	if len(xt.Atomics()) != 1 {
		t.Fatalf("expected $x to carry exactly one atomic, got %d", len(xt.Atomics()))
	}
	if _, ok := xt.Atomics()[0].(types.TInt); !ok {
		t.Fatalf("expected $x's type to be int, got %T", xt.Atomics()[0])
	}
}

// if ($x === null) { $x = 0; } should join to a non-null int on both arms.
func TestAnalyzeFunction_NullNarrowingJoin(t *testing.T) {
	a, ids := newTestAnalyzer()
	fn := &codebase.FunctionlikeInfo{
		Key: codebase.MemberKey{Member: ids.Intern("fill")},
		Params: []codebase.ParamInfo{
			{Name: ids.Intern("x"), Type: types.FromAtomics(types.TInt{}, types.TNull{})},
		},
		ReturnType: types.Single(types.TInt{}),
	}
	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.IfStmt{
				Cond: &ast.BinaryExpr{
					Op:    ast.OpStrictEq,
					Left:  &ast.Variable{Name: "x"},
					Right: &ast.NullLiteral{},
				},
				Then: &ast.Block{Statements: []ast.Stmt{
					&ast.ExprStmt{X: &ast.AssignExpr{
						Op:     ast.AssignPlain,
						Target: &ast.Variable{Name: "x"},
						Value:  &ast.IntLiteral{Value: 0},
					}},
				}},
			},
		},
	}

	ctx := a.AnalyzeFunction(fn, body)
	xt, ok := ctx.Locals["$x"]
	if !ok {
		t.Fatalf("expected $x to remain bound after the if")
	}
	for _, at := range xt.Atomics() {
		if _, ok := at.(types.TNull); ok {
			t.Fatalf("expected null to be eliminated by the join, got %s", xt.String())
		}
	}
}

// unset($x) drops the local entirely.
func TestAnalyzeFunction_Unset(t *testing.T) {
	a, ids := newTestAnalyzer()
	fn := &codebase.FunctionlikeInfo{
		Key: codebase.MemberKey{Member: ids.Intern("drop")},
		Params: []codebase.ParamInfo{
			{Name: ids.Intern("x"), Type: types.Single(types.TInt{})},
		},
	}
	body := &ast.Block{
		Statements: []ast.Stmt{
			&ast.UnsetStmt{Targets: []ast.Expr{&ast.Variable{Name: "x"}}},
		},
	}
	ctx := a.AnalyzeFunction(fn, body)
	if _, ok := ctx.Locals["$x"]; ok {
		t.Fatalf("expected $x to be removed by unset")
	}
}

func TestGetControlActions_DeadCodeAfterReturn(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.ReturnStmt{},
		&ast.ExprStmt{X: &ast.IntLiteral{Value: 1}},
	}
	actions := GetControlActions(stmts)
	if !actions[ActionReturn] {
		t.Fatalf("expected ActionReturn")
	}
}
