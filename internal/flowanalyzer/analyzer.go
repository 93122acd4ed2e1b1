package flowanalyzer

import (
	"fmt"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/dataflow"
	"github.com/hakanago/hakana/internal/formula"
	"github.com/hakanago/hakana/internal/interner"
	"github.com/hakanago/hakana/internal/types"
)

// ExprSpan identifies one expression's source range, the key
// analysis_data.expr_types is stored under (spec §4.6 "Entry point").
type ExprSpan struct {
	Start int
	End   int
}

// Analyzer holds everything one function body's analysis needs: the
// symbol graph, the comparator/reconciler built over it, the ids table,
// and the dataflow graph and issues this run accumulates.
type Analyzer struct {
	CB         *codebase.Codebase
	Cmp        *comparator.Comparator
	Reconciler *formula.Reconciler
	Ids        *interner.Handle

	Graph   *dataflow.Graph
	Issues  *IssueCollector
	File    string

	ExprTypes map[ExprSpan]types.Union

	nextConditionalID int
	nextNodeID        int
}

// NewAnalyzer builds an Analyzer over a shared codebase/comparator for one
// file's worth of function analyses.
func NewAnalyzer(cb *codebase.Codebase, cmp *comparator.Comparator, ids *interner.Handle, file string) *Analyzer {
	return &Analyzer{
		CB:         cb,
		Cmp:        cmp,
		Reconciler: formula.NewReconciler(cmp),
		Ids:        ids,
		Graph:      dataflow.NewGraph(),
		Issues:     NewIssueCollector(),
		File:       file,
		ExprTypes:  map[ExprSpan]types.Union{},
	}
}

func (a *Analyzer) freshNodeID(label string) dataflow.NodeID {
	a.nextNodeID++
	return dataflow.NodeID(fmt.Sprintf("%s#%d", label, a.nextNodeID))
}

func (a *Analyzer) freshConditionalID() int {
	a.nextConditionalID++
	return a.nextConditionalID
}

func toPos(p ast.Pos) Pos { return Pos{Offset: p.Offset, Line: p.Line} }

func toDataflowPos(p ast.Pos) dataflow.Pos { return dataflow.Pos{Offset: p.Offset, Line: p.Line} }

// AnalyzeFunction is spec §4.6's entry point: analyzes fn's body statement
// by statement in a fresh block context seeded with its declared parameter
// types, and returns the context at the function's exit (callers that need
// the return type narrow it themselves from ExprTypes on the ReturnStmts).
func (a *Analyzer) AnalyzeFunction(fn *codebase.FunctionlikeInfo, body *ast.Block) *Ctx {
	if fn.Key.Class != interner.Empty {
		a.CB.SetStaticClassContext(fn.Key.Class)
		defer a.CB.ClearStaticClassContext()
	}

	ctx := NewCtx(fn.Key.Member)
	for _, p := range fn.Params {
		name := "$" + lookupName(a.Ids, p.Name)
		t := p.Type
		if p.IsOptional {
			t.PossiblyUndefined = false // a declared default always satisfies the param
		}
		ctx.SetLocal(name, t)
	}
	if body != nil {
		a.analyzeStmts(ctx, body.Statements)
	}
	return ctx
}

func lookupName(ids *interner.Handle, id interner.Id) string {
	return ids.Lookup(id)
}
