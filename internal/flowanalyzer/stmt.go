package flowanalyzer

import (
	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/types"
)

func (a *Analyzer) analyzeStmts(ctx *Ctx, stmts []ast.Stmt) {
	for _, s := range stmts {
		if ctx.HasReturned {
			a.Issues.Emit(IssueUnevaluatedCode, toPos(s.Start()), "unreachable statement after an unconditional return")
		}
		a.analyzeStmt(ctx, s)
	}
}

func (a *Analyzer) analyzeStmt(ctx *Ctx, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		a.analyzeExpr(ctx, s.X)
	case *ast.Block:
		a.analyzeStmts(ctx, s.Statements)
	case *ast.UnsetStmt:
		a.analyzeUnset(ctx, s)
	case *ast.IfStmt:
		a.analyzeIf(ctx, s)
	case *ast.WhileStmt:
		a.analyzeWhile(ctx, s)
	case *ast.ForStmt:
		a.analyzeFor(ctx, s)
	case *ast.ForeachStmt:
		a.analyzeForeach(ctx, s)
	case *ast.SwitchStmt:
		a.analyzeSwitch(ctx, s)
	case *ast.TryStmt:
		a.analyzeTry(ctx, s)
	case *ast.ReturnStmt:
		a.analyzeReturn(ctx, s)
	case *ast.BreakStmt:
		ctx.ControlActions[ActionBreak] = true
	case *ast.ContinueStmt:
		ctx.ControlActions[ActionContinue] = true
	case *ast.ThrowStmt:
		a.analyzeExpr(ctx, s.Value)
		ctx.HasReturned = true
		ctx.ControlActions[ActionEnd] = true
	case *ast.InvariantStmt:
		a.analyzeInvariant(ctx, s)
	}
}

func (a *Analyzer) analyzeUnset(ctx *Ctx, s *ast.UnsetStmt) {
	ctx.InsideUnset = true
	for _, target := range s.Targets {
		if v, ok := target.(*ast.Variable); ok {
			name := "$" + v.Name
			delete(ctx.Locals, name)
			ctx.RemoveClausesAbout(name)
		} else {
			a.analyzeExpr(ctx, target)
		}
	}
	ctx.InsideUnset = false
}

// analyzeReturn computes the returned value's type and records it, then
// marks the context as having returned so GetControlActions-style dead
// code checks upstream see no further statements execute.
func (a *Analyzer) analyzeReturn(ctx *Ctx, s *ast.ReturnStmt) {
	if s.Value != nil {
		a.analyzeExpr(ctx, s.Value)
	}
	ctx.HasReturned = true
	ctx.ControlActions[ActionReturn] = true
}

// analyzeIf implements spec §4.6's branching algorithm: build a formula
// for C, narrow each branch context by it (and its negation), analyze each
// body under its narrowed context, then join.
func (a *Analyzer) analyzeIf(ctx *Ctx, s *ast.IfStmt) {
	condID := a.freshConditionalID()
	a.analyzeExpr(ctx, s.Cond)
	posClauses := a.BuildFormula(s.Cond, condID)
	negClauses, negErr := formulaNegate(posClauses)

	thenCtx := ctx.Fork()
	thenCtx.Clauses = append(thenCtx.Clauses, posClauses...)
	a.applyTruths(thenCtx, posClauses, condID, s.Cond.Start())
	a.analyzeStmts(thenCtx, s.Then.Statements)

	elseCtx := ctx.Fork()
	if negErr == nil {
		elseCtx.Clauses = append(elseCtx.Clauses, negClauses...)
		a.applyTruths(elseCtx, negClauses, condID, s.Cond.Start())
	}
	switch e := s.Else.(type) {
	case *ast.Block:
		a.analyzeStmts(elseCtx, e.Statements)
	case *ast.IfStmt:
		a.analyzeStmt(elseCtx, e)
	}

	a.joinBranches(ctx, thenCtx, elseCtx)
}

func formulaNegate(clauses []*formulaClause) ([]*formulaClause, error) {
	return negateClauses(clauses)
}

// applyTruths narrows ctx's locals by every single-possibility assertion
// the branch's formula entails (spec §4.5 "get_truths_from_formula" applied
// to "narrow the A-branch context").
func (a *Analyzer) applyTruths(ctx *Ctx, clauses []*formulaClause, condID int, pos ast.Pos) {
	truths := truthsFromFormula(clauses, condID)
	for key, asserts := range truths {
		name := string(key)
		cur, ok := ctx.Locals[name]
		if !ok {
			continue
		}
		for _, assertion := range asserts {
			result := reconcile(a.Reconciler, assertion, cur)
			if result.Impossible {
				a.Issues.Emit(IssueParadoxicalCondition, toPos(pos), "condition narrows "+name+" to an impossible type")
			}
			cur = result.Type
		}
		ctx.SetLocal(name, cur)
	}
}

// joinBranches merges two forked contexts back into parent after an
// if/else, combining each local's type across both arms (spec §4.6 rule 4).
func (a *Analyzer) joinBranches(parent, left, right *Ctx) {
	seen := map[string]bool{}
	for _, name := range append(append([]string(nil), left.LocalOrder...), right.LocalOrder...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		lt, lok := left.Locals[name]
		rt, rok := right.Locals[name]
		switch {
		case lok && rok:
			joined := a.Cmp.CombineUnions(lt, rt, comparator.CombineOptions{})
			parent.SetLocal(name, joined)
		case lok && !rok:
			// Removed by the other branch (e.g. unset): drop it overall
			// per spec §4.6 rule 4 ("any variable the B-branch removed is
			// removed overall").
			delete(parent.Locals, name)
		case rok && !lok:
			delete(parent.Locals, name)
		}
	}
	parent.HasReturned = left.HasReturned && right.HasReturned
}

// analyzeWhile implements spec §4.6's two-pass loop analysis: first with
// the post-loop context tied to entry (to detect stabilization), then with
// widened bindings so variables assigned in the loop carry the joined type
// on exit. Loop-local clause narrowing never survives past the loop.
func (a *Analyzer) analyzeWhile(ctx *Ctx, s *ast.WhileStmt) {
	a.analyzeExpr(ctx, s.Cond)
	condID := a.freshConditionalID()
	posClauses := a.BuildFormula(s.Cond, condID)

	probe := ctx.Fork()
	probe.InsideLoop = true
	probe.Clauses = append(probe.Clauses, posClauses...)
	a.applyTruths(probe, posClauses, condID, s.Cond.Start())
	a.analyzeStmts(probe, s.Body.Statements)

	widened := ctx.Fork()
	for name, t := range probe.Locals {
		if orig, ok := widened.Locals[name]; ok {
			widened.SetLocal(name, a.Cmp.CombineUnions(orig, t, comparator.CombineOptions{}))
		} else {
			widened.SetLocal(name, t)
		}
	}
	widened.InsideLoop = true
	widened.Clauses = append(widened.Clauses, posClauses...)
	a.applyTruths(widened, posClauses, condID, s.Cond.Start())
	a.analyzeStmts(widened, s.Body.Statements)

	for name, t := range widened.Locals {
		if orig, ok := ctx.Locals[name]; ok {
			ctx.SetLocal(name, a.Cmp.CombineUnions(orig, t, comparator.CombineOptions{}))
		} else {
			ctx.SetLocal(name, t)
		}
	}
	ctx.Clauses = append(ctx.Clauses, negateOrEmpty(posClauses)...)
}

func (a *Analyzer) analyzeFor(ctx *Ctx, s *ast.ForStmt) {
	for _, init := range s.Init {
		a.analyzeExpr(ctx, init)
	}
	body := ctx.Fork()
	body.InsideLoop = true
	if s.Cond != nil {
		a.analyzeExpr(body, s.Cond)
	}
	a.analyzeStmts(body, s.Body.Statements)
	for _, step := range s.Step {
		a.analyzeExpr(body, step)
	}
	for name, t := range body.Locals {
		if orig, ok := ctx.Locals[name]; ok {
			ctx.SetLocal(name, a.Cmp.CombineUnions(orig, t, comparator.CombineOptions{}))
		} else {
			ctx.SetLocal(name, t)
		}
	}
}

func (a *Analyzer) analyzeForeach(ctx *Ctx, s *ast.ForeachStmt) {
	containerType := a.analyzeExpr(ctx, s.Container)
	valueType := elementType(containerType)

	body := ctx.Fork()
	body.InsideLoop = true
	if s.KeyVar != "" {
		body.SetLocal("$"+s.KeyVar, types.Single(types.TArraykey{}))
	}
	body.SetLocal("$"+s.ValueVar, valueType)
	a.analyzeStmts(body, s.Body.Statements)

	for name, t := range body.Locals {
		if name == "$"+s.KeyVar || name == "$"+s.ValueVar {
			continue
		}
		if orig, ok := ctx.Locals[name]; ok {
			ctx.SetLocal(name, a.Cmp.CombineUnions(orig, t, comparator.CombineOptions{}))
		} else {
			ctx.SetLocal(name, t)
		}
	}
}

// elementType extracts a container union's value type parameter, the
// foreach loop variable's inferred type.
func elementType(container types.Union) types.Union {
	var out []types.Atomic
	for _, a := range container.Atomics() {
		switch t := a.(type) {
		case types.TVec:
			out = append(out, t.TypeParam.Atomics()...)
		case types.TDict:
			out = append(out, t.TypeParamValue.Atomics()...)
		case types.TKeyset:
			out = append(out, t.TypeParam.Atomics()...)
		}
	}
	if len(out) == 0 {
		return types.Single(types.TMixed{})
	}
	return types.FromAtomics(out...)
}

// analyzeSwitch analyzes each case's test expressions and body in code
// order, letting a case that does not break, return or throw fall through
// into the next case's entry context, and joins the exit contexts the way an
// if/else chain would (spec §4.6 "Switches & try/catch"). It derives no
// clauses from the case tests, so no case body is narrowed by its case.
func (a *Analyzer) analyzeSwitch(ctx *Ctx, s *ast.SwitchStmt) {
	a.analyzeExpr(ctx, s.Subject)

	var exits []*Ctx
	fallthroughCtx := ctx.Fork()
	for _, c := range s.Cases {
		caseCtx := fallthroughCtx.Fork()
		caseCtx.BreakTypes = append(caseCtx.BreakTypes, BreakSwitch)
		for _, test := range c.Tests {
			a.analyzeExpr(caseCtx, test)
		}
		a.analyzeStmts(caseCtx, c.Body)
		actions := GetControlActions(c.Body)
		if actions[ActionBreak] || actions[ActionBreakImmediateLoop] || actions[ActionReturn] || actions[ActionEnd] {
			exits = append(exits, caseCtx)
			fallthroughCtx = ctx.Fork()
		} else {
			fallthroughCtx = caseCtx
		}
	}
	exits = append(exits, fallthroughCtx)

	if len(exits) == 0 {
		return
	}
	joined := exits[0]
	for _, e := range exits[1:] {
		a.joinBranches(ctx, joined, e)
		joined = ctx
	}
	if len(exits) == 1 {
		for name, t := range exits[0].Locals {
			ctx.SetLocal(name, t)
		}
	}
}

// analyzeTry analyzes the try body, then each catch body with the
// parameter bound to the declared exception type (a simplification of
// spec's "union of types that could have reached the throw": this treats
// every catch as reachable from anywhere in the try body). The finally
// block, if present, is analyzed against the try-entry locals widened with
// whatever the try/catch bodies produced.
func (a *Analyzer) analyzeTry(ctx *Ctx, s *ast.TryStmt) {
	entry := ctx.Fork()
	tryCtx := ctx.Fork()
	a.analyzeStmts(tryCtx, s.Body.Statements)

	var arms []*Ctx
	arms = append(arms, tryCtx)
	for _, c := range s.Catches {
		catchCtx := entry.Fork()
		excType := types.Single(types.TNamedObject{})
		if len(c.ClassHints) > 0 {
			excType = a.resolveCatchHint(c.ClassHints)
		}
		catchCtx.SetLocal("$"+c.VarName, excType)
		a.analyzeStmts(catchCtx, c.Body.Statements)
		arms = append(arms, catchCtx)
	}

	joined := arms[0]
	for _, arm := range arms[1:] {
		a.joinBranches(ctx, joined, arm)
		joined = ctx
	}
	if len(arms) == 1 {
		for name, t := range arms[0].Locals {
			ctx.SetLocal(name, t)
		}
	}

	if s.Finally != nil {
		a.analyzeStmts(ctx, s.Finally.Statements)
	}
}

func (a *Analyzer) resolveCatchHint(hints []ast.TypeHint) types.Union {
	var atoms []types.Atomic
	for _, h := range hints {
		named, ok := h.(*ast.NamedTypeHint)
		if !ok {
			continue
		}
		atoms = append(atoms, types.TNamedObject{Name: a.Ids.Intern(named.Name)})
	}
	if len(atoms) == 0 {
		return types.Single(types.TNamedObject{})
	}
	return types.FromAtomics(atoms...)
}

// analyzeInvariant turns `invariant(cond)` into an assertion formula and
// applies it to the following code (spec §4.6 "invariant(cond) turns cond
// into an assertion formula and applies it to the following code").
func (a *Analyzer) analyzeInvariant(ctx *Ctx, s *ast.InvariantStmt) {
	a.analyzeExpr(ctx, s.Cond)
	if s.Message != nil {
		a.analyzeExpr(ctx, s.Message)
	}
	condID := a.freshConditionalID()
	clauses := a.BuildFormula(s.Cond, condID)
	ctx.Clauses = append(ctx.Clauses, clauses...)
	a.applyTruths(ctx, clauses, condID, s.Start())
}
