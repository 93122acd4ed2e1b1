package flowanalyzer

import (
	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/dataflow"
	"github.com/hakanago/hakana/internal/types"
)

// analyzeExpr computes e's type under ctx, recording it into a.ExprTypes and
// threading dataflow edges as it goes (spec §4.6 "Entry point" / §4.7).
// Every case that can fail to resolve falls back to mixed rather than an
// error, matching the analyzer's general policy of keeping going after a
// diagnosable problem so the rest of the function still gets analyzed.
func (a *Analyzer) analyzeExpr(ctx *Ctx, e ast.Expr) types.Union {
	t := a.analyzeExprInner(ctx, e)
	a.ExprTypes[span(e)] = t
	return t
}

func span(e ast.Expr) ExprSpan {
	return ExprSpan{Start: e.Start().Offset, End: e.End().Offset}
}

func (a *Analyzer) analyzeExprInner(ctx *Ctx, e ast.Expr) types.Union {
	switch v := e.(type) {
	case *ast.Variable:
		name := "$" + v.Name
		if t, ok := ctx.Locals[name]; ok {
			return t
		}
		a.Issues.Emit(IssueNonExistentSymbol, toPos(v.Start()), "undefined variable "+name)
		return types.Single(types.TMixed{})
	case *ast.ThisExpr:
		if t, ok := ctx.Locals["$this"]; ok {
			return t
		}
		return types.Single(types.TNamedObject{IsThis: true})
	case *ast.IntLiteral:
		return types.Single(types.TLiteralInt{Value: v.Value})
	case *ast.FloatLiteral:
		return types.Single(types.TFloat{})
	case *ast.StringLiteral:
		return types.Single(types.TLiteralString{Value: v.Value})
	case *ast.BoolLiteral:
		return types.Single(types.TBool{})
	case *ast.NullLiteral:
		return types.Single(types.TNull{})
	case *ast.CollectionLiteral:
		return a.analyzeCollectionLiteral(ctx, v)
	case *ast.ShapeLiteral:
		return a.analyzeShapeLiteral(ctx, v)
	case *ast.TupleLiteral:
		return a.analyzeTupleLiteral(ctx, v)
	case *ast.BinaryExpr:
		return a.analyzeBinary(ctx, v)
	case *ast.UnaryExpr:
		return a.analyzeUnary(ctx, v)
	case *ast.TernaryExpr:
		return a.analyzeTernary(ctx, v)
	case *ast.AssignExpr:
		return a.analyzeAssign(ctx, v)
	case *ast.CallExpr:
		return a.analyzeCall(ctx, v)
	case *ast.NameExpr:
		return types.Single(types.TMixed{})
	case *ast.MethodCallExpr:
		return a.analyzeMethodCall(ctx, v)
	case *ast.PropertyFetchExpr:
		return a.analyzePropertyFetch(ctx, v)
	case *ast.ArrayFetchExpr:
		return a.analyzeArrayFetch(ctx, v)
	case *ast.ClassConstFetchExpr:
		return a.analyzeClassConstFetch(ctx, v)
	case *ast.NewExpr:
		return a.analyzeNew(ctx, v)
	case *ast.ClosureExpr:
		return a.analyzeClosure(ctx, v)
	case *ast.CastExpr:
		return a.analyzeCast(ctx, v)
	case *ast.IssetExpr:
		for _, target := range v.Targets {
			ctx.InsideIsset = true
			a.analyzeExpr(ctx, target)
			ctx.InsideIsset = false
		}
		return types.Single(types.TBool{})
	case *ast.AwaitExpr:
		inner := a.analyzeExpr(ctx, v.Operand)
		return unwrapAwaitable(inner)
	}
	return types.Single(types.TMixed{})
}

func (a *Analyzer) analyzeCollectionLiteral(ctx *Ctx, v *ast.CollectionLiteral) types.Union {
	switch v.Kind {
	case ast.CollectionVec:
		items := map[int]types.KnownItem{}
		var all []types.Atomic
		for i, entry := range v.Entries {
			t := a.analyzeExpr(ctx, entry.Value)
			items[i] = types.KnownItem{Type: t}
			all = append(all, t.Atomics()...)
		}
		elem := types.Union{}
		if len(all) > 0 {
			elem = types.FromAtomics(all...)
		}
		count := len(v.Entries)
		return types.Single(types.TVec{TypeParam: elem, KnownItems: items, KnownCount: &count, NonEmpty: count > 0})
	case ast.CollectionKeyset:
		var all []types.Atomic
		for _, entry := range v.Entries {
			t := a.analyzeExpr(ctx, entry.Value)
			all = append(all, t.Atomics()...)
		}
		elem := types.Single(types.TArraykey{})
		if len(all) > 0 {
			elem = types.FromAtomics(all...)
		}
		return types.Single(types.TKeyset{TypeParam: elem})
	default: // dict
		items := map[types.DictKey]types.KnownItem{}
		var keyAtoms, valAtoms []types.Atomic
		for _, entry := range v.Entries {
			vt := a.analyzeExpr(ctx, entry.Value)
			valAtoms = append(valAtoms, vt.Atomics()...)
			if entry.Key == nil {
				continue
			}
			kt := a.analyzeExpr(ctx, entry.Key)
			keyAtoms = append(keyAtoms, kt.Atomics()...)
			if dk, ok := dictKeyOf(entry.Key); ok {
				items[dk] = types.KnownItem{Type: vt}
			}
		}
		keyUnion := types.Single(types.TArraykey{})
		if len(keyAtoms) > 0 {
			keyUnion = types.FromAtomics(keyAtoms...)
		}
		valUnion := types.Union{}
		if len(valAtoms) > 0 {
			valUnion = types.FromAtomics(valAtoms...)
		}
		return types.Single(types.TDict{TypeParamKey: keyUnion, TypeParamValue: valUnion, KnownItems: items, NonEmpty: len(v.Entries) > 0})
	}
}

func dictKeyOf(e ast.Expr) (types.DictKey, bool) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return types.DictKey{IntKey: v.Value, Kind: types.DictKeyInt}, true
	case *ast.StringLiteral:
		return types.DictKey{StrKey: v.Value, Kind: types.DictKeyString}, true
	}
	return types.DictKey{}, false
}

func (a *Analyzer) analyzeShapeLiteral(ctx *Ctx, v *ast.ShapeLiteral) types.Union {
	items := map[types.DictKey]types.KnownItem{}
	for _, f := range v.Fields {
		t := a.analyzeExpr(ctx, f.Value)
		items[types.DictKey{StrKey: f.Name, Kind: types.DictKeyString}] = types.KnownItem{Type: t}
	}
	return types.Single(types.TDict{
		TypeParamKey:   types.Single(types.TArraykey{}),
		TypeParamValue: types.Union{},
		KnownItems:     items,
		NonEmpty:       len(v.Fields) > 0,
	})
}

func (a *Analyzer) analyzeTupleLiteral(ctx *Ctx, v *ast.TupleLiteral) types.Union {
	items := map[int]types.KnownItem{}
	var all []types.Atomic
	for i, el := range v.Elements {
		t := a.analyzeExpr(ctx, el)
		items[i] = types.KnownItem{Type: t}
		all = append(all, t.Atomics()...)
	}
	count := len(v.Elements)
	elem := types.Union{}
	if len(all) > 0 {
		elem = types.FromAtomics(all...)
	}
	return types.Single(types.TVec{TypeParam: elem, KnownItems: items, KnownCount: &count, NonEmpty: count > 0})
}

func (a *Analyzer) analyzeBinary(ctx *Ctx, v *ast.BinaryExpr) types.Union {
	left := a.analyzeExpr(ctx, v.Left)
	right := a.analyzeExpr(ctx, v.Right)
	switch v.Op {
	case ast.OpAnd, ast.OpOr:
		return types.Single(types.TBool{})
	case ast.OpEq, ast.OpNotEq, ast.OpStrictEq, ast.OpStrictNotEq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return types.Single(types.TBool{})
	case ast.OpConcat:
		return types.Single(types.TString{})
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if isFloatish(left) || isFloatish(right) {
			return types.Single(types.TFloat{})
		}
		return types.Single(types.TInt{})
	default:
		return types.Single(types.TMixed{})
	}
}

func isFloatish(u types.Union) bool {
	for _, at := range u.Atomics() {
		if _, ok := at.(types.TFloat); ok {
			return true
		}
	}
	return false
}

func (a *Analyzer) analyzeUnary(ctx *Ctx, v *ast.UnaryExpr) types.Union {
	t := a.analyzeExpr(ctx, v.Operand)
	switch v.Op {
	case ast.OpNot:
		return types.Single(types.TBool{})
	case ast.OpNeg:
		return t
	default:
		return t
	}
}

// analyzeTernary folds the condition's branch narrowing into the two value
// arms the same way an if/else would (spec §4.6 "ternary is sugar for
// if/else applied to an expression").
func (a *Analyzer) analyzeTernary(ctx *Ctx, v *ast.TernaryExpr) types.Union {
	a.analyzeExpr(ctx, v.Cond)
	condID := a.freshConditionalID()
	posClauses := a.BuildFormula(v.Cond, condID)

	thenCtx := ctx.Fork()
	thenCtx.Clauses = append(thenCtx.Clauses, posClauses...)
	a.applyTruths(thenCtx, posClauses, condID, v.Cond.Start())

	elseCtx := ctx.Fork()
	negClauses, err := negateClauses(posClauses)
	if err == nil {
		elseCtx.Clauses = append(elseCtx.Clauses, negClauses...)
		a.applyTruths(elseCtx, negClauses, condID, v.Cond.Start())
	}

	var thenType types.Union
	if v.Then != nil {
		thenType = a.analyzeExpr(thenCtx, v.Then)
	} else {
		thenType = a.analyzeExpr(thenCtx, v.Cond)
	}
	elseType := a.analyzeExpr(elseCtx, v.Else)
	a.joinBranches(ctx, thenCtx, elseCtx)
	return a.Cmp.CombineUnions(thenType, elseType, comparator.CombineOptions{})
}

func (a *Analyzer) analyzeClassConstFetch(ctx *Ctx, v *ast.ClassConstFetchExpr) types.Union {
	named, ok := v.ClassHint.(*ast.NamedTypeHint)
	if !ok {
		return types.Single(types.TMixed{})
	}
	classID := a.Ids.Intern(named.Name)
	if v.Const == "class" {
		return types.Single(types.TLiteralClassname{Name: classID})
	}
	ci, ok := a.CB.Classlike(classID)
	if !ok {
		return types.Single(types.TMixed{})
	}
	constID := a.Ids.Intern(v.Const)
	if t, ok := ci.Constants[constID]; ok {
		return t
	}
	return types.Single(types.TMixed{})
}

func (a *Analyzer) analyzeNew(ctx *Ctx, v *ast.NewExpr) types.Union {
	for _, arg := range v.Args {
		a.analyzeExpr(ctx, arg)
	}
	named, ok := v.ClassHint.(*ast.NamedTypeHint)
	if !ok {
		return types.Single(types.TMixed{})
	}
	classID := a.Ids.Intern(named.Name)
	var typeParams []types.Union
	for _, tp := range v.TypeArgs {
		typeParams = append(typeParams, codebase.ResolveTypeHint(tp, a.Ids))
	}
	return types.Single(types.TNamedObject{Name: classID, TypeParams: typeParams})
}

func (a *Analyzer) analyzeClosure(ctx *Ctx, v *ast.ClosureExpr) types.Union {
	closureCtx := ctx.Fork()
	var params []types.Param
	for _, p := range v.Params {
		t := codebase.ResolveTypeHint(p.TypeHint, a.Ids)
		closureCtx.SetLocal("$"+p.Name, t)
		params = append(params, types.Param{Name: p.Name, Type: t, IsOptional: p.Default != nil, IsVariadic: p.IsVariadic, IsByRef: p.IsByRef})
	}
	for _, use := range v.Uses {
		name := "$" + use
		if t, ok := ctx.Locals[name]; ok {
			closureCtx.SetLocal(name, t)
		}
	}
	closureCtx.InsideAsync = v.IsAsync
	if v.Body != nil {
		a.analyzeStmts(closureCtx, v.Body.Statements)
	}
	ret := codebase.ResolveTypeHint(v.ReturnHint, a.Ids)
	return types.Single(types.TClosure{Params: params, ReturnType: &ret})
}

func (a *Analyzer) analyzeCast(ctx *Ctx, v *ast.CastExpr) types.Union {
	operand := a.analyzeExpr(ctx, v.Operand)
	switch v.Kind {
	case ast.CastIs:
		return types.Single(types.TBool{})
	case ast.CastAs, ast.CastNullableAs:
		return codebase.ResolveTypeHint(v.TypeHint, a.Ids)
	default:
		return operand
	}
}

// analyzePropertyFetch returns the declared type of the property on the
// first named-object atomic of the target whose class declares it, or mixed
// when none does. It records no dataflow edge for the fetch and emits no
// issue for an undeclared property.
func (a *Analyzer) analyzePropertyFetch(ctx *Ctx, v *ast.PropertyFetchExpr) types.Union {
	targetType := a.analyzeExpr(ctx, v.Target)
	for _, at := range targetType.Atomics() {
		obj, ok := at.(types.TNamedObject)
		if !ok {
			continue
		}
		ci, ok := a.CB.Classlike(obj.Name)
		if !ok {
			continue
		}
		propID := a.Ids.Intern(v.Property)
		if t, ok := ci.Properties[propID]; ok {
			return t
		}
	}
	return types.Single(types.TMixed{})
}

func (a *Analyzer) analyzeArrayFetch(ctx *Ctx, v *ast.ArrayFetchExpr) types.Union {
	targetType := a.analyzeExpr(ctx, v.Target)
	if v.Key != nil {
		a.analyzeExpr(ctx, v.Key)
	}
	var out []types.Atomic
	for _, at := range targetType.Atomics() {
		switch t := at.(type) {
		case types.TVec:
			if idx, ok := v.Key.(*ast.IntLiteral); ok && t.KnownItems != nil {
				if item, ok := t.KnownItems[int(idx.Value)]; ok {
					out = append(out, item.Type.Atomics()...)
					continue
				}
			}
			out = append(out, t.TypeParam.Atomics()...)
		case types.TDict:
			if dk, ok := dictKeyOf(v.Key); ok && t.KnownItems != nil {
				if item, ok := t.KnownItems[dk]; ok {
					out = append(out, item.Type.Atomics()...)
					continue
				}
			}
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

// analyzeCall resolves a free-function call, checks its argument count and
// instantiates the callee's return type from the argument types. It records
// no argument-to-parameter dataflow edges.
func (a *Analyzer) analyzeCall(ctx *Ctx, v *ast.CallExpr) types.Union {
	var argTypes []types.Union
	for _, arg := range v.Args {
		argTypes = append(argTypes, a.analyzeExpr(ctx, arg))
	}
	name, ok := v.Callee.(*ast.NameExpr)
	if !ok {
		return types.Single(types.TMixed{})
	}
	fnID := a.Ids.Intern(name.Name)
	fn, ok := a.CB.Functionlike(codebase.MemberKey{Member: fnID})
	if !ok {
		a.Issues.Emit(IssueNonExistentSymbol, toPos(v.Start()), "call to undefined function "+name.Name)
		return types.Single(types.TMixed{})
	}
	a.checkArgCount(v, fn, len(v.Args))
	return a.instantiateReturn(fn, argTypes)
}

func (a *Analyzer) analyzeMethodCall(ctx *Ctx, v *ast.MethodCallExpr) types.Union {
	targetType := a.analyzeExpr(ctx, v.Target)
	var argTypes []types.Union
	for _, arg := range v.Args {
		argTypes = append(argTypes, a.analyzeExpr(ctx, arg))
	}
	memberID := a.Ids.Intern(v.Method)
	var out []types.Atomic
	for _, at := range targetType.Atomics() {
		obj, ok := at.(types.TNamedObject)
		if !ok {
			continue
		}
		fn, ok := a.CB.ResolveMethod(obj.Name, memberID)
		if !ok {
			a.Issues.Emit(IssueNonExistentMethod, toPos(v.Start()), "call to undefined method "+v.Method)
			continue
		}
		a.checkArgCount(v, fn, len(v.Args))
		ret := a.instantiateReturn(fn, argTypes)
		out = append(out, ret.Atomics()...)
	}
	if len(out) == 0 {
		return types.Single(types.TMixed{})
	}
	return types.FromAtomics(out...)
}

func (a *Analyzer) checkArgCount(call ast.Expr, fn *codebase.FunctionlikeInfo, argc int) {
	required := 0
	for _, p := range fn.Params {
		if !p.IsOptional && !p.IsVariadic {
			required++
		}
	}
	if argc < required {
		a.Issues.Emit(IssueTooFewArguments, toPos(call.Start()), "too few arguments")
	}
	variadic := len(fn.Params) > 0 && fn.Params[len(fn.Params)-1].IsVariadic
	if !variadic && argc > len(fn.Params) {
		a.Issues.Emit(IssueTooManyArguments, toPos(call.Start()), "too many arguments")
	}
}

// instantiateReturn expands fn's return type under a template substitution
// inferred from the supplied argument types (spec §4.6 "Calls: inferred
// generic template params substitute into the declared return type").
func (a *Analyzer) instantiateReturn(fn *codebase.FunctionlikeInfo, argTypes []types.Union) types.Union {
	result := types.NewTemplateResult()
	bound := false
	for i, p := range fn.Params {
		if i >= len(argTypes) {
			break
		}
		if inferTemplateBindings(p.Type, argTypes[i], result.LowerBounds) {
			bound = true
		}
	}
	if !bound {
		return fn.ReturnType
	}
	return types.ReplaceTemplates(fn.ReturnType, result)
}

// inferTemplateBindings walks declared against actual, recording a binding
// the first time a template parameter atomic is matched (spec §4.4 "generic
// inference from argument types"). Reports whether it bound anything.
func inferTemplateBindings(declared, actual types.Union, out map[types.TemplateKey]types.Union) bool {
	bound := false
	for _, at := range declared.Atomics() {
		tp, ok := at.(types.TTemplateParam)
		if !ok {
			continue
		}
		key := types.TemplateKey{Name: tp.Name, DefiningEntity: tp.DefiningEntity}
		if _, seen := out[key]; !seen {
			out[key] = actual
			bound = true
		}
	}
	return bound
}

func unwrapAwaitable(u types.Union) types.Union {
	var out []types.Atomic
	for _, at := range u.Atomics() {
		if obj, ok := at.(types.TNamedObject); ok && len(obj.TypeParams) > 0 {
			out = append(out, obj.TypeParams[0].Atomics()...)
			continue
		}
		out = append(out, at)
	}
	if len(out) == 0 {
		return types.Single(types.TMixed{})
	}
	return types.FromAtomics(out...)
}

// recordFetchEdge records an ExpressionFetch dataflow edge from a source
// node into an expression fetch (spec §4.7). Nothing in this package calls
// it: property and array fetches record no dataflow edges.
func (a *Analyzer) recordFetchEdge(from, to dataflow.NodeID, kind dataflow.ExprKind, label string) {
	a.Graph.AddEdge(from, to, dataflow.Path{Kind: dataflow.PathExpressionFetch, ExprKind: kind, Label: label})
}
