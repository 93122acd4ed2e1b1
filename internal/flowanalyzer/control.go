package flowanalyzer

import "github.com/hakanago/hakana/internal/ast"

// ControlAction is one way a statement sequence can transfer control out of
// its enclosing block (spec §4.6 "control_analyzer::get_control_actions").
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionReturn
	ActionEnd // throw
	ActionBreak
	ActionContinue
	ActionLeaveSwitch
	ActionBreakImmediateLoop
)

// GetControlActions computes the set of ways stmts can end control flow,
// used to drive loop termination and dead-code detection (spec §4.6).
// A break is classified by its own level alone: `break` (level 1) reports
// ActionBreakImmediateLoop and `break 2` or higher reports ActionBreak. The
// loopDepth/switchDepth counters are threaded through nested bodies but do
// not affect the result.
func GetControlActions(stmts []ast.Stmt) map[ControlAction]bool {
	return getControlActions(stmts, 0, 0)
}

func getControlActions(stmts []ast.Stmt, loopDepth, switchDepth int) map[ControlAction]bool {
	actions := map[ControlAction]bool{}
	for i, stmt := range stmts {
		isLast := i == len(stmts)-1
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			actions[ActionReturn] = true
			return actions
		case *ast.ThrowStmt:
			actions[ActionEnd] = true
			return actions
		case *ast.BreakStmt:
			level := s.Level
			if level <= 0 {
				level = 1
			}
			if level == 1 {
				actions[ActionBreakImmediateLoop] = true
			} else {
				actions[ActionBreak] = true
			}
			return actions
		case *ast.ContinueStmt:
			actions[ActionContinue] = true
			return actions
		case *ast.IfStmt:
			thenActions := getControlActions(s.Then.Statements, loopDepth, switchDepth)
			if s.Else == nil {
				if !isLast {
					continue
				}
				mergeActions(actions, thenActions)
				actions[ActionNone] = true
				return actions
			}
			var elseActions map[ControlAction]bool
			switch e := s.Else.(type) {
			case *ast.Block:
				elseActions = getControlActions(e.Statements, loopDepth, switchDepth)
			case ast.Stmt:
				elseActions = getControlActions([]ast.Stmt{e}, loopDepth, switchDepth)
			}
			if bothAlwaysEnd(thenActions) && bothAlwaysEnd(elseActions) {
				mergeActions(actions, thenActions)
				mergeActions(actions, elseActions)
				return actions
			}
			if !isLast {
				continue
			}
			mergeActions(actions, thenActions)
			mergeActions(actions, elseActions)
			actions[ActionNone] = true
			return actions
		case *ast.WhileStmt:
			body := getControlActions(s.Body.Statements, loopDepth+1, switchDepth)
			if alwaysTruthyCond(s.Cond) && onlyEndsOrReturns(body) {
				// An infinite loop whose body only ends/returns never falls
				// through (spec §4.6 "empty fell-through set").
				mergeActions(actions, body)
				return actions
			}
		case *ast.ForStmt:
			_ = getControlActions(s.Body.Statements, loopDepth+1, switchDepth)
		case *ast.ForeachStmt:
			_ = getControlActions(s.Body.Statements, loopDepth+1, switchDepth)
		case *ast.SwitchStmt:
			allEnd := true
			for _, c := range s.Cases {
				caseActions := getControlActions(c.Body, loopDepth, switchDepth+1)
				if !caseActions[ActionReturn] && !caseActions[ActionEnd] &&
					!caseActions[ActionBreakImmediateLoop] && !caseActions[ActionLeaveSwitch] {
					allEnd = false
				}
			}
			if allEnd && !isLast {
				continue
			}
		case *ast.TryStmt:
			_ = getControlActions(s.Body.Statements, loopDepth, switchDepth)
		}
	}
	actions[ActionNone] = true
	return actions
}

func mergeActions(dst, src map[ControlAction]bool) {
	for k := range src {
		dst[k] = true
	}
}

func bothAlwaysEnd(actions map[ControlAction]bool) bool {
	return !actions[ActionNone]
}

func onlyEndsOrReturns(actions map[ControlAction]bool) bool {
	for a := range actions {
		switch a {
		case ActionReturn, ActionEnd:
			continue
		default:
			return false
		}
	}
	return len(actions) > 0
}

// alwaysTruthyCond recognizes the common spellings of an infinite loop
// condition (`true`, `1`, or no condition at all as in `for(;;)`).
func alwaysTruthyCond(cond ast.Expr) bool {
	switch c := cond.(type) {
	case nil:
		return true
	case *ast.BoolLiteral:
		return c.Value
	case *ast.IntLiteral:
		return c.Value != 0
	default:
		return false
	}
}
