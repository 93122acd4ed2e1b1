package driver

import "github.com/hakanago/hakana/internal/config"

// HookRunner dispatches to every configured config.AnalysisHook in
// registration order (spec §6 "hooks: [AnalysisHook] ... invoked at a fixed
// set of extension points"). It is deliberately dumb: hooks run
// synchronously on the calling goroutine. The pipeline dispatches only
// HookAfterPopulate, on the single-threaded populate step; nothing in the
// module runs HookAfterExpr or HookAfterArg.
type HookRunner struct {
	hooks []config.AnalysisHook
}

func NewHookRunner(hooks []config.AnalysisHook) *HookRunner {
	return &HookRunner{hooks: hooks}
}

// Run invokes every registered hook at point with ctx, the point-specific
// payload documented on config.AnalysisHook (e.g. *codebase.Codebase for
// HookAfterPopulate).
func (r *HookRunner) Run(point config.HookPoint, ctx any) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		h.OnEvent(point, ctx)
	}
}
