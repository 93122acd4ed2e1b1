package driver

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/hakanago/hakana/internal/flowanalyzer"
)

// issueKindLabels names every flowanalyzer.IssueKind for report output.
// Kept here rather than on IssueKind itself so the flowanalyzer package
// stays free of any formatting concern.
var issueKindLabels = map[flowanalyzer.IssueKind]string{
	flowanalyzer.IssueParadoxicalCondition:         "ParadoxicalCondition",
	flowanalyzer.IssueRedundantCondition:           "RedundantCondition",
	flowanalyzer.IssueInvalidArgument:              "InvalidArgument",
	flowanalyzer.IssueTooFewArguments:              "TooFewArguments",
	flowanalyzer.IssueTooManyArguments:             "TooManyArguments",
	flowanalyzer.IssueMixedAnyPropagation:          "MixedAnyPropagation",
	flowanalyzer.IssueUnusedAssignment:             "UnusedAssignment",
	flowanalyzer.IssueUnusedExpression:             "UnusedExpression",
	flowanalyzer.IssueNonExistentSymbol:            "NonExistentSymbol",
	flowanalyzer.IssueNonExistentMethod:            "NonExistentMethod",
	flowanalyzer.IssueNonExistentProperty:          "NonExistentProperty",
	flowanalyzer.IssuePossiblyUndefinedArrayOffset: "PossiblyUndefinedArrayOffset",
	flowanalyzer.IssueImpossibleAssignment:         "ImpossibleAssignment",
	flowanalyzer.IssueFalsableReturnStatement:      "FalsableReturnStatement",
	flowanalyzer.IssueUnevaluatedCode:              "UnevaluatedCode",
	flowanalyzer.IssueInvalidReturnType:            "InvalidReturnType",
	flowanalyzer.IssueInvalidHackFile:              "InvalidHackFile",
}

func issueKindLabel(k flowanalyzer.IssueKind) string {
	if s, ok := issueKindLabels[k]; ok {
		return s
	}
	return "Issue"
}

// PrintReport writes a colorized, file-grouped issue summary to w, the CLI
// boundary's rendering of spec §6's "Exposed ... per-file Issue list"
// (sunholo-data-ailang's cmd/ailang prints command results the same way,
// through fatih/color with isatty-gated color).
func PrintReport(w io.Writer, issues map[string][]flowanalyzer.Issue) int {
	noColor := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if noColor {
		red.DisableColor()
		yellow.DisableColor()
		cyan.DisableColor()
	}

	files := make([]string, 0, len(issues))
	for f, fi := range issues {
		if len(fi) > 0 {
			files = append(files, f)
		}
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		fi := issues[file]
		cyan.Fprintf(w, "%s\n", file)
		for _, issue := range fi {
			total++
			label := issueKindLabel(issue.Kind)
			if issue.Kind == flowanalyzer.IssueInvalidHackFile {
				red.Fprintf(w, "  line %d: %s: %s\n", issue.Pos.Line, label, issue.Message)
				continue
			}
			yellow.Fprintf(w, "  line %d: %s: %s\n", issue.Pos.Line, label, issue.Message)
		}
	}
	if total == 0 {
		fmt.Fprintln(w, "no issues found")
	} else {
		fmt.Fprintf(w, "%d issue(s) found across %d file(s)\n", total, len(files))
	}
	return total
}
