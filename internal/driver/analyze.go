package driver

import (
	"context"
	"sync"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/dataflow"
	"github.com/hakanago/hakana/internal/flowanalyzer"
	"github.com/hakanago/hakana/internal/interner"
)

// Analyze implements spec §4.8's analyze phase: walk each file needing
// reanalysis with the flow analyzer, threading the type model and
// comparator, and merge every file's dataflow graph into the whole-program
// one (spec §2's "Data flow").
//
// Invalidation is computed at file granularity: a file needs reanalysis if
// it was Added/Modified this scan, or if the transitive closure of
// SymbolReferences from any changed symbol reaches a symbol it declares
// (spec §4.8 step 5 "Propagate unsafeness through the SymbolReferences
// graph"). The full per-symbol signature/body safety classification
// (ClassifySymbol in invalidate.go) is available to a caller that wants
// finer-grained reuse; this phase takes the simpler, still-correct
// file-level cut documented in DESIGN.md.
func (p *Pipeline) Analyze(ctx context.Context) error {
	changedFiles := map[string]bool{}
	for path, status := range DiffFiles(orEmpty(p.manifestBeforeAnalyze()), p.manifest) {
		if status == StatusAdded || status == StatusModified {
			changedFiles[path] = true
		}
	}

	unsafe := p.Refs.TransitiveClosure(p.changedSymbolIDs(changedFiles))
	filesToAnalyze := p.filesFor(unsafe)
	for f := range changedFiles {
		filesToAnalyze[f] = true
	}

	if p.Config.MaxChangesAllowed > 0 && len(filesToAnalyze) > p.Config.MaxChangesAllowed {
		p.Log.Infof("invalidated file count exceeds max_changes_allowed, analyzing every file")
		for f := range p.manifest {
			filesToAnalyze[f] = true
		}
	}

	allFiles := sortedFiles(p.manifest)
	var graphMu lockedGraphs

	err := p.runWorkers(ctx, allFiles, func(ctx context.Context, path string) error {
		if !filesToAnalyze[path] {
			if p.cache != nil {
				if rec, ok, _ := p.cache.GetFileRecord(path); ok {
					p.setIssues(path, rec.Issues)
				}
			}
			return nil
		}
		ids := p.Ids()
		contents, err := p.FS.ReadFile(path)
		if err != nil {
			return nil
		}
		prog, err := p.Parser.Parse(path, contents)
		if err != nil {
			return nil
		}
		issues, g := p.analyzeFile(prog, path, ids)
		p.setIssues(path, issues)
		graphMu.add(g)
		if p.cache != nil {
			hashes := p.CB.FileSymbolHashes(path, ids)
			p.cache.PutFileRecord(path, FileRecord{
				Hash:         p.manifest[path].Hash,
				SymbolHashes: hashes,
				Issues:       issues,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	graphs := append(graphMu.all(), p.graph)
	p.graph = dataflow.MergePrograms(graphs...)
	return nil
}

// analyzeFile runs the flow analyzer over every top-level function and
// method declared in prog, merging each function's per-analysis dataflow
// graph (spec §5 "Dataflow graphs are owned by per-function analysis data;
// the whole-program graph is merged into the analysis result at the end").
func (p *Pipeline) analyzeFile(prog *ast.Program, file string, ids *interner.Handle) ([]flowanalyzer.Issue, *dataflow.Graph) {
	var issues []flowanalyzer.Issue
	var graphs []*dataflow.Graph

	analyzeOne := func(key codebase.MemberKey, body *ast.Block) {
		fi, ok := p.CB.Functionlike(key)
		if !ok || body == nil {
			return
		}
		a := flowanalyzer.NewAnalyzer(p.CB, p.Cmp, ids, file)
		a.AnalyzeFunction(fi, body)
		issues = append(issues, a.Issues.Issues...)
		graphs = append(graphs, a.Graph)
	}

	for _, stmt := range prog.Statements {
		switch d := stmt.(type) {
		case *ast.FunctionDecl:
			analyzeOne(codebase.MemberKey{Member: ids.Intern(d.Name)}, d.Body)
		case *ast.ClasslikeDecl:
			classID := ids.Intern(d.Name)
			for _, m := range d.Methods {
				analyzeOne(codebase.MemberKey{Class: classID, Member: ids.Intern(m.Name)}, m.Body)
			}
		}
	}

	return issues, dataflow.MergePrograms(graphs...)
}

// changedSymbolIDs collects every symbol id this codebase currently
// attributes to one of the changed files, the seed set TransitiveClosure
// walks outward from.
func (p *Pipeline) changedSymbolIDs(changedFiles map[string]bool) []interner.Id {
	var out []interner.Id
	for id, ci := range p.CB.Classlikes {
		if changedFiles[ci.DeclaringFile] {
			out = append(out, id)
		}
	}
	for key, fi := range p.CB.Functionlikes {
		if !changedFiles[fi.DeclaringFile] {
			continue
		}
		out = append(out, key.Member)
		if key.Class != interner.Empty {
			out = append(out, key.Class)
		}
	}
	return out
}

// filesFor maps a set of symbol ids back to the files that currently
// declare them.
func (p *Pipeline) filesFor(symbolIDs map[interner.Id]bool) map[string]bool {
	out := map[string]bool{}
	for id := range symbolIDs {
		if ci, ok := p.CB.Classlike(id); ok {
			out[ci.DeclaringFile] = true
		}
	}
	for key, fi := range p.CB.Functionlikes {
		if symbolIDs[key.Member] || (key.Class != interner.Empty && symbolIDs[key.Class]) {
			out[fi.DeclaringFile] = true
		}
	}
	return out
}

func (p *Pipeline) setIssues(file string, issues []flowanalyzer.Issue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issues[file] = issues
}

// manifestBeforeAnalyze lets Analyze re-derive which files Scan just
// touched without Scan having to hand back its own diff explicitly: Run
// only commits the fresh manifest to the cache at the very end, so the
// cache's manifest is the one the previous Run on this Pipeline committed.
// WithCache commits an empty manifest when it opens the cache, so on the
// first Run after WithCache every file counts as changed and is analyzed.
func (p *Pipeline) manifestBeforeAnalyze() map[string]FileFingerprint {
	if p.cache == nil {
		return nil
	}
	m, err := p.cache.LoadManifest()
	if err != nil {
		return nil
	}
	return m
}

func orEmpty(m map[string]FileFingerprint) map[string]FileFingerprint {
	if m == nil {
		return map[string]FileFingerprint{}
	}
	return m
}

// lockedGraphs collects per-file dataflow graphs from concurrent workers
// under a single mutex (spec §5 "the per-file graph is merged into the
// global graph under a mutex after analysis completes").
type lockedGraphs struct {
	mu     sync.Mutex
	graphs []*dataflow.Graph
}

func (l *lockedGraphs) add(g *dataflow.Graph) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graphs = append(l.graphs, g)
}

func (l *lockedGraphs) all() []*dataflow.Graph {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.graphs
}
