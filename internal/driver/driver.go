// Package driver implements spec §4.8's two-phase scan/analyze pipeline:
// scan discovers files and builds the symbol graph, analyze walks each
// file's functions with the flow analyzer and merges per-file dataflow
// graphs into the whole-program one. Both phases fan out across a worker
// pool (spec §5 "parallel worker threads"); only the codebase population
// step between them runs single-threaded, since it mutates shared
// inheritance closures no worker may race on.
package driver

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/comparator"
	"github.com/hakanago/hakana/internal/config"
	"github.com/hakanago/hakana/internal/dataflow"
	"github.com/hakanago/hakana/internal/flowanalyzer"
	"github.com/hakanago/hakana/internal/interner"
)

// Parser is spec §6's "Consumed ... AST provider" collaborator: the
// analyzer never looks at raw tokens, only at the Program a parser hands
// back. A real lexer/parser for the source language is explicitly out of
// this module's scope (spec.md §1 Non-goals) — callers inject one.
type Parser interface {
	Parse(path string, contents []byte) (*ast.Program, error)
}

// Pipeline owns every piece of shared, cross-file state a scan/analyze run
// accumulates: the interner, the symbol graph, the reverse-dependency
// graph, and the persisted cache.
type Pipeline struct {
	Config *config.Config
	Parser Parser
	FS     FileSystem
	Roots  []string

	shared    *interner.Interner
	CB        *codebase.Codebase
	Cmp       *comparator.Comparator
	Refs      *codebase.SymbolReferences
	Hooks     *HookRunner
	Log       *Logger
	cache     *CacheStore
	manifest  map[string]FileFingerprint

	mu     sync.Mutex
	issues map[string][]flowanalyzer.Issue
	graph  *dataflow.Graph
}

// NewPipeline wires together a fresh symbol graph and comparator over it,
// the way the teacher's top-level evaluator setup registers every shared
// service once before running a module (see cmd/funxy/main.go's
// evaluateModule for the pattern this generalizes).
func NewPipeline(cfg *config.Config, parser Parser, fs FileSystem, roots []string) *Pipeline {
	cb := codebase.NewCodebase()
	return &Pipeline{
		Config: cfg,
		Parser: parser,
		FS:     fs,
		Roots:  roots,
		shared: interner.New(),
		CB:     cb,
		Cmp:    comparator.New(cb),
		Refs:   codebase.NewSymbolReferences(),
		Hooks:  NewHookRunner(cfg.Hooks),
		Log:    NewLogger(),
		issues: map[string][]flowanalyzer.Issue{},
		graph:  dataflow.NewGraph(),
	}
}

// WithCache opens (or evicts, on a checksum mismatch) the persisted cache
// directory spec §4.8 describes.
func (p *Pipeline) WithCache(dir, version string) error {
	cache, err := OpenCacheStore(dir)
	if err != nil {
		return err
	}
	cfgBytes := []byte(fmt.Sprintf("%+v", p.Config))
	checksum := BuildChecksum(version, cfgBytes)
	prior, err := cache.BuildChecksum()
	if err != nil {
		cache.Close()
		return err
	}
	if prior != "" && prior != checksum {
		p.Log.Infof("cache checksum mismatch, evicting %s", dir)
		if err := cache.Evict(); err != nil {
			cache.Close()
			return err
		}
	}
	if err := cache.Commit(checksum, nil); err != nil {
		cache.Close()
		return err
	}
	manifest, err := cache.LoadManifest()
	if err != nil {
		cache.Close()
		return err
	}
	p.cache = cache
	p.manifest = manifest
	return nil
}

// Result is spec §6's "Exposed ... Analysis result".
type Result struct {
	Issues           map[string][]flowanalyzer.Issue
	SymbolReferences *codebase.SymbolReferences
	Graph            *dataflow.Graph
	TaintedPaths     []dataflow.TaintedPath
}

// Run executes scan, populate, and analyze as explicit, logged phases (it
// records no timings; Result carries no analysis time), then
// (when configured for whole-program taint mode) the final reachability
// pass over the merged graph (spec §2 "Data flow").
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.Log.Infof("scan phase: roots=%v", p.Roots)
	if err := p.Scan(ctx); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	p.Log.Infof("populate phase")
	p.CB.Populate()
	p.Hooks.Run(config.HookAfterPopulate, p.CB)

	p.Log.Infof("analyze phase")
	if err := p.Analyze(ctx); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result := &Result{
		Issues:           p.issues,
		SymbolReferences: p.Refs,
		Graph:            p.graph,
	}
	if p.Config.GraphKindValue().WholeProgram && p.Config.GraphKindValue().Taint {
		maxDepth := int(p.Config.MaxDepth)
		result.TaintedPaths = p.graph.FindTaintedData(maxDepth)
		for _, tp := range result.TaintedPaths {
			p.Log.Infof("tainted data reaches sink %s via %d nodes (kind=%s)", tp.Sink, len(tp.Nodes), tp.Kind)
		}
	}

	if p.cache != nil {
		if err := p.cache.Commit(mustChecksum(p), p.manifest); err != nil {
			return result, fmt.Errorf("committing cache: %w", err)
		}
	}
	return result, nil
}

func mustChecksum(p *Pipeline) string {
	cfgBytes := []byte(fmt.Sprintf("%+v", p.Config))
	return BuildChecksum(config.Version, cfgBytes)
}

// Issues returns the issues recorded so far, keyed by file. Safe to call
// after Scan and/or Analyze without running the whole Run pipeline (the
// `analyze` subcommand uses this to report without committing the cache).
func (p *Pipeline) Issues() map[string][]flowanalyzer.Issue {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][]flowanalyzer.Issue, len(p.issues))
	for f, fi := range p.issues {
		out[f] = fi
	}
	return out
}

// Ids returns a fresh per-goroutine interner handle over the pipeline's
// shared table, the way spec §4.1 describes parallel scan's thread-local
// handles.
func (p *Pipeline) Ids() *interner.Handle {
	return interner.NewHandle(p.shared)
}

// sortedFiles returns manifest/issues keys in deterministic order, so
// aggregated output doesn't depend on worker completion order (spec §5
// "the set of issues is identical, only their order of aggregation
// differs").
func sortedFiles(m map[string]FileFingerprint) []string {
	out := make([]string, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// runWorkers fans work across threads goroutines using errgroup, bounding
// concurrency to p.Config.Threads (spec §5 "parallel worker threads bounded
// by a configurable fan-out").
func (p *Pipeline) runWorkers(ctx context.Context, items []string, work func(ctx context.Context, item string) error) error {
	threads := p.Config.Threads
	if threads < 1 {
		threads = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for _, item := range items {
		item := item
		g.Go(func() error { return work(gctx, item) })
	}
	return g.Wait()
}
