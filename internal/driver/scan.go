package driver

import (
	"context"
	"fmt"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/codebase"
	"github.com/hakanago/hakana/internal/config"
	"github.com/hakanago/hakana/internal/flowanalyzer"
	"github.com/hakanago/hakana/internal/interner"
)

// Scan implements spec §4.8's scan phase plus incremental invalidation: for
// each file in the project roots, parse and build symbol records, removing
// the previous version's symbols first when the file was already known
// (spec §4.8 "For each modified file, remove every symbol declared by the
// old version of the file").
func (p *Pipeline) Scan(ctx context.Context) error {
	fresh, err := Fingerprints(p.FS, p.Roots)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	previous := p.manifest
	if previous == nil {
		previous = map[string]FileFingerprint{}
	}
	statuses := DiffFiles(previous, fresh)

	var toScan []string
	for path, status := range statuses {
		switch status {
		case StatusDeleted:
			p.CB.RemoveFile(path)
			p.Refs.ClearReferencesFrom(p.Ids().Intern(path))
			if p.cache != nil {
				p.cache.DeleteFileRecord(path)
			}
		case StatusAdded, StatusModified:
			toScan = append(toScan, path)
		}
	}

	if len(toScan) > len(fresh)/2+1 && len(fresh) > 0 && p.Config.MaxChangesAllowed > 0 && len(toScan) > p.Config.MaxChangesAllowed {
		p.Log.Infof("change set (%d files) exceeds max_changes_allowed, falling back to full scan", len(toScan))
		toScan = toScan[:0]
		for path := range fresh {
			toScan = append(toScan, path)
		}
	}

	err = p.runWorkers(ctx, toScan, func(ctx context.Context, path string) error {
		ids := p.Ids()
		contents, err := p.FS.ReadFile(path)
		if err != nil {
			p.recordIssue(path, flowanalyzer.Issue{Kind: flowanalyzer.IssueInvalidHackFile, Message: "unreadable file: " + err.Error()})
			return nil
		}
		prog, err := p.Parser.Parse(path, contents)
		if err != nil {
			p.recordIssue(path, flowanalyzer.Issue{Kind: flowanalyzer.IssueInvalidHackFile, Message: "InvalidHackFile: " + err.Error()})
			p.CB.RemoveFile(path)
			return nil
		}
		p.CB.RemoveFile(path)
		scanProgram(p.CB, prog, path, ids)
		return nil
	})
	if err != nil {
		return err
	}

	p.manifest = fresh
	return nil
}

// scanProgram walks one file's top-level declarations, registering each as
// a symbol-graph record (spec §4.3 "Scanning a file emits, for each
// top-level definition, a DefSignatureNode ... and inserts or updates the
// corresponding classlike/functionlike/typedef/constant record").
func scanProgram(cb *codebase.Codebase, prog *ast.Program, file string, ids *interner.Handle) {
	for _, stmt := range prog.Statements {
		switch d := stmt.(type) {
		case *ast.ClasslikeDecl:
			ci := codebase.DeclClasslike(d, file, ids)
			cb.AddClasslike(ci)
			for _, m := range d.Methods {
				fi := codebase.DeclFunction(m, ci.Name, file, ids)
				cb.AddFunctionlike(fi)
			}
		case *ast.FunctionDecl:
			fi := codebase.DeclFunction(d, interner.Empty, file, ids)
			cb.AddFunctionlike(fi)
		case *ast.TypedefDecl:
			cb.AddTypedef(codebase.DeclTypedef(d, file, ids))
		case *ast.ConstantDecl:
			cb.AddConstant(codebase.DeclConstant(d, file, ids))
		}
	}
}

func (p *Pipeline) recordIssue(file string, issue flowanalyzer.Issue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.Config.IssueAllowed(config.IssueInvalidHackFile) {
		return
	}
	p.issues[file] = append(p.issues[file], issue)
}
