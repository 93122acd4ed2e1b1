package driver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/config"
)

// fakeFS is an in-memory driver.FileSystem, standing in for the real
// filesystem the way the teacher's own fuzz harness swaps a real lexer for
// generated input (tests/fuzz/generators) rather than touching disk.
type fakeFS struct {
	files map[string][]byte
}

func (fs *fakeFS) FindFiles(root string) ([]string, error) {
	var out []string
	for f := range fs.files {
		out = append(out, f)
	}
	return out, nil
}

func (fs *fakeFS) ReadFile(path string) ([]byte, error) {
	contents, ok := fs.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return contents, nil
}

// fakeParser builds one empty top-level function per file, named after the
// file's contents, so Scan/Analyze has something to register and walk
// without needing a real lexer (out of scope per spec.md §1).
type fakeParser struct{}

func (fakeParser) Parse(path string, contents []byte) (*ast.Program, error) {
	if len(contents) == 0 {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	name := string(contents)
	return &ast.Program{
		File: path,
		Statements: []ast.Stmt{
			&ast.FunctionDecl{
				Name: name,
				Body: &ast.Block{},
			},
		},
	}, nil
}

func newTestPipeline(files map[string][]byte) *Pipeline {
	cfg := config.Default()
	cfg.Threads = 2
	return NewPipeline(cfg, fakeParser{}, &fakeFS{files: files}, []string{"/root"})
}

func TestScanRegistersFunctions(t *testing.T) {
	p := newTestPipeline(map[string][]byte{
		"/root/a.hack": []byte("foo"),
		"/root/b.hack": []byte("bar"),
	})
	require.NoError(t, p.Scan(context.Background()))
	p.CB.Populate()

	assert.Len(t, p.CB.Functionlikes, 2)
}

func TestScanRemovesDeletedFileSymbols(t *testing.T) {
	files := map[string][]byte{"/root/a.hack": []byte("foo")}
	p := newTestPipeline(files)
	require.NoError(t, p.Scan(context.Background()))
	require.Len(t, p.CB.Functionlikes, 1)

	delete(files, "/root/a.hack")
	require.NoError(t, p.Scan(context.Background()))
	assert.Len(t, p.CB.Functionlikes, 0)
}

func TestScanRecordsUnparsableFileAsIssue(t *testing.T) {
	p := newTestPipeline(map[string][]byte{"/root/bad.hack": nil})
	require.NoError(t, p.Scan(context.Background()))

	issues := p.Issues()
	assert.NotEmpty(t, issues["/root/bad.hack"])
}

func TestRunEndToEnd(t *testing.T) {
	p := newTestPipeline(map[string][]byte{
		"/root/a.hack": []byte("foo"),
	})
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.SymbolReferences)
	assert.NotNil(t, result.Graph)
}

func TestDiffFilesClassifiesStatuses(t *testing.T) {
	previous := map[string]FileFingerprint{
		"a": {Hash: 1},
		"b": {Hash: 2},
	}
	current := map[string]FileFingerprint{
		"a": {Hash: 1},
		"b": {Hash: 99},
		"c": {Hash: 3},
	}
	statuses := DiffFiles(previous, current)
	assert.Equal(t, StatusUnchanged, statuses["a"])
	assert.Equal(t, StatusModified, statuses["b"])
	assert.Equal(t, StatusAdded, statuses["c"])
	assert.Equal(t, StatusUnchanged, statuses["d"], "untouched key should default to the zero FileStatus")
}

func TestClassifySymbolSafety(t *testing.T) {
	assert.Equal(t, SafetySafe, ClassifySymbol(1, 2, 1, 2))
	assert.Equal(t, SafetySignatureSafe, ClassifySymbol(1, 2, 1, 3))
	assert.Equal(t, SafetyUnsafe, ClassifySymbol(1, 2, 9, 9))
}
