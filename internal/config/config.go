package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GraphKind selects per-file versus whole-program dataflow analysis
// (spec §6 "graph_kind").
type GraphKind struct {
	WholeProgram bool
	Taint        bool // when WholeProgram: Taint search vs arbitrary Query reachability
}

// SecurityConfig bounds the whole-program taint search (spec §4.7).
type SecurityConfig struct {
	MaxDepth uint8 `yaml:"max_depth"`
}

// MigrationSymbol names a symbol list file driving a codemod migration pass
// (spec §6 "migration_symbols").
type MigrationSymbol struct {
	Name           string `yaml:"name"`
	SymbolListPath string `yaml:"symbol_list_path"`
}

// Config is the full set of recognized driver options (spec §6 "Consumed
// ... Configuration").
type Config struct {
	FindUnusedExpressions bool              `yaml:"find_unused_expressions"`
	FindUnusedDefinitions bool              `yaml:"find_unused_definitions"`
	IgnoreMixedIssues     bool              `yaml:"ignore_mixed_issues"`
	IssueFilter           []IssueKind       `yaml:"issue_filter"`
	IgnoredFiles          []string          `yaml:"ignored_files"`
	TestFiles             []string          `yaml:"test_files"`
	MigrationSymbols      []MigrationSymbol `yaml:"migration_symbols"`
	GraphKindWholeProgram bool              `yaml:"whole_program"`
	GraphKindTaint        bool              `yaml:"taint_mode"`
	MaxDepth              uint8             `yaml:"max_depth"`
	MaxChangesAllowed     int               `yaml:"max_changes_allowed"`
	Threads               int               `yaml:"threads"`
	CacheDir              string            `yaml:"cache_dir"`

	// Hooks are not serialized; they are registered programmatically by the
	// embedding binary (spec §6 "hooks: [AnalysisHook]").
	Hooks []AnalysisHook `yaml:"-"`
}

// GraphKindValue assembles the GraphKind from the flat config fields.
func (c *Config) GraphKindValue() GraphKind {
	return GraphKind{WholeProgram: c.GraphKindWholeProgram, Taint: c.GraphKindTaint}
}

// Default returns the configuration the driver uses when no config file is
// present.
func Default() *Config {
	return &Config{
		FindUnusedExpressions: true,
		FindUnusedDefinitions: true,
		MaxDepth:              20,
		MaxChangesAllowed:     1000,
		Threads:               1,
	}
}

// Load reads and decodes a YAML config file, falling back to Default() for
// unset fields that have no zero-value meaning (MaxDepth, MaxChangesAllowed,
// Threads).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// IssueAllowed reports whether kind passes the configured issue_filter
// (an empty filter allows everything) and the ignore_mixed_issues toggle.
func (c *Config) IssueAllowed(kind IssueKind) bool {
	if c.IgnoreMixedIssues {
		switch kind {
		case IssueMixedAnyArgument, IssueMixedAnyAssignment, IssueMixedAnyReturnStatement:
			return false
		}
	}
	if len(c.IssueFilter) == 0 {
		return true
	}
	for _, k := range c.IssueFilter {
		if k == kind {
			return true
		}
	}
	return false
}

// HookPoint names the fixed extension points an AnalysisHook can observe
// (spec §6 "hooks: [AnalysisHook]" — "a fixed analysis-hook interface",
// spec §1 Non-goals: no plugin loading beyond this).
type HookPoint int

const (
	HookAfterPopulate HookPoint = iota
	HookAfterExpr
	HookAfterArg
)

// AnalysisHook is the one, fixed extension mechanism the core exposes.
// Implementations receive an opaque context value (the concrete type is
// owned by the calling package: *codebase.Codebase for HookAfterPopulate,
// the only point the driver dispatches). OnEvent returns nothing: a hook
// observes the event and cannot suppress issues.
type AnalysisHook interface {
	OnEvent(point HookPoint, ctx any)
}
