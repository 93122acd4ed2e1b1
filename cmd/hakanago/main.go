// Command hakanago is the thin CLI boundary around internal/driver. It owns
// no analysis logic of its own: every subcommand just wires flags into a
// driver.Pipeline and prints its Result. funxy's own cmd/funxy/main.go is a
// hand-rolled sequential flag parser; we generalize that entry-point role
// with cobra instead, the way sunholo-data-ailang/cmd/ailang structures its
// scan/build/run subcommands, since spec.md §1 explicitly keeps "the
// command-line driver" out of the analyzer core's scope.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/config"
	"github.com/hakanago/hakana/internal/driver"
)

var (
	flagConfig   string
	flagCacheDir string
	flagThreads  int
	flagTaint    bool
)

func main() {
	root := &cobra.Command{
		Use:   "hakanago",
		Short: "Incremental static analyzer driver",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "persisted cache directory (disabled if empty)")
	root.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker fan-out (0 = use config/default)")
	root.PersistentFlags().BoolVar(&flagTaint, "taint", false, "run the whole-program taint search after analyze")

	root.AddCommand(
		newScanCmd(),
		newAnalyzeCmd(),
		newCheckCmd(),
		newServerCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan source roots and print how many roots were scanned, without running flow analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline(args)
			if err != nil {
				return err
			}
			if err := p.Scan(cmd.Context()); err != nil {
				return err
			}
			p.CB.Populate()
			fmt.Printf("scanned %d root(s)\n", len(args))
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [roots...]",
		Short: "Scan and run flow analysis, without committing the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline(args)
			if err != nil {
				return err
			}
			if err := p.Scan(cmd.Context()); err != nil {
				return err
			}
			p.CB.Populate()
			if err := p.Analyze(cmd.Context()); err != nil {
				return err
			}
			driver.PrintReport(os.Stdout, p.Issues())
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [roots...]",
		Short: "scan + analyze, the full incremental pipeline (spec §4.8)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPipeline(args)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			n := driver.PrintReport(os.Stdout, result.Issues)
			for _, tp := range result.TaintedPaths {
				fmt.Printf("tainted path -> %s (%s), %d node(s)\n", tp.Sink, tp.Kind, len(tp.Nodes))
			}
			if n > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
}

// newServerCmd is a documented extension point only: a persistent daemon
// serving incremental checks over a socket is out of scope (spec.md §1's
// language-server/daemon transports), but the subcommand stays registered
// so `hakanago server` fails with a clear message instead of "unknown
// command", the way an embedder would grow its own transport on top of
// internal/driver.Hooks.
func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "server",
		Short:  "(not implemented) run a persistent analysis daemon",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("server mode is not implemented; embed internal/driver.Pipeline behind your own transport")
		},
	}
}

func buildPipeline(roots []string) (*driver.Pipeline, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flagThreads > 0 {
		cfg.Threads = flagThreads
	}
	if flagTaint {
		cfg.GraphKindWholeProgram = true
		cfg.GraphKindTaint = true
	}

	p := driver.NewPipeline(cfg, unimplementedParser{}, driver.OSFileSystem{IgnoredGlobs: cfg.IgnoredFiles}, roots)
	if flagCacheDir != "" {
		if err := p.WithCache(flagCacheDir, config.Version); err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
	}
	return p, nil
}

// unimplementedParser is the default driver.Parser: a real source-language
// lexer/parser is an explicit Non-goal of this module (spec.md §1, "the
// command-line driver" and its front end are external collaborators). An
// embedding binary supplies its own Parser to driver.NewPipeline directly;
// this CLI only demonstrates the wiring.
type unimplementedParser struct{}

func (unimplementedParser) Parse(path string, contents []byte) (*ast.Program, error) {
	return nil, fmt.Errorf("no AST provider configured: supply a driver.Parser for %s", path)
}
