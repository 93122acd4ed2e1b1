package driver

import (
	"log"
	"os"
)

// Logger wraps the standard library's log.Logger with the small set of
// leveled helpers the driver needs. funxy itself has no logging library —
// its cmd/lsp and cmd/funxy write diagnostics straight to os.Stderr with
// fmt.Fprintf — so this generalizes that idiom into something the scan and
// analyze phases can call at multiple verbosity levels instead of one-off
// Fprintf calls scattered through the pipeline.
type Logger struct {
	out     *log.Logger
	verbose bool
}

// NewLogger returns a Logger writing to stderr with the standard
// date/time prefix, the way funxy's own command-line tools log.
func NewLogger() *Logger {
	return &Logger{out: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetVerbose toggles whether Debugf lines are actually written.
func (l *Logger) SetVerbose(v bool) { l.verbose = v }

func (l *Logger) Infof(format string, args ...any) {
	l.out.Printf("INFO  "+format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.out.Printf("WARN  "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.out.Printf("DEBUG "+format, args...)
}
