// Package cli implements the modlaunch command-line interface.
//
// Every command starts from the same snapshot: the configuration is loaded,
// the module roots are scanned into a catalog (through the manifest cache),
// and the dependency graph is built from the catalog. Commands then query
// that snapshot.
//
// # Commands
//
// The main commands are:
//   - scan: List the modules found under the configured roots
//   - deps: Print the dependency sequence of one module
//   - graph: Render the dependency graph as DOT, SVG, PDF or PNG
//   - run: Resolve and activate a configured command's modules (dry run)
//   - doctor: Report conflicts, unresolved imports and cycles
//   - serve: Serve the snapshot over a read-only HTTP API
//   - cache: Manage the manifest cache
//
// # Logging
//
// Logs go to stderr through charmbracelet/log; command output goes to stdout.
// --verbose (-v) enables debug logging and --quiet (-q) keeps only warnings.
// The logger travels to commands in their context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger: timestamps as "15:04:05.00", module and
// path values highlighted, errors in red.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	styles := log.DefaultStyles()
	styles.Values["module"] = lipgloss.NewStyle().Foreground(colorAccent)
	styles.Values["path"] = lipgloss.NewStyle().Foreground(colorFaint)
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(colorFail)
	styles.Values["err"] = lipgloss.NewStyle().Foreground(colorFail)
	l.SetStyles(styles)
	return l
}

// progress logs the completion of a step together with its duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and a "took" field rounded to
// the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
