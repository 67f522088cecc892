// Package logging defines the logger contract used across the pipeline
// and a styled console implementation for the CLI. Components receive a
// Logger explicitly; nothing reads one ambiently.
package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger is the minimal logging surface the pipeline components use.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

// Nop returns a logger that discards everything. It is the default for
// library use.
func Nop() Logger { return nopLogger{} }

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Console writes styled log lines to a writer. Debug output is emitted
// only when verbose is set. Safe for concurrent use.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewConsole returns a Console logger writing to w.
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{w: w, verbose: verbose}
}

func (c *Console) write(style lipgloss.Style, prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", style.Render(prefix), fmt.Sprintf(format, args...))
}

// Debugf logs a debug line when verbose mode is on.
func (c *Console) Debugf(format string, args ...any) {
	if !c.verbose {
		return
	}
	c.write(debugStyle, "debug:", format, args...)
}

// Infof logs an informational line.
func (c *Console) Infof(format string, args ...any) {
	c.write(infoStyle, "info:", format, args...)
}

// Warnf logs a warning line.
func (c *Console) Warnf(format string, args ...any) {
	c.write(warnStyle, "warning:", format, args...)
}
