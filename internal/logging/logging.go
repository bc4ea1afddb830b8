// Package logging routes diagnostics to a file, since the terminal belongs to
// the user interface while hac is running.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Init opens (or creates) the log file at path and installs a logger writing
// to it as the package default for github.com/charmbracelet/log. The
// returned closer must be closed on shutdown.
func Init(path string, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetDefault(New(f, lvl))
	return f, nil
}

// New builds a timestamped logfmt logger at the given level
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
}

// Discard silences the default logger. Used by commands that print to stdout.
func Discard() {
	log.SetDefault(New(io.Discard, log.FatalLevel))
}

// ParseLevel accepts debug, info, warn, error and fatal; empty means info
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
