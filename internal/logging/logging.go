// Package logging builds the structured loggers used across tuikit.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
)

// Options configures a logger.
type Options struct {
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
	// Level is one of debug, info, warn, error. Defaults to warn.
	Level string
	// Prefix is printed before every message, typically a component name.
	Prefix string
	// Timestamps enables the time column.
	Timestamps bool
}

// New returns a logger configured from opts.
func New(opts Options) (*log.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// Component derives a child logger tagged with a component prefix. A nil
// parent yields a discarding logger.
func Component(parent *log.Logger, name string) *log.Logger {
	if parent == nil {
		return Discard()
	}
	return parent.WithPrefix(name)
}

// OpenFile opens (creating when needed) the playground log file under the xdg
// state directory. The alt-screen UI cannot share stderr with log output.
func OpenFile(name string) (*os.File, string, error) {
	if name == "" {
		name = "tuikit/tuikit.log"
	}
	path := name
	if !filepath.IsAbs(name) {
		p, err := xdg.StateFile(name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve log path: %w", err)
		}
		path = p
	}
	// #nosec G304 - path is the user's own state directory or an explicit flag value
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}
	return f, path, nil
}
