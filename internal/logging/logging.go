// Package logging builds the application logger.
//
// Diagnostics stay quiet by default: only errors reach stderr. Debug output
// is enabled with --debug or TSHEET_DEBUG, and a log file can be configured
// so the TUI keeps the terminal to itself.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// EnvDebug enables debug logging when set to a true value.
const EnvDebug = "TSHEET_DEBUG"

// Options configures New.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool
	// File appends log output to this path instead of Output.
	File string
	// Output receives log lines when File is empty. Defaults to stderr.
	Output io.Writer
}

// New returns a logger and a function that releases its resources.
func New(opts Options) (*log.Logger, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	level := log.ErrorLevel
	if opts.Debug || DebugFromEnv() {
		level = log.DebugLevel
	} else if opts.File != "" {
		// a file has room for warnings that would clutter the terminal
		level = log.WarnLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "tsheet",
		ReportTimestamp: opts.File != "",
		TimeFormat:      time.DateTime,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// DebugFromEnv reports whether EnvDebug holds a true value.
func DebugFromEnv() bool {
	v := strings.TrimSpace(os.Getenv(EnvDebug))
	if v == "" {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err != nil || on
}
