// Package logging builds the zap loggers used by the CLI and the demo.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// SessionID identifies this process in log file names.
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Options selects the level and destination.
type Options struct {
	// Verbose enables debug level.
	Verbose bool

	// File sends logs to a session file instead of stderr. Terminal UIs
	// use it since they own stdout and stderr.
	File bool

	// Dir overrides the log directory used with File.
	Dir string
}

// Logger is a zap logger plus the file it writes to, if any.
type Logger struct {
	*zap.Logger
	path string
}

// Path is the session log file, or "" when logging to stderr.
func (l *Logger) Path() string { return l.path }

// Close flushes buffered entries.
func (l *Logger) Close() error {
	// Sync on stderr fails with EINVAL on some platforms; nothing to flush.
	if l.path == "" {
		return nil
	}
	return l.Sync()
}

// New builds a production (JSON) logger. When a session file cannot be
// created it falls back to stderr and returns the logger together with the
// error so callers can report it.
func New(opts Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Sampling = nil
	cfg.InitialFields = map[string]any{"session": SessionID()}

	var fileErr error
	path := ""
	if opts.File {
		path, fileErr = sessionPath(opts.Dir)
		if fileErr == nil {
			cfg.OutputPaths = []string{path}
			cfg.ErrorOutputPaths = []string{path}
		}
	}

	zl, err := cfg.Build()
	if err != nil && path != "" {
		fileErr = fmt.Errorf("open log file: %w", err)
		path = ""
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		zl, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if fileErr != nil {
		path = ""
		zl.Warn("file logging unavailable, using stderr", zap.Error(fileErr))
	}
	return &Logger{Logger: zl, path: path}, fileErr
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func sessionPath(dir string) (string, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locate cache directory: %w", err)
		}
		dir = filepath.Join(cache, "textexpand", "logs")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return filepath.Join(dir, SessionID()+".log"), nil
}
