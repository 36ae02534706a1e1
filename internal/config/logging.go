package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// File and logging constants.
const (
	DirPermissions  = 0750
	FilePermissions = 0600
	MaxLogFileSize  = 5_000_000 // 5MB
)

// NewLogger builds a slog logger writing to w with the configured level and
// handler format.
func (l LoggingConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}

	return nil, fmt.Errorf("logging.format must be text or json, got %q", l.Format)
}

// OpenLogFile opens path for appending, creating its directory when needed.
// A file that already reached MaxLogFileSize is truncated first.
func OpenLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY

	if info, err := os.Stat(path); err == nil && info.Size() >= MaxLogFileSize {
		flags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}

	//nolint:gosec // log path comes from the config file or the user cache dir
	file, err := os.OpenFile(path, flags, FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return file, nil
}
