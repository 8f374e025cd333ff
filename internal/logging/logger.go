package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures the process logger.
type Options struct {
	// Level is one of debug, info, warn, error (case-insensitive). Empty means info.
	Level string

	// Format is FormatJSON or FormatText. Empty means text.
	Format string

	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer

	// File, when set, additionally writes logs to a size-rotated file.
	File string

	// MaxSizeMB and MaxBackups bound the rotated file. Zero uses lumberjack defaults.
	MaxSizeMB  int
	MaxBackups int

	// DisableRedaction turns off masking of pull secrets and credentials.
	DisableRedaction bool
}

// ParseLevel converts a textual level into a slog.Level.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", value)
	}
}

// New builds a logger from opts. The returned closer releases the log file,
// if any, and is always non-nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		out = io.MultiWriter(out, rotating)
		closer = rotating
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "", FormatText:
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	if !opts.DisableRedaction {
		handler = NewRedactingHandler(handler)
	}

	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
