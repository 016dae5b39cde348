// Package logging builds the slog logger every lifeo component writes to.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sandeepkv93/lifeo/internal/config"
)

// New returns a text logger writing to a rotating log file when cfg.File is
// set, else to fallback. A nil fallback discards output. The returned closer
// releases the file.
func New(cfg config.LogConfig, fallback io.Writer) (*slog.Logger, io.Closer) {
	var out io.Writer = io.Discard
	var closer io.Closer = nopCloser{}
	if fallback != nil {
		out = fallback
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		out = rotating
		closer = rotating
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(handler), closer
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
