// v1
// logger.go
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Init configures slog to log to both stdout and a single log file.
// It returns the *slog.Logger, the writer feeding both sinks, and the opened
// *os.File so callers can Close() on shutdown. If the file cannot be opened
// the logger falls back to stdout only.
func Init(path string, debug bool) (*slog.Logger, io.Writer, *os.File) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		logger.Error("failed to open log file; falling back to stdout only", "path", path, "err", err)
		return logger, os.Stdout, nil
	}

	mw := NewMultiWriter(f, os.Stdout)
	h := slog.NewTextHandler(mw, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)

	// make legacy stdlib log align to our multi-writer too
	log.SetOutput(mw)
	return logger, mw, f
}
