// Package logger provides file-based structured logging so engine output
// never interleaves with CLI report output on stdout.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	logFile *os.File
	Log     = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Init initializes the logger writing to debug.log under dataDir.
// - debug=true: logs all levels (DEBUG+)
// - debug=false: logs WARN/ERROR only
func Init(dataDir string, debug bool) error {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	logPath := filepath.Join(dataDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	logFile = f

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	Log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }

func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
