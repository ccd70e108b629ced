package cli

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aryankumar/tabmon/internal/config"
)

// Rotation limits for --log-file
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// newLogFile opens a size-rotated log file; the file is created on first write
func newLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}
}

// setupLogging builds the logger and makes it the default. Logs never go
// to stdout, which carries line protocol only.
func setupLogging(w io.Writer, verbose bool, format string) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// close releases the log file, if one was opened
func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}
