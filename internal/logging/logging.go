// Package logging wires a file-backed structured logger. The TUI owns the
// terminal, so nothing here ever writes to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

var (
	logger  *log.Logger
	logFile *os.File
)

// Init opens a dated log file under the XDG state directory.
func Init() error {
	logDir := filepath.Join(xdg.StateHome, "aionex", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("aionex-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	logFile = file
	logger = log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})
	logger.Info("aionex started")
	return nil
}

// Close flushes and closes the log file.
func Close() {
	if logger != nil {
		logger.Info("aionex shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Debug logs a debug message when logging is initialized.
func Debug(msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message when logging is initialized.
func Info(msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning when logging is initialized.
func Warn(msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Warn(msg, keyvals...)
	}
}

// Error logs an error when logging is initialized.
func Error(msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Error(msg, keyvals...)
	}
}
