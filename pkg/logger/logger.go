package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Level represents log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a simple logger
type Logger struct {
	level  Level
	output io.Writer
	file   *os.File
}

var defaultLogger = &Logger{
	level:  LevelInfo,
	output: os.Stderr,
}

// Init initializes the logger with optional file output
func Init(logToFile bool) error {
	if logToFile {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		logDir := filepath.Join(home, ".dockedup", "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}

		logFile := filepath.Join(logDir, fmt.Sprintf("dockedup-%s.log", time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		defaultLogger.file = f
		defaultLogger.output = io.MultiWriter(os.Stderr, f)
	}
	return nil
}

// Close closes the log file
func Close() {
	if defaultLogger.file != nil {
		defaultLogger.file.Close()
	}
}

// SetLevel sets the log level. cmd/dockedup's --debug flag is the only
// caller, setting LevelDebug directly rather than through a parsed string.
func SetLevel(level Level) {
	defaultLogger.level = level
}

func log(level Level, prefix, format string, args ...interface{}) {
	if level < defaultLogger.level {
		return
	}
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(defaultLogger.output, "[%s] %s %s\n", timestamp, prefix, msg)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	log(LevelDebug, "DEBUG", format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	log(LevelInfo, "INFO ", format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	log(LevelWarn, "WARN ", format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log(LevelError, "ERROR", format, args...)
}
