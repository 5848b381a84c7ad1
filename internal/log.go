package internal

import (
	"log"
	"os"
	"sort"
	"strings"

	"surveyclean/domain/stage"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger provides leveled logging
type Logger struct {
	level LogLevel
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	return &Logger{level: ParseLogLevel(os.Getenv("LOG_LEVEL"))}
}

// ParseLogLevel maps ERROR, WARN, INFO, DEBUG or TRACE to a level; anything else is INFO
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	}
	return LogLevelInfo
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		log.Printf("[TRACE] "+format, args...)
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()

// LoggingObserver reports pipeline progress through a Logger
type LoggingObserver struct {
	logger *Logger
}

// NewLoggingObserver creates an observer over logger, DefaultLogger when nil
func NewLoggingObserver(logger *Logger) *LoggingObserver {
	if logger == nil {
		logger = DefaultLogger
	}
	return &LoggingObserver{logger: logger}
}

// StageCompleted logs rows in and out at info level, notes and skipped columns at debug
// level and per-column cell counts at trace level. A stage that empties the table warns.
func (o *LoggingObserver) StageCompleted(r stage.StageResult) {
	o.logger.Info("[Pipeline] %s: %d -> %d rows (%d removed) in %dus", r.StageName, r.RowsIn, r.RowsOut, r.Removed(), r.Duration)
	if r.RowsIn > 0 && r.RowsOut == 0 {
		o.logger.Warn("[Pipeline] %s removed every row", r.StageName)
	}
	if o.logger.GetLevel() < LogLevelDebug {
		return
	}

	if len(r.Skipped) > 0 {
		o.logger.Debug("[Pipeline] %s: skipped absent columns %s", r.StageName, strings.Join(r.Skipped, ", "))
	}
	for _, note := range r.Notes {
		o.logger.Debug("[Pipeline] %s: %s", r.StageName, note)
	}

	columns := make([]string, 0, len(r.Changed))
	for c := range r.Changed {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	for _, c := range columns {
		o.logger.Trace("[Pipeline] %s: %s changed %d cells", r.StageName, c, r.Changed[c])
	}
}

// Info logs a progress message
func (o *LoggingObserver) Info(format string, args ...interface{}) {
	o.logger.Info(format, args...)
}
