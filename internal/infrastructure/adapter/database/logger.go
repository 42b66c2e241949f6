package database

import (
	"context"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// GormLogger routes GORM's SQL logging through the application logger so
// database traces share the structured log pipeline.
type GormLogger struct {
	coreLogger    coreport.Logger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger adapter at the given level
func NewGormLogger(coreLogger coreport.Logger, level string) gormlogger.Interface {
	var logLevel gormlogger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		logLevel = gormlogger.Silent
	case "error":
		logLevel = gormlogger.Error
	case "warn":
		logLevel = gormlogger.Warn
	default:
		logLevel = gormlogger.Info
	}

	return &GormLogger{
		coreLogger:    coreLogger,
		logLevel:      logLevel,
		slowThreshold: time.Second,
	}
}

// LogMode sets the log level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info logs informational messages
func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.logLevel >= gormlogger.Info {
		l.coreLogger.Info(msg, map[string]any{"args": args})
	}
}

// Warn logs warning messages
func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.coreLogger.Warn(msg, map[string]any{"args": args})
	}
}

// Error logs error messages
func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.logLevel >= gormlogger.Error {
		l.coreLogger.Error(msg, map[string]any{"args": args})
	}
}

// Trace logs SQL statements with their duration and row count
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := map[string]any{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil && l.logLevel >= gormlogger.Error:
		fields["error"] = err.Error()
		l.coreLogger.Error("SQL query failed", fields)
	case elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn:
		l.coreLogger.Warn("Slow SQL query", fields)
	case l.logLevel >= gormlogger.Info:
		l.coreLogger.Debug("SQL query", fields)
	}
}
