package database

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryLogger is a gorm logger that stays quiet on the happy path and
// warns on errors and on queries slower than the configured threshold.
// Widget endpoints sit on the storefront's critical path, so slow queries
// are worth surfacing even in development.
type SlowQueryLogger struct {
	threshold time.Duration
}

// NewSlowQueryLogger creates a logger with the given slow threshold
func NewSlowQueryLogger(threshold time.Duration) *SlowQueryLogger {
	return &SlowQueryLogger{threshold: threshold}
}

// LogMode implements logger.Interface; the level is fixed
func (l *SlowQueryLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *SlowQueryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	log.Printf("[DB INFO] "+msg, args...)
}

func (l *SlowQueryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	log.Printf("[DB WARN] "+msg, args...)
}

func (l *SlowQueryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	log.Printf("[DB ERROR] "+msg, args...)
}

// Trace logs errored and slow statements
func (l *SlowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Printf("[DB ERROR] %v | %s | rows=%d", err, sql, rows)
	case elapsed > l.threshold:
		sql, rows := fc()
		log.Printf("[DB SLOW] %v | %s | rows=%d", elapsed, sql, rows)
	}
}
