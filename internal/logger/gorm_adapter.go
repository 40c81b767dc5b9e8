package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryHook is notified of every query that exceeds the slow threshold.
type SlowQueryHook func(elapsed time.Duration)

// GormLoggerAdapter routes GORM's logging through a module Logger.
// Statements are logged at TRACE so they only surface when the datastore
// module runs at trace level. Slow statements and query errors are WARN.
type GormLoggerAdapter struct {
	logger        Logger
	slowThreshold time.Duration
	onSlow        SlowQueryHook
}

// NewGormLoggerAdapter creates a new GORM logger adapter. A zero
// slowThreshold disables slow query warnings.
func NewGormLoggerAdapter(log Logger, slowThreshold time.Duration) *GormLoggerAdapter {
	if log == nil {
		log = NewSlogLogger(nil, LogLevelInfo, nil)
	}
	return &GormLoggerAdapter{
		logger:        log,
		slowThreshold: slowThreshold,
	}
}

// WithSlowQueryHook returns a copy of the adapter that calls hook for slow statements.
func (a *GormLoggerAdapter) WithSlowQueryHook(hook SlowQueryHook) *GormLoggerAdapter {
	next := *a
	next.onSlow = hook
	return &next
}

// LogMode returns the adapter unchanged; levels come from the central logger.
func (a *GormLoggerAdapter) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return a
}

// Info is verbose in GORM, so it maps to DEBUG.
func (a *GormLoggerAdapter) Info(_ context.Context, msg string, data ...any) {
	a.logger.Debug(fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Warn(_ context.Context, msg string, data ...any) {
	a.logger.Warn(fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Error(_ context.Context, msg string, data ...any) {
	a.logger.Error(fmt.Sprintf(msg, data...))
}

// Trace logs one executed statement.
func (a *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	log := a.logger.WithContext(ctx)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Warn("query failed",
			String("sql", sql),
			Int64("rows_affected", rows),
			Duration("elapsed", elapsed),
			Error(err))
	case a.slowThreshold > 0 && elapsed > a.slowThreshold:
		sql, rows := fc()
		log.Warn("slow query",
			String("sql", sql),
			Int64("rows_affected", rows),
			Duration("elapsed", elapsed),
			Duration("threshold", a.slowThreshold))
		if a.onSlow != nil {
			a.onSlow(elapsed)
		}
	default:
		sql, rows := fc()
		log.Trace("query",
			String("sql", sql),
			Int64("rows_affected", rows),
			Duration("elapsed", elapsed))
	}
}
