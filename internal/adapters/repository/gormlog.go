package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/eventboard/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm output through the service logger so SQL errors and
// slow queries share its format.
type gormLogger struct {
	log           logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(o options) gormlogger.Interface {
	l := o.logger
	if l == nil {
		l = logger.Named("gorm")
	}
	return &gormLogger{log: l, level: o.gormLogLevel, slowThreshold: o.slowThreshold}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(ctx, fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(ctx, fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(ctx, fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		g.log.Error(ctx, "query failed",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.String("duration", elapsed.String()),
			logger.Error(err))
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn(ctx, "slow query",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.String("duration", elapsed.String()),
			logger.String("threshold", g.slowThreshold.String()))
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug(ctx, "query",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.String("duration", elapsed.String()))
	}
}
