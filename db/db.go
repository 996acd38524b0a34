package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ipahub/ipahub/logger"
)

func NewDB(uri string, logDBQueries bool) (*gorm.DB, error) {
	// avoid SQLITE_BUSY errors with single connection and WAL journaling
	if !strings.Contains(uri, "?") {
		uri = uri + "?"
	} else {
		uri = uri + "&"
	}
	uri = uri + "_journal_mode=WAL&_busy_timeout=5000"

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logDBQueries),
	}

	gormDB, err := gorm.Open(sqlite.Open(uri), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return gormDB, nil
}

func Stop(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(logDBQueries bool) gormlogger.Interface {
	level := gormlogger.Warn
	if logDBQueries {
		level = gormlogger.Info
	}
	return gormlogger.New(&gormLogWriter{}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// gormLogWriter routes gorm's log output through zerolog.
type gormLogWriter struct{}

func (w *gormLogWriter) Printf(format string, args ...interface{}) {
	logger.Logger.WithLevel(zerolog.DebugLevel).Msgf(format, args...)
}
