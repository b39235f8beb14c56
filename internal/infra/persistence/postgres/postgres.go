// Package postgres stores the record tree in PostgreSQL using GORM.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"cloudburst/config"
	"cloudburst/internal/errors"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	poolSampleInterval = 5 * time.Second
	poolWaitWarn       = 50 * time.Millisecond
)

// Open creates the GORM client for cfg. Connectivity is checked later by
// RecordStore.Ping.
func Open(cfg *config.PostgresConfig, debug bool, logger *slog.Logger) (*gorm.DB, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, errors.New("store.postgres.dsn is required for the postgres provider")
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, debug),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open record database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "record database handle")
	}
	applyPoolLimits(sqlDB, cfg)

	return db, nil
}

func applyPoolLimits(sqlDB *sql.DB, cfg *config.PostgresConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// poolPressure describes connection waits between two pool samples.
type poolPressure struct {
	waits     int64
	waited    time.Duration
	openConns int
	inUse     int
}

func comparePoolStats(prev, cur sql.DBStats) poolPressure {
	return poolPressure{
		waits:     cur.WaitCount - prev.WaitCount,
		waited:    cur.WaitDuration - prev.WaitDuration,
		openConns: cur.OpenConnections,
		inUse:     cur.InUse,
	}
}

func (p poolPressure) level() slog.Level {
	if p.waited >= poolWaitWarn {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

func (p poolPressure) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int64("waits", p.waits),
		slog.Duration("waited", p.waited),
		slog.Duration("avgWait", p.waited/time.Duration(p.waits)),
		slog.Int("openConns", p.openConns),
		slog.Int("inUseConns", p.inUse),
	}
}

// watchPool logs whenever callers had to wait for a connection, which means
// readings or watch polls are queueing behind the pool limit.
func watchPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			if p := comparePoolStats(prev, cur); p.waits > 0 {
				logger.LogAttrs(ctx, p.level(), "Record store pool wait", p.attrs()...)
			}
			prev = cur
		}
	}
}
