// Package database contains the logic for establishing
// connections to the backing store.
//
// PostgreSQL is the primary engine; SQLite (pure Go, modernc.org/sqlite) is
// the fallback used when DATABASE_URL is unset or uses the sqlite:// scheme.
//
// It handles:
//   - parsing DATABASE_URL into a driver and DSN
//   - creating a pgx connection pool (pgxpool) or a database/sql handle
//   - wiring query tracing/logging (pgx tracelog, slow query log)
//   - optional New Relic instrumentation (nrpgx5)
//   - running work inside a transaction (WithTx)
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/castdb/internal/config"
	loggerConfig "github.com/deppfellow/castdb/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Database is the storage handle passed around the app.
//
// Exactly one of Pool and SQL is set, depending on Driver.
type Database struct {
	Driver Driver
	Pool   *pgxpool.Pool
	SQL    *sql.DB

	log                *zerolog.Logger
	slowQueryThreshold time.Duration
}

// multiTracer chains pgx tracers, since ConnConfig has a single Tracer slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

// slowQueryTracer warns about statements slower than threshold.
type slowQueryTracer struct {
	log       *zerolog.Logger
	threshold time.Duration
}

type slowQueryKey struct{}

type slowQueryStart struct {
	sql   string
	start time.Time
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryKey{}, slowQueryStart{sql: data.SQL, start: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	started, ok := ctx.Value(slowQueryKey{}).(slowQueryStart)
	if !ok {
		return
	}
	logSlowQuery(t.log, t.threshold, time.Since(started.start), started.sql)
}

func logSlowQuery(log *zerolog.Logger, threshold, elapsed time.Duration, query string) {
	if threshold <= 0 || elapsed < threshold {
		return
	}
	log.Warn().
		Str("sql", query).
		Dur("duration", elapsed).
		Dur("threshold", threshold).
		Msg("slow query")
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New opens the database named by cfg.Database.URL.
//
// For PostgreSQL it builds a pgxpool with New Relic tracing when the agent is
// running, pgx tracelog SQL logging at debug level and a slow query tracer.
// For SQLite it opens a database/sql handle with foreign keys enforced.
// Either way the handle is pinged before New returns.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	driver, dsn, err := ParseURL(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	database := &Database{
		Driver:             driver,
		log:                logger,
		slowQueryThreshold: cfg.Observability.Logging.SlowQueryThreshold,
	}

	switch driver {
	case DriverPostgres:
		database.Pool, err = newPool(cfg, dsn, logger, loggerService)
	case DriverSQLite:
		database.SQL, err = newSQLite(cfg, dsn)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = database.Ping(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", string(driver)).Msg("connected to the database")

	return database, nil
}

func newPool(cfg *config.Config, dsn string, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*pgxpool.Pool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// Very noisy, so only at debug level.
	if globalLevel := logger.GetLevel(); globalLevel <= zerolog.DebugLevel {
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{log: logger, threshold: threshold})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

func newSQLite(cfg *config.Config, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)

	// Every connection to :memory: is a separate database.
	if strings.HasPrefix(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	return sqlDB, nil
}

// Ping checks that the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return db.SQL.PingContext(ctx)
}

// Querier returns a Querier that runs outside any transaction.
func (db *Database) Querier() Querier {
	if db.Pool != nil {
		return &pgxQuerier{q: db.Pool}
	}
	return &sqlQuerier{q: db.SQL, log: db.log, slowQueryThreshold: db.slowQueryThreshold}
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (db *Database) WithTx(ctx context.Context, fn func(q Querier) error) error {
	if db.Pool != nil {
		return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			return fn(&pgxQuerier{q: tx})
		})
	}

	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlQuerier{q: tx, log: db.log, slowQueryThreshold: db.slowQueryThreshold}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	committed = true
	return nil
}

// Close releases the pool or handle.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	if db.Pool != nil {
		db.Pool.Close()
		return nil
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}
	return nil
}
