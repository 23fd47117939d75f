package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the query surface repositories depend on. It is satisfied by the
// pool, a pgx transaction and a database/sql handle or transaction, so the
// same repository code runs against either engine.
//
// SQL must use $N placeholders; both pgx and modernc.org/sqlite bind them
// positionally.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	// Driver reports the engine behind the querier, for the few statements
	// that differ between dialects.
	Driver() Driver
}

// Row is a single-row result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row result. pgx.Rows satisfies it as is.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxQuerier struct {
	q pgxExecutor
}

func (p *pgxQuerier) Driver() Driver {
	return DriverPostgres
}

func (p *pgxQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := p.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *pgxQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return p.q.Query(ctx, query, args...)
}

func (p *pgxQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return p.q.QueryRow(ctx, query, args...)
}

type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlQuerier adapts *sql.DB and *sql.Tx. pgx logs through its tracers; here
// the adapter does the slow query logging itself.
type sqlQuerier struct {
	q                  sqlExecutor
	log                *zerolog.Logger
	slowQueryThreshold time.Duration
}

func (s *sqlQuerier) Driver() Driver {
	return DriverSQLite
}

func (s *sqlQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	defer s.trace(query, time.Now())

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	defer s.trace(query, time.Now())

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{Rows: rows}, nil
}

func (s *sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	defer s.trace(query, time.Now())

	return s.q.QueryRowContext(ctx, query, args...)
}

func (s *sqlQuerier) trace(query string, start time.Time) {
	if s.log == nil {
		return
	}
	elapsed := time.Since(start)
	s.log.Debug().Str("component", "database").Str("sql", query).Dur("duration", elapsed).Msg("query")
	logSlowQuery(s.log, s.slowQueryThreshold, elapsed, query)
}

type sqlRows struct {
	*sql.Rows
}

func (r *sqlRows) Close() {
	_ = r.Rows.Close()
}
