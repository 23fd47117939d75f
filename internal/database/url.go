package database

import (
	"fmt"
	"strings"
)

// Driver names the storage engine behind a Database.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DefaultSQLitePath is used when DATABASE_URL is empty.
const DefaultSQLitePath = "/tmp/test.db"

// sqlitePragmas are appended to every SQLite DSN. Foreign keys are off by
// default in SQLite and the cascade rules depend on them. Write transactions
// take the lock up front so concurrent writers wait on busy_timeout.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite&_txlock=immediate"

// ParseURL maps DATABASE_URL onto a driver and a driver-specific DSN.
//
//   - ""                     -> sqlite, /tmp/test.db
//   - postgres://...         -> postgres, rewritten to postgresql://...
//   - postgresql://...       -> postgres, unchanged
//   - sqlite:////abs/path.db -> sqlite, /abs/path.db
//   - sqlite:///rel/path.db  -> sqlite, rel/path.db
//   - sqlite://              -> sqlite, in-memory
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return DriverSQLite, sqliteDSN(DefaultSQLitePath), nil

	case strings.HasPrefix(raw, "postgres://"):
		return DriverPostgres, "postgresql://" + strings.TrimPrefix(raw, "postgres://"), nil

	case strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil

	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = ":memory:"
		}
		return DriverSQLite, sqliteDSN(path), nil
	}

	return "", "", fmt.Errorf("unsupported database url scheme: %q", schemeOf(raw))
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

func schemeOf(raw string) string {
	if idx := strings.Index(raw, "://"); idx >= 0 {
		return raw[:idx]
	}
	return raw
}
