package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Both dialects share tern's file naming and the tern separator; the SQLite
// applier only runs the part above it.
//
//go:embed migrations
var migrations embed.FS

const (
	versionTable       = "schema_version"
	migrationSeparator = "---- create above / drop below ----"
)

// Migrate brings the schema up to date for the configured driver.
//
// PostgreSQL migrations run through jackc/tern on a dedicated connection.
// SQLite migrations are applied once per file and recorded in schema_version.
func Migrate(ctx context.Context, logger *zerolog.Logger, databaseURL string) error {
	driver, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return err
	}

	subtree, err := fs.Sub(migrations, "migrations/"+string(driver))
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	switch driver {
	case DriverPostgres:
		return migratePostgres(ctx, logger, dsn, subtree)
	default:
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return fmt.Errorf("open sqlite db: %w", err)
		}
		defer sqlDB.Close()
		return migrateSQLite(ctx, logger, sqlDB, subtree)
	}
}

// MigrateDatabase migrates an already open Database. For SQLite this uses the
// open handle, which is the only option for in-memory databases.
func MigrateDatabase(ctx context.Context, logger *zerolog.Logger, db *Database, databaseURL string) error {
	if db.Driver == DriverSQLite {
		subtree, err := fs.Sub(migrations, "migrations/"+string(DriverSQLite))
		if err != nil {
			return fmt.Errorf("retrieving database migrations subtree: %w", err)
		}
		return migrateSQLite(ctx, logger, db.SQL, subtree)
	}
	return Migrate(ctx, logger, databaseURL)
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, dsn string, subtree fs.FS) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	logMigrationOutcome(logger, int(from), len(m.Migrations))
	return nil
}

func migrateSQLite(ctx context.Context, logger *zerolog.Logger, sqlDB *sql.DB, subtree fs.FS) error {
	entries, err := fs.ReadDir(subtree, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);`, versionTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	var from int
	if err := sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+versionTable).Scan(&from); err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	for _, file := range sqlFiles {
		applied, err := isApplied(ctx, sqlDB, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(subtree, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if err := applySQLiteMigration(ctx, sqlDB, file, upMigration(string(content))); err != nil {
			return err
		}
	}

	logMigrationOutcome(logger, from, len(sqlFiles))
	return nil
}

func applySQLiteMigration(ctx context.Context, sqlDB *sql.DB, name, upSQL string) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(upSQL) != "" {
		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+versionTable+" (name, applied_at) VALUES ($1, $2)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// upMigration returns the part of a tern migration above the separator.
func upMigration(content string) string {
	if idx := strings.Index(content, migrationSeparator); idx >= 0 {
		return content[:idx]
	}
	return content
}

func isApplied(ctx context.Context, sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+versionTable+" WHERE name = $1", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func logMigrationOutcome(logger *zerolog.Logger, from, to int) {
	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
}
