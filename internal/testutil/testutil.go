// Package testutil builds fully wired servers for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/castdb/internal/config"
	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewConfig returns the default configuration pointed at databaseURL.
func NewConfig(databaseURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.Database.URL = databaseURL
	cfg.Observability.ServiceName = config.ServiceName
	cfg.Observability.Environment = cfg.Primary.Env
	cfg.Observability.Logging.SlowQueryThreshold = 0
	return cfg
}

// NewServer opens a migrated database at databaseURL and wraps it in a
// server container. The database is closed when the test ends.
func NewServer(t *testing.T, databaseURL string) *server.Server {
	t.Helper()

	cfg := NewConfig(databaseURL)
	logger := zerolog.Nop()

	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.MigrateDatabase(context.Background(), &logger, db, databaseURL))

	return server.NewWithDatabase(cfg, &logger, nil, db)
}

// NewSQLiteServer is NewServer on a fresh SQLite file in t.TempDir().
func NewSQLiteServer(t *testing.T) *server.Server {
	t.Helper()
	return NewServer(t, SQLiteURL(t))
}

// SQLiteURL returns a DATABASE_URL for a new SQLite file in t.TempDir().
func SQLiteURL(t *testing.T) string {
	t.Helper()
	return "sqlite:///" + filepath.Join(t.TempDir(), "castdb.db")
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
