package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantDriver Driver
		wantDSN    string
	}{
		{
			name:       "empty falls back to sqlite",
			raw:        "",
			wantDriver: DriverSQLite,
			wantDSN:    "/tmp/test.db?" + sqlitePragmas,
		},
		{
			name:       "postgres scheme is rewritten",
			raw:        "postgres://u:p@localhost:5432/castdb",
			wantDriver: DriverPostgres,
			wantDSN:    "postgresql://u:p@localhost:5432/castdb",
		},
		{
			name:       "postgresql scheme is kept",
			raw:        "postgresql://u:p@localhost:5432/castdb?sslmode=disable",
			wantDriver: DriverPostgres,
			wantDSN:    "postgresql://u:p@localhost:5432/castdb?sslmode=disable",
		},
		{
			name:       "absolute sqlite path",
			raw:        "sqlite:////var/lib/castdb.db",
			wantDriver: DriverSQLite,
			wantDSN:    "/var/lib/castdb.db?" + sqlitePragmas,
		},
		{
			name:       "relative sqlite path",
			raw:        "sqlite:///castdb.db",
			wantDriver: DriverSQLite,
			wantDSN:    "castdb.db?" + sqlitePragmas,
		},
		{
			name:       "sqlite path with query",
			raw:        "sqlite:///castdb.db?cache=shared",
			wantDriver: DriverSQLite,
			wantDSN:    "castdb.db?cache=shared&" + sqlitePragmas,
		},
		{
			name:       "bare sqlite scheme is in-memory",
			raw:        "sqlite://",
			wantDriver: DriverSQLite,
			wantDSN:    ":memory:?" + sqlitePragmas,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestParseURL_UnsupportedScheme(t *testing.T) {
	_, _, err := ParseURL("mysql://root@localhost/castdb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mysql"`)
}

func TestUpMigration(t *testing.T) {
	content := "CREATE TABLE a (id INTEGER);\n" + migrationSeparator + "\nDROP TABLE a;"
	assert.Equal(t, "CREATE TABLE a (id INTEGER);\n", upMigration(content))
	assert.Equal(t, "SELECT 1;", upMigration("SELECT 1;"))
}
