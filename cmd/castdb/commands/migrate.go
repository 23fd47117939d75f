package commands

import (
	"github.com/deppfellow/castdb/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration to the configured database and exit.

PostgreSQL migrations run through tern and are tracked in schema_version.
SQLite migrations are tracked in a table of the same name.

Examples:
  castdb migrate
  castdb migrate --db sqlite:///var/lib/castdb/castdb.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loggerService, log := setupLogging(cfg)
	defer loggerService.Shutdown()

	if err := database.Migrate(cmd.Context(), &log, cfg.Database.URL); err != nil {
		log.Error().Err(err).Msg("failed to migrate database")
		return err
	}

	return nil
}
