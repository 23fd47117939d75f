// Package commands holds the castdb command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/deppfellow/castdb/internal/config"
	"github.com/deppfellow/castdb/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL    string
	logLevel string
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "castdb",
	Short: "castdb - REST API for characters, houses, books and their casts",
	Long: `castdb serves a JSON API over a PostgreSQL or SQLite database.

Configuration comes from the environment (DATABASE_URL, PORT, CASTDB_*)
and an optional .env file. Flags override the environment.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides CASTDB_LOG_LEVEL)")
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if logLevel != "" {
		cfg.Observability.Logging.Level = logLevel
	}

	return cfg, nil
}

// setupLogging starts the optional New Relic agent and builds the root logger.
func setupLogging(cfg *config.Config) (*logger.LoggerService, zerolog.Logger) {
	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return loggerService, log
}
