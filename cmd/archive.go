package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tlxkit/tlxkit/internal/archive"
	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// loadArchiveConfig reads the archive settings without the full shared
// setup, so archive commands work without a session configuration.
func loadArchiveConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseDatabaseBackend(viper.GetString("archive-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("archive-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.ArchiveBackend = backend
	cfg.ArchiveDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// archiveSetup loads minimal configuration needed for archive operations
// and opens the archive.
func archiveSetup() error {
	if err := loadArchiveConfig(); err != nil {
		return err
	}
	if err := archive.InitArchive(cfg.ArchiveBackend, cfg.ArchiveDBConnect); err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	return nil
}

// archiveSetupWrapper wraps archiveSetup to provide PreRunE for archive commands.
func archiveSetupWrapper(_ *cobra.Command, _ []string) error {
	return archiveSetup()
}

// archiveMigrateSetupWrapper loads the archive settings without opening the
// archive, so migrations run against a database without tables.
func archiveMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadArchiveConfig()
}

// sqliteArchivePath returns the SQLite file of the archive.
func sqliteArchivePath() string {
	if cfg.ArchiveDBConnect != "" {
		return cfg.ArchiveDBConnect
	}
	return archive.GetArchiveDBFilePath()
}

// archiveCmd focused on results archive management.
//
// Note: Archive subcommands use minimal initialization (archiveSetup) instead of
// the full sharedSetup used by session commands.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the results archive of exported sessions",
	Long: `Manage the database that finished sessions are exported to.

When --archive-backend is set, 'tlxkit run' records each session in the archive:
- one session row (study, participant, mode, export time, task count)
- one row per task with its ratings, weight snapshots and six scores

Sessions are only ever written, reported and exported. They are never loaded
back into a live session.

Supported backends: SQLite (~/.tlxkit_archive.db), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show archive statistics
  export  - Export the archive to Parquet
  clear   - Remove all archived sessions
  migrate - Run database schema migrations

Examples:
  # Check the local archive
  tlxkit archive status --archive-backend sqlite

  # Export for analysis in pandas/DuckDB
  tlxkit archive export --archive-backend sqlite --output-file study`,
}

// archiveStatusCmd shows archive status.
var archiveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display archive statistics and connection details",
	Long: `Show the backend, connection state, number of archived sessions and tasks,
the oldest and newest export times and the row count of each table.

Examples:
  tlxkit archive status --archive-backend sqlite`,
	PreRunE: archiveSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := archive.Manager.GetArchiveStore()
		if store == nil {
			contract.LogFatal("Failed to get archive status", fmt.Errorf("no archive backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get archive status", err)
		}
		archive.PrintArchiveStatus(os.Stdout, status)
	},
}

// archiveClearCmd clears the archive.
var archiveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every archived session",
	Long: `Delete all archived sessions and task rows.

For SQLite the database file is removed. For MySQL and PostgreSQL the archive
tables and the migration history are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  tlxkit archive export --archive-backend sqlite --output-file backup
  tlxkit archive clear --archive-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadArchiveConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := archive.ClearArchive(cfg.ArchiveBackend, sqliteArchivePath(), cfg.ArchiveDBConnect); err != nil {
			contract.LogFatal("Failed to clear archive", err)
		}
		fmt.Println("Archive cleared successfully.")
	},
}

// archiveExportCmd exports the archive to Parquet files.
var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived sessions to Parquet",
	Long: `Export the whole archive to two Parquet files:
- <output-file>.sessions.parquet     one row per session
- <output-file>.task_results.parquet one row per task, scores null when unavailable

Requires: --output-file parameter

Examples:
  tlxkit archive export --archive-backend sqlite --output-file study

  # Average weighted TLX per participant with DuckDB
  duckdb -c "SELECT s.participant, avg(t.weighted_tlx)
             FROM 'study.task_results.parquet' t
             JOIN 'study.sessions.parquet' s USING (session_id)
             GROUP BY 1"`,
	PreRunE: archiveSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := archive.ExecuteArchiveExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export archive", err)
		}
	},
}

// archiveMigrateCmd runs database migrations for the archive.
var archiveMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage the schema version of the results archive.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  tlxkit archive migrate --archive-backend postgresql --archive-db-connect "host=localhost dbname=tlx"

  # Migrate to specific version
  tlxkit archive migrate --archive-backend sqlite --target-version 1

  # Rollback to initial state
  tlxkit archive migrate --archive-backend sqlite --target-version 0`,
	PreRunE: archiveMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.ArchiveDBConnect
		if cfg.ArchiveBackend == schema.SQLiteBackend {
			connStr = sqliteArchivePath()
		}
		targetVersion := viper.GetInt("target-version")
		if err := archive.MigrateArchive(os.Stdout, cfg.ArchiveBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
