package archive

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"    // MySQL driver and DSN parsing
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// Table names of the results archive.
const (
	sessionsTable    = "tlx_sessions"
	taskResultsTable = "tlx_task_results"
)

// archiveTables lists every archive table in creation order.
var archiveTables = []string{sessionsTable, taskResultsTable}

// ArchiveStoreImpl implements the ArchiveStore interface.
type ArchiveStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ArchiveStore = &ArchiveStoreImpl{} // Compile-time check

// driverFor returns the database/sql driver name registered for a backend.
func driverFor(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// migrationsDir returns the embedded migrations directory of a backend's SQL dialect.
func migrationsDir(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "migrations/mysql"
	case schema.PostgreSQLBackend:
		return "migrations/postgres"
	default:
		return "migrations/sqlite"
	}
}

// mysqlDSN makes sure DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// openDB opens and pings the database of a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetArchiveDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		dsn, err := mysqlDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w. Expected format: user:password@tcp(host:port)/dbname", err)
		}
		db, err = sql.Open(driverFor(backend), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewArchiveStore creates a new ArchiveStore with the specified backend.
// The none backend returns a store that accepts and discards everything.
func NewArchiveStore(backend schema.DatabaseBackend, connStr string) (contract.ArchiveStore, error) {
	if backend == schema.NoneBackend {
		return &ArchiveStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createArchiveTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create archive tables: %w", err)
	}

	return &ArchiveStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverFor(backend),
	}, nil
}

// createArchiveTables applies the up migrations of the backend's dialect.
// Every statement is idempotent, so a migrated database is left untouched.
func createArchiveTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir := migrationsDir(backend)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var ups []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			ups = append(ups, entry.Name())
		}
	}
	sort.Strings(ups)

	for _, name := range ups {
		query, err := fs.ReadFile(migrationsFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
	}
	return nil
}

// placeholders returns n bind parameters in the backend's syntax.
func placeholders(backend schema.DatabaseBackend, n int) string {
	marks := make([]string, n)
	for i := range marks {
		if backend == schema.PostgreSQLBackend {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// RecordSession writes one session row and one row per task in a single
// transaction, returning the new session ID. The none backend returns 0.
func (as *ArchiveStoreImpl) RecordSession(results schema.SessionResults, exportedAt time.Time) (int64, error) {
	// Skip for NoneBackend
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sessionsName := quoteTableName(sessionsTable, as.backend)
	args := []any{results.Study, results.Participant, string(results.Mode), formatTime(exportedAt, as.backend), len(results.Tasks)}
	columns := "(study, participant, mode, exported_at, task_count)"

	var sessionID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s %s VALUES (%s) RETURNING session_id`, sessionsName, columns, placeholders(as.backend, len(args)))
		err = tx.QueryRow(query, args...).Scan(&sessionID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s %s VALUES (%s)`, sessionsName, columns, placeholders(as.backend, len(args)))
		var result sql.Result
		result, err = tx.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert session: %w", err)
		}
		sessionID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	records, err := results.TaskRecords(sessionID)
	if err != nil {
		return 0, err
	}

	taskQuery := fmt.Sprintf(`
		INSERT INTO %s (session_id, task_id, task_name, ratings, tlx_weights, saq_weights,
		                raw_tlx, weighted_tlx, raw_saq, weighted_saq, combined_raw, combined_weighted)
		VALUES (%s)
	`, quoteTableName(taskResultsTable, as.backend), placeholders(as.backend, 12))
	for _, rec := range records {
		_, err := tx.Exec(taskQuery,
			rec.SessionID, rec.TaskID, rec.TaskName, rec.Ratings, rec.TLXWeights, rec.SAQWeights,
			rec.RawTLX, rec.WeightedTLX, rec.RawSAQ, rec.WeightedSAQ, rec.CombinedRaw, rec.CombinedWeighted)
		if err != nil {
			return 0, fmt.Errorf("failed to insert task %d: %w", rec.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return sessionID, nil
}

// Close closes the underlying connection.
func (as *ArchiveStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// scanTime reads a time column, which SQLite stores as RFC 3339 text.
func (as *ArchiveStoreImpl) scanTime(row interface{ Scan(...any) error }, dest *time.Time, extra ...any) error {
	if as.backend != schema.SQLiteBackend {
		return row.Scan(append(extra, dest)...)
	}
	var text string
	if err := row.Scan(append(extra, &text)...); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", text, err)
	}
	*dest = parsed
	return nil
}

// GetStatus returns status information about the archive.
func (as *ArchiveStoreImpl) GetStatus() (schema.ArchiveStatus, error) {
	status := schema.ArchiveStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	sessionsName := quoteTableName(sessionsTable, as.backend)

	// Get total sessions
	row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", sessionsName))
	if err := row.Scan(&status.TotalSessions); err != nil {
		return status, fmt.Errorf("failed to get total sessions: %w", err)
	}

	if status.TotalSessions > 0 {
		// Get last session info
		row = as.db.QueryRow(fmt.Sprintf("SELECT session_id, exported_at FROM %s ORDER BY session_id DESC LIMIT 1", sessionsName))
		if err := as.scanTime(row, &status.LastExportTime, &status.LastSessionID); err != nil {
			return status, fmt.Errorf("failed to get last session info: %w", err)
		}

		// Get oldest export time
		row = as.db.QueryRow(fmt.Sprintf("SELECT exported_at FROM %s ORDER BY session_id ASC LIMIT 1", sessionsName))
		if err := as.scanTime(row, &status.OldestExportTime); err != nil {
			return status, fmt.Errorf("failed to get oldest export time: %w", err)
		}

		// Get total tasks
		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(task_count), 0) FROM %s", sessionsName))
		if err := row.Scan(&status.TotalTasks); err != nil {
			return status, fmt.Errorf("failed to get total tasks: %w", err)
		}
	}

	// Get table sizes
	for _, table := range archiveTables {
		var count int64
		row = as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllSessions retrieves every archived session, oldest first.
func (as *ArchiveStoreImpl) GetAllSessions() ([]schema.SessionRecord, error) {
	// Skip for NoneBackend
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT session_id, study, participant, mode, task_count, exported_at FROM %s ORDER BY session_id",
		quoteTableName(sessionsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SessionRecord
	for rows.Next() {
		var record schema.SessionRecord
		if err := as.scanTime(rows, &record.ExportedAt,
			&record.SessionID, &record.Study, &record.Participant, &record.Mode, &record.TaskCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return results, nil
}

// GetAllTaskResults retrieves every archived task row, ordered by session and task.
func (as *ArchiveStoreImpl) GetAllTaskResults() ([]schema.TaskResultRecord, error) {
	// Skip for NoneBackend
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT session_id, task_id, task_name, ratings, tlx_weights, saq_weights,
    raw_tlx, weighted_tlx, raw_saq, weighted_saq, combined_raw, combined_weighted
    FROM %s ORDER BY session_id, task_id`, quoteTableName(taskResultsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query task results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TaskResultRecord
	for rows.Next() {
		var r schema.TaskResultRecord
		if err := rows.Scan(&r.SessionID, &r.TaskID, &r.TaskName, &r.Ratings, &r.TLXWeights, &r.SAQWeights,
			&r.RawTLX, &r.WeightedTLX, &r.RawSAQ, &r.WeightedSAQ, &r.CombinedRaw, &r.CombinedWeighted); err != nil {
			return nil, fmt.Errorf("failed to scan task result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task results: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// quoteTableName quotes a table name for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}
