package archive

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &ArchiveStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetArchiveDBFilePath returns the path to the SQLite DB file of the archive.
func GetArchiveDBFilePath() string {
	return contract.GetArchiveDBFilePath()
}

// InitArchive initializes the global manager with a store for backend.
// An empty backend leaves the manager without a store.
func InitArchive(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewArchiveStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize results archive: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseArchive should be called on application shutdown.
func CloseArchive() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearArchive clears the archive for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the archive tables.
// For NoneBackend, it does nothing.
func ClearArchive(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		// Drop children first
		for i := len(archiveTables) - 1; i >= 0; i-- {
			if err := dropTable(db, backend, archiveTables[i]); err != nil {
				return err
			}
		}
		return dropTable(db, backend, "schema_migrations")

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported archive backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, tableName string) error {
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
