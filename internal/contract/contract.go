// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/tlxkit/tlxkit/schema"
)

// ArchiveManager hands out the results archive.
// This allows the archive layer to be mocked for testing.
type ArchiveManager interface {
	GetArchiveStore() ArchiveStore
}

// ArchiveStore is an export sink for finished sessions. Sessions written
// here are reported and exported, never loaded back into a live session.
type ArchiveStore interface {
	// RecordSession writes the session and all of its task records, returning the session ID
	RecordSession(results schema.SessionResults, exportedAt time.Time) (int64, error)

	// GetStatus returns status information about the archive
	GetStatus() (schema.ArchiveStatus, error)

	// GetAllSessions returns every archived session row
	GetAllSessions() ([]schema.SessionRecord, error)

	// GetAllTaskResults returns every archived task row
	GetAllTaskResults() ([]schema.TaskResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
