package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlxkit/tlxkit/internal/parquet"
	"github.com/tlxkit/tlxkit/schema"
)

func TestClearArchive_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	store, err := NewArchiveStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearArchive(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is not an error
	assert.NoError(t, ClearArchive(schema.SQLiteBackend, dbPath, ""))
}

func TestClearArchive_Errors(t *testing.T) {
	assert.NoError(t, ClearArchive(schema.NoneBackend, "", ""))
	assert.Error(t, ClearArchive(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearArchive("oracle", "", ""))
}

func TestArchiveStoreManager(t *testing.T) {
	mgr := &ArchiveStoreManager{}
	assert.Nil(t, mgr.GetArchiveStore())

	store := &MockArchiveStore{}
	mgr.store = store
	assert.Same(t, store, mgr.GetArchiveStore())
}

func TestExportArchive(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.RecordSession(sampleResults(), time.Now())
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "export")
	var out bytes.Buffer
	require.NoError(t, ExportArchive(&out, store, base))
	assert.Contains(t, out.String(), "Exported 1 sessions")
	assert.Contains(t, out.String(), "Exported 2 task records")

	rows, err := parquet.ReadTaskResultsFile(base + ".task_results.parquet")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "landing", rows[0].TaskName)
	assert.Nil(t, rows[0].WeightedSAQ)

	_, err = os.Stat(base + ".sessions.parquet")
	assert.NoError(t, err)
}

func TestExportArchive_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, ExportArchive(&out, &MockArchiveStore{}, ""), "--output-file is required")
	assert.ErrorContains(t, ExportArchive(&out, nil, "x"), "not initialized")

	empty := &MockArchiveStore{}
	empty.On("GetStatus").Return(schema.ArchiveStatus{Backend: "sqlite", Connected: true}, nil)
	assert.ErrorContains(t, ExportArchive(&out, empty, "x"), "no archived sessions")
	empty.AssertExpectations(t)

	failing := &MockArchiveStore{}
	failing.On("GetStatus").Return(schema.ArchiveStatus{TotalSessions: 1}, nil)
	failing.On("GetAllSessions").Return(nil, assert.AnError)
	assert.ErrorIs(t, ExportArchive(&out, failing, "x"), assert.AnError)
	failing.AssertNotCalled(t, "GetAllTaskResults")
}

func TestPrintArchiveStatus(t *testing.T) {
	var out bytes.Buffer
	PrintArchiveStatus(&out, schema.ArchiveStatus{Backend: "none"})
	assert.Equal(t, "Archive Backend: none\nConnected: false\n", out.String())

	out.Reset()
	PrintArchiveStatus(&out, schema.ArchiveStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalSessions:    3,
		LastSessionID:    3,
		LastExportTime:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		OldestExportTime: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		TotalTasks:       7,
		TableSizes:       map[string]int64{taskResultsTable: 7, sessionsTable: 3},
	})
	text := out.String()
	assert.Contains(t, text, "Last Export: 2026-05-02 10:00:00")
	assert.Contains(t, text, "Total Tasks: 7")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(sessionsTable)), bytes.Index(out.Bytes(), []byte(taskResultsTable)))
}
