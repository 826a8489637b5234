//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestArchiveWithMySQL tests the archive commands with a MySQL backend.
func TestArchiveWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "tlxkit",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/tlxkit", host, port.Port())
	exerciseArchive(t, "mysql", connStr)
}

// TestArchiveWithPostgres tests the archive commands with a PostgreSQL backend.
func TestArchiveWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseArchive(t, "postgresql", connStr)
}

// exerciseArchive migrates, records one session twice, then reports,
// exports and clears the archive.
func exerciseArchive(t *testing.T, backend, connStr string) {
	t.Setenv("TLXKIT_ARCHIVE_BACKEND", backend)
	t.Setenv("TLXKIT_ARCHIVE_DB_CONNECT", connStr)

	dir := t.TempDir()
	script := writeScript(t, dir)

	output, err := runTlxkit(t, dir, "archive", "migrate")
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully migrated")

	output, err = runTlxkit(t, dir, "archive", "migrate", "--target-version", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "to version 1")

	_, err = runTlxkit(t, dir, "archive", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runTlxkit(t, dir, "run", script, "--output", "csv")
		require.NoError(t, err)
	}

	output, err = runTlxkit(t, dir, "archive", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Sessions: 2")
	assert.Contains(t, output, "Total Tasks: 4")

	out := filepath.Join(dir, "study")
	_, err = runTlxkit(t, dir, "archive", "export", "--output-file", out)
	require.NoError(t, err)
	for _, suffix := range []string{".sessions.parquet", ".task_results.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	output, err = runTlxkit(t, dir, "archive", "clear")
	require.NoError(t, err)
	assert.Contains(t, output, "Archive cleared successfully.")

	// Opening the archive again recreates empty tables
	output, err = runTlxkit(t, dir, "archive", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Sessions: 0")
}
