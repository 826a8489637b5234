package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/internal/parquet"
)

// ExportArchive writes every archived session and task row to two Parquet
// files next to outputFile, reporting progress to w.
func ExportArchive(w io.Writer, store contract.ArchiveStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("results archive is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get archive status: %w", err)
	}
	if status.TotalSessions == 0 {
		return errors.New("no archived sessions found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total sessions: %d\n", status.TotalSessions)
	_, _ = fmt.Fprintf(w, "Total task records: %d\n", status.TableSizes[taskResultsTable])

	sessions, err := store.GetAllSessions()
	if err != nil {
		return fmt.Errorf("failed to retrieve sessions: %w", err)
	}
	tasks, err := store.GetAllTaskResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve task results: %w", err)
	}

	sessionsFile := outputFile + ".sessions.parquet"
	if err := parquet.WriteSessionsParquet(parquet.ConvertSessionRecords(sessions), sessionsFile); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sessions to: %s\n", len(sessions), sessionsFile)

	tasksFile := outputFile + ".task_results.parquet"
	if err := parquet.WriteTaskResultsParquet(parquet.ConvertTaskResultRecords(tasks), tasksFile); err != nil {
		return fmt.Errorf("failed to write task results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d task records to: %s\n", len(tasks), tasksFile)

	return nil
}

// ExecuteArchiveExport exports the global archive.
func ExecuteArchiveExport(w io.Writer, outputFile string) error {
	return ExportArchive(w, Manager.GetArchiveStore(), outputFile)
}
