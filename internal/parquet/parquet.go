// Package parquet provides data structures and functions for exporting tlxkit
// session results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tlxkit/tlxkit/schema"
)

// Session represents one archived study session.
// This struct maps to the tlx_sessions database table.
type Session struct {
	// SessionID is the unique identifier of the archived session
	SessionID int64 `parquet:"session_id,snappy"`

	Study       string `parquet:"study,snappy"`
	Participant string `parquet:"participant,snappy"`

	// Mode is the scoring mode: tlx, saq or combined
	Mode string `parquet:"mode,snappy"`

	// ExportedAt is when the session was archived (stored as TIMESTAMP with nanosecond precision)
	ExportedAt time.Time `parquet:"exported_at,snappy"`

	TaskCount int32 `parquet:"task_count,snappy"`
}

// TaskResult represents one scored task.
// This struct maps to the tlx_task_results database table.
// Unavailable scores are stored as nulls.
type TaskResult struct {
	// SessionID references the parent session; zero for direct exports
	SessionID int64 `parquet:"session_id,snappy"`

	TaskID   int32  `parquet:"task_id,snappy"`
	TaskName string `parquet:"task_name,snappy"`

	// Ratings is the JSON-encoded rating map
	Ratings string `parquet:"ratings,snappy"`

	// TLXWeights and SAQWeights are the JSON-encoded weight snapshots (nullable)
	TLXWeights *string `parquet:"tlx_weights,optional,snappy"`
	SAQWeights *string `parquet:"saq_weights,optional,snappy"`

	RawTLX           *float64 `parquet:"raw_tlx,optional,snappy"`
	WeightedTLX      *float64 `parquet:"weighted_tlx,optional,snappy"`
	RawSAQ           *float64 `parquet:"raw_saq,optional,snappy"`
	WeightedSAQ      *float64 `parquet:"weighted_saq,optional,snappy"`
	CombinedRaw      *float64 `parquet:"combined_raw,optional,snappy"`
	CombinedWeighted *float64 `parquet:"combined_weighted,optional,snappy"`
}

// writeParquet writes rows to a new Parquet file whose schema is inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer; a failure here leaves an unreadable file
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSessionsParquet writes a slice of Session structs to a Parquet file.
func WriteSessionsParquet(data []Session, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTaskResultsParquet writes a slice of TaskResult structs to a Parquet file.
func WriteTaskResultsParquet(data []TaskResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteTaskResultsFile exports the tasks of a live session straight to a Parquet file.
func WriteTaskResultsFile(outputPath string, results schema.SessionResults) error {
	records, err := results.TaskRecords(0)
	if err != nil {
		return err
	}
	return WriteTaskResultsParquet(ConvertTaskResultRecords(records), outputPath)
}

// ReadTaskResultsFile loads every row of a task results Parquet file.
func ReadTaskResultsFile(path string) ([]TaskResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[TaskResult](file)
	defer func() { _ = reader.Close() }()

	rows := make([]TaskResult, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows[:n], nil
}

// ConvertSessionRecords converts schema.SessionRecord to Session for Parquet export.
func ConvertSessionRecords(records []schema.SessionRecord) []Session {
	result := make([]Session, len(records))
	for i, record := range records {
		result[i] = Session{
			SessionID:   record.SessionID,
			Study:       record.Study,
			Participant: record.Participant,
			Mode:        record.Mode,
			ExportedAt:  record.ExportedAt,
			TaskCount:   record.TaskCount,
		}
	}
	return result
}

// ConvertTaskResultRecords converts schema.TaskResultRecord to TaskResult for Parquet export.
func ConvertTaskResultRecords(records []schema.TaskResultRecord) []TaskResult {
	result := make([]TaskResult, len(records))
	for i, record := range records {
		result[i] = TaskResult{
			SessionID:        record.SessionID,
			TaskID:           record.TaskID,
			TaskName:         record.TaskName,
			Ratings:          record.Ratings,
			TLXWeights:       record.TLXWeights,
			SAQWeights:       record.SAQWeights,
			RawTLX:           record.RawTLX,
			WeightedTLX:      record.WeightedTLX,
			RawSAQ:           record.RawSAQ,
			WeightedSAQ:      record.WeightedSAQ,
			CombinedRaw:      record.CombinedRaw,
			CombinedWeighted: record.CombinedWeighted,
		}
	}
	return result
}
