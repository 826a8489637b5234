package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionInfo identifies the study session that produced a set of task results.
type SessionInfo struct {
	Study       string      `json:"study"`
	Participant string      `json:"participant"`
	Mode        ScoringMode `json:"mode"`
}

// FileName returns "<study>_<participant>.<ext>"; names pass through verbatim.
func (s SessionInfo) FileName(ext string) string {
	return s.Study + "_" + s.Participant + "." + ext
}

// TaskResult is an immutable record of one scored task.
// The weight maps are snapshots taken when the task was scored.
type TaskResult struct {
	ID         int        `json:"task_id"`
	Name       string     `json:"task_name"`
	Ratings    RatingMap  `json:"ratings"`
	TLXWeights WeightMap  `json:"tlx_weights,omitempty"`
	SAQWeights WeightMap  `json:"saq_weights,omitempty"`
	Scores     TaskScores `json:"scores"`
}

// SessionResults is the render model handed to the writers.
type SessionResults struct {
	SessionInfo
	TLXWeights WeightMap    `json:"tlx_weights,omitempty"`
	SAQWeights WeightMap    `json:"saq_weights,omitempty"`
	Tasks      []TaskResult `json:"tasks"`
}

// ArchiveStatus represents the status of the results archive.
type ArchiveStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSessions    int              `json:"total_sessions"`
	LastSessionID    int64            `json:"last_session_id"`
	LastExportTime   time.Time        `json:"last_export_time"`
	OldestExportTime time.Time        `json:"oldest_export_time"`
	TotalTasks       int              `json:"total_tasks"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// SessionRecord represents a row from the tlx_sessions table.
type SessionRecord struct {
	SessionID   int64
	Study       string
	Participant string
	Mode        string
	ExportedAt  time.Time
	TaskCount   int32
}

// TaskResultRecord represents a row from the tlx_task_results table.
// Ratings and weights are JSON objects; nil scores are unavailable.
type TaskResultRecord struct {
	SessionID        int64
	TaskID           int32
	TaskName         string
	Ratings          string
	TLXWeights       *string
	SAQWeights       *string
	RawTLX           *float64
	WeightedTLX      *float64
	RawSAQ           *float64
	WeightedSAQ      *float64
	CombinedRaw      *float64
	CombinedWeighted *float64
}

// encodeJSONField encodes v as a JSON string column value.
func encodeJSONField(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TaskRecords flattens the tasks into archive rows of the given session.
// Weight maps that were not snapshotted stay nil.
func (r SessionResults) TaskRecords(sessionID int64) ([]TaskResultRecord, error) {
	out := make([]TaskResultRecord, len(r.Tasks))
	for i, task := range r.Tasks {
		ratings, err := encodeJSONField(task.Ratings)
		if err != nil {
			return nil, fmt.Errorf("task %d ratings: %w", task.ID, err)
		}
		rec := TaskResultRecord{
			SessionID:        sessionID,
			TaskID:           int32(task.ID),
			TaskName:         task.Name,
			Ratings:          ratings,
			RawTLX:           task.Scores.RawTLX.Ptr(),
			WeightedTLX:      task.Scores.WeightedTLX.Ptr(),
			RawSAQ:           task.Scores.RawSAQ.Ptr(),
			WeightedSAQ:      task.Scores.WeightedSAQ.Ptr(),
			CombinedRaw:      task.Scores.CombinedRaw.Ptr(),
			CombinedWeighted: task.Scores.CombinedWeighted.Ptr(),
		}
		if task.TLXWeights != nil {
			w, err := encodeJSONField(task.TLXWeights)
			if err != nil {
				return nil, fmt.Errorf("task %d tlx weights: %w", task.ID, err)
			}
			rec.TLXWeights = &w
		}
		if task.SAQWeights != nil {
			w, err := encodeJSONField(task.SAQWeights)
			if err != nil {
				return nil, fmt.Errorf("task %d saq weights: %w", task.ID, err)
			}
			rec.SAQWeights = &w
		}
		out[i] = rec
	}
	return out, nil
}
