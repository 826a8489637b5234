package core

import (
	"slices"

	"github.com/tlxkit/tlxkit/schema"
)

// Ledger is the append-only list of scored tasks in a session.
// It is a value type: Append and Reset return a new ledger and never
// touch the receiver.
type Ledger struct {
	records []schema.TaskResult
}

// Len returns the number of records.
func (l Ledger) Len() int { return len(l.records) }

// NextID returns the id the next appended record will get.
func (l Ledger) NextID() int {
	if len(l.records) == 0 {
		return 1
	}
	return l.records[len(l.records)-1].ID + 1
}

// Append returns a ledger with one more record. Ratings and weights are
// copied, so later changes by the caller do not reach the record.
func (l Ledger) Append(name string, ratings schema.RatingMap, tlxWeights, saqWeights schema.WeightMap, scores schema.TaskScores) (Ledger, schema.TaskResult) {
	record := schema.TaskResult{
		ID:         l.NextID(),
		Name:       name,
		Ratings:    ratings.Clone(),
		TLXWeights: tlxWeights.Clone(),
		SAQWeights: saqWeights.Clone(),
		Scores:     scores,
	}
	next := make([]schema.TaskResult, len(l.records), len(l.records)+1)
	copy(next, l.records)
	return Ledger{records: append(next, record)}, record
}

// Reset returns an empty ledger whose next id is 1.
func (l Ledger) Reset() Ledger {
	return Ledger{}
}

// Records returns the records in insertion order. The slice is a copy;
// the maps inside are shared and must be treated as read-only.
func (l Ledger) Records() []schema.TaskResult {
	if len(l.records) == 0 {
		return []schema.TaskResult{}
	}
	return slices.Clone(l.records)
}
