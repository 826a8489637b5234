package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tlxkit/tlxkit/core/algo"
	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// sectionRow builds one export row of task for the given section. Rating
// columns of instruments the section does not cover are left empty.
func sectionRow(participant string, task schema.TaskResult, section schema.Section) []string {
	row := make([]string, 0, len(schema.CSVHeader()))
	row = append(row, participant, strconv.Itoa(task.ID), task.Name, string(section))

	for _, id := range schema.TLX.IDs() {
		if section == schema.TLXSection {
			row = append(row, strconv.Itoa(task.Ratings[id]))
		} else {
			row = append(row, "")
		}
	}
	for _, id := range schema.SAQ.IDs() {
		if section == schema.SAQSection {
			row = append(row, strconv.FormatFloat(algo.MapSAQTo100(task.Ratings[id]), 'f', contract.DefaultSAQDigits, 64))
		} else {
			row = append(row, "")
		}
	}

	raw, weighted := sectionScores(task.Scores, section)
	return append(row, raw.Format(contract.DefaultScoreDigits), weighted.Format(contract.DefaultScoreDigits))
}

// sectionScores picks the raw and weighted score shown in a section row.
func sectionScores(scores schema.TaskScores, section schema.Section) (raw, weighted schema.Score) {
	switch section {
	case schema.SAQSection:
		return scores.RawSAQ, scores.WeightedSAQ
	case schema.CombinedSection:
		return scores.CombinedRaw, scores.CombinedWeighted
	default:
		return scores.RawTLX, scores.WeightedTLX
	}
}

// SessionCSVRows returns the data rows of the results export: one row per
// task and section of the mode, in ledger order.
func SessionCSVRows(results schema.SessionResults) [][]string {
	sections := results.Mode.Sections()
	rows := make([][]string, 0, len(results.Tasks)*len(sections))
	for _, task := range results.Tasks {
		for _, section := range sections {
			rows = append(rows, sectionRow(results.Participant, task, section))
		}
	}
	return rows
}

// WriteSessionCSV writes the 19-column results export to w.
func WriteSessionCSV(w io.Writer, results schema.SessionResults) error {
	return writeCSVWithHeader(w, schema.CSVHeader(), func(cw *csv.Writer) error {
		for _, row := range SessionCSVRows(results) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// jsonTask adds the workload band to a task record.
type jsonTask struct {
	schema.TaskResult
	Band string `json:"band"`
}

// jsonSession is the JSON render model of a session.
type jsonSession struct {
	schema.SessionInfo
	TLXWeights schema.WeightMap `json:"tlx_weights,omitempty"`
	SAQWeights schema.WeightMap `json:"saq_weights,omitempty"`
	Tasks      []jsonTask       `json:"tasks"`
}

// primaryWeighted returns the weighted score that summarizes a task in mode.
func primaryWeighted(mode schema.ScoringMode, scores schema.TaskScores) schema.Score {
	switch mode {
	case schema.SAQMode:
		return scores.WeightedSAQ
	case schema.CombinedMode:
		return scores.CombinedWeighted
	default:
		return scores.WeightedTLX
	}
}

// WriteSessionJSON writes the session as indented JSON. Unavailable scores are null.
func WriteSessionJSON(w io.Writer, results schema.SessionResults) error {
	out := jsonSession{
		SessionInfo: results.SessionInfo,
		TLXWeights:  results.TLXWeights,
		SAQWeights:  results.SAQWeights,
		Tasks:       make([]jsonTask, len(results.Tasks)),
	}
	for i, task := range results.Tasks {
		out.Tasks[i] = jsonTask{
			TaskResult: task,
			Band:       contract.GetPlainLabel(primaryWeighted(results.Mode, task.Scores)),
		}
	}
	return writeJSON(w, out)
}
