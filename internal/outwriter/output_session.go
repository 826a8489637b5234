package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/internal/parquet"
	"github.com/tlxkit/tlxkit/schema"
)

// PrintSessionResults writes the session results in the configured format,
// to the configured output file, the download file name, or stdout.
func PrintSessionResults(results schema.SessionResults, cfg *contract.Config, duration time.Duration) error {
	outputFile := resolveOutputFile(cfg, results.SessionInfo)

	switch cfg.Output {
	case schema.ParquetOut:
		if outputFile == "" {
			return fmt.Errorf("parquet output requires --output-file or --download")
		}
		if err := parquet.WriteTaskResultsFile(outputFile, results); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
		return nil
	case schema.JSONOut:
		return writeWithFile(outputFile, func(w io.Writer) error {
			return WriteSessionJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(outputFile, func(w io.Writer) error {
			return WriteSessionCSV(w, results)
		}, "Wrote CSV")
	default:
		return writeWithFile(outputFile, func(w io.Writer) error {
			return WriteSessionTable(w, results, cfg, duration)
		}, "Wrote table")
	}
}

// WriteSessionTable writes the human-readable results table.
func WriteSessionTable(w io.Writer, results schema.SessionResults, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Id", "Task", "Section"}
	for _, in := range results.Mode.Instruments() {
		for _, id := range in.IDs() {
			headers = append(headers, string(id))
		}
	}
	headers = append(headers, "Raw", "Weighted", "Band")
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	sectionLabel, nanLabel := fmt.Sprint, fmt.Sprint
	bandLabel := contract.GetPlainLabel
	if cfg.UseColors {
		sectionLabel = contract.SectionColor.Sprint
		nanLabel = contract.NaNColor.Sprint
		bandLabel = contract.GetColorLabel
	}
	formatScore := func(s schema.Score) string {
		if !s.IsValid() {
			return nanLabel(schema.NaN)
		}
		return s.Format(contract.DefaultScoreDigits)
	}

	nameWidth := GetMaxTableNameWidth(cfg, len(headers))
	var data [][]string
	for _, task := range results.Tasks {
		name := task.Name
		if name == "" {
			name = "-"
		}
		for _, section := range results.Mode.Sections() {
			row := []string{
				strconv.Itoa(task.ID),
				contract.TruncateName(name, nameWidth),
				sectionLabel(string(section)),
			}
			row = append(row, tableRatings(results.Mode, task, section)...)
			raw, weighted := sectionScores(task.Scores, section)
			row = append(row, formatScore(raw), formatScore(weighted), bandLabel(weighted))
			data = append(data, row)
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	header := "Session"
	if cfg.UseEmojis {
		header = "🧠 Session"
	}
	if _, err := fmt.Fprintf(w, "%s %s / %s (%s mode): %d tasks\n", header, results.Study, results.Participant, results.Mode, len(results.Tasks)); err != nil {
		return err
	}
	for _, in := range results.Mode.Instruments() {
		weights := results.TLXWeights
		if in == schema.SAQ {
			weights = results.SAQWeights
		}
		if _, err := fmt.Fprintf(w, "%s weights: %s\n", in.Name(), formatWeightMap(in, weights)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Scored in %v. Archive backend: %s\n", duration, cfg.ArchiveBackend); err != nil {
		return err
	}
	return nil
}

// tableRatings returns the rating cells of a table row. The table only has
// columns for instruments of the mode; cells outside the section are empty.
func tableRatings(mode schema.ScoringMode, task schema.TaskResult, section schema.Section) []string {
	var cells []string
	for _, in := range mode.Instruments() {
		covered := (in == schema.TLX && section == schema.TLXSection) ||
			(in == schema.SAQ && section == schema.SAQSection)
		for _, id := range in.IDs() {
			if covered {
				cells = append(cells, strconv.Itoa(task.Ratings[id]))
			} else {
				cells = append(cells, "")
			}
		}
	}
	return cells
}

// formatWeightMap renders a weight map in subscale order, "unset" when any entry is negative.
func formatWeightMap(in *schema.Instrument, weights schema.WeightMap) string {
	if !weights.Valid() {
		return "unset"
	}
	out := ""
	for i, id := range in.IDs() {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", id, weights[id])
	}
	return out
}
