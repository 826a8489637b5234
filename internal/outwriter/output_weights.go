package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// errParquetUnsupported is returned for registry and weight output in parquet mode.
var errParquetUnsupported = errors.New("parquet output is only supported by the run command")

// PrintWeights writes a derived weight map in the configured format.
func PrintWeights(in *schema.Instrument, weights schema.WeightMap, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.ParquetOut:
		return errParquetUnsupported
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteWeightsJSON(w, in, weights)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteWeightsCSV(w, in, weights)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteWeightsTable(w, in, weights)
		}, "Wrote table")
	}
}

// WriteWeightsTable writes one row per subscale with its win count.
func WriteWeightsTable(w io.Writer, in *schema.Instrument, weights schema.WeightMap) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Id", "Subscale", "Weight"})
	var data [][]string
	for _, s := range in.Subscales() {
		data = append(data, []string{string(s.ID), s.Label, strconv.Itoa(weights[s.ID])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s weights sum to %d over %d pairs\n", in.Name(), weights.Sum(), in.PairCount())
	return err
}

// WriteWeightsCSV writes the weight map as "subscale,label,weight" rows.
func WriteWeightsCSV(w io.Writer, in *schema.Instrument, weights schema.WeightMap) error {
	return writeCSVWithHeader(w, []string{"subscale", "label", "weight"}, func(cw *csv.Writer) error {
		for _, s := range in.Subscales() {
			if err := cw.Write([]string{string(s.ID), s.Label, strconv.Itoa(weights[s.ID])}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// WriteWeightsJSON writes the weight map keyed by subscale id.
func WriteWeightsJSON(w io.Writer, in *schema.Instrument, weights schema.WeightMap) error {
	return writeJSON(w, struct {
		Instrument schema.InstrumentName `json:"instrument"`
		Weights    schema.WeightMap      `json:"weights"`
	}{in.Name(), weights})
}

// PairRecord is one pairwise comparison as rendered to users.
type PairRecord struct {
	Instrument schema.InstrumentName `json:"instrument"`
	PairID     string                `json:"pair_id"`
	First      string                `json:"first"`
	Second     string                `json:"second"`
}

// PairRecords lists the pairs of the instruments in canonical order.
func PairRecords(instruments []*schema.Instrument) []PairRecord {
	var out []PairRecord
	for _, in := range instruments {
		for _, p := range in.Pairs() {
			out = append(out, PairRecord{
				Instrument: in.Name(),
				PairID:     p.ID(),
				First:      in.Label(p.A),
				Second:     in.Label(p.B),
			})
		}
	}
	return out
}

// PrintPairs writes the pairwise comparisons of the instruments in the configured format.
func PrintPairs(instruments []*schema.Instrument, cfg *contract.Config) error {
	records := PairRecords(instruments)
	switch cfg.Output {
	case schema.ParquetOut:
		return errParquetUnsupported
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"instrument", "pair_id", "first", "second"}, func(cw *csv.Writer) error {
				for _, r := range records {
					if err := cw.Write([]string{string(r.Instrument), r.PairID, r.First, r.Second}); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Instrument", "Pair", "First", "Second"})
			data := make([][]string, 0, len(records))
			for _, r := range records {
				data = append(data, []string{string(r.Instrument), r.PairID, r.First, r.Second})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}
