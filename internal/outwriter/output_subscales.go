package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

type subscaleRecord struct {
	Instrument schema.InstrumentName `json:"instrument"`
	schema.Subscale
}

// PrintSubscales writes the subscale registry of the instruments in the configured format.
func PrintSubscales(instruments []*schema.Instrument, cfg *contract.Config) error {
	var records []subscaleRecord
	for _, in := range instruments {
		for _, s := range in.Subscales() {
			records = append(records, subscaleRecord{Instrument: in.Name(), Subscale: s})
		}
	}

	switch cfg.Output {
	case schema.ParquetOut:
		return errParquetUnsupported
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"instrument", "id", "label", "question", "low", "high"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range records {
					row := []string{string(r.Instrument), string(r.ID), r.Label, r.Question, r.Low, r.High}
					if err := cw.Write(row); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Instrument", "Id", "Label", "Low", "High"})
			data := make([][]string, 0, len(records))
			for _, r := range records {
				data = append(data, []string{string(r.Instrument), string(r.ID), r.Label, r.Low, r.High})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}
