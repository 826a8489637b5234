// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSession prints session results using the configured output format.
func (ow *OutWriter) WriteSession(results schema.SessionResults, cfg *contract.Config, duration time.Duration) error {
	return PrintSessionResults(results, cfg, duration)
}

// WriteWeights prints a derived weight map using the configured output format.
func (ow *OutWriter) WriteWeights(in *schema.Instrument, weights schema.WeightMap, cfg *contract.Config) error {
	return PrintWeights(in, weights, cfg)
}

// EncodeCSV writes the results export to w, regardless of the configured format.
func (ow *OutWriter) EncodeCSV(w io.Writer, results schema.SessionResults) error {
	return WriteSessionCSV(w, results)
}
