package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
)

// weightsCmd derives a weight map from a choices document.
var weightsCmd = &cobra.Command{
	Use:   "weights <choices.yaml>",
	Short: "Derive subscale weights from pairwise comparison choices.",
	Long: `Count how often each subscale won its pairwise comparisons.

The choices document names one instrument and answers every pair of it:

  instrument: tlx
  choices:
    MD-PD: Mental Demand
    PD-MD: ...        # either order is accepted
    EF-FR: fr         # long labels or short ids, any case

Every pair must be answered exactly once. TLX weights sum to 15 and SAQ
weights to 21. A misspelled label is reported with the closest match.

Examples:
  # Print the weights as a table
  tlxkit weights choices.yaml

  # Save them as JSON to paste into .tlxkit.yaml presets
  tlxkit weights choices.yaml --output json --output-file weights.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteWeights(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot derive weights", err)
		}
	},
}
