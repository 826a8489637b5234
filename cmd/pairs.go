package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
)

// pairsCmd lists the pairwise comparisons of the active instruments.
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List the pairwise comparisons to ask the participant.",
	Long: `List every pairwise comparison of an instrument, in the order the weighting
form presents them. TLX has 15 pairs and SAQ has 21.

The pair id (e.g. MD-PD) is the key a choices document or session script uses.

Examples:
  # Pairs of every instrument rated in the current mode
  tlxkit pairs --mode combined

  # Only the SAQ pairs, as CSV
  tlxkit pairs --instrument saq --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("instrument")
		if err := core.ExecutePairs(cfg, name); err != nil {
			contract.LogFatal("Cannot list pairs", err)
		}
	},
}
