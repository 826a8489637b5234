package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
)

// subscalesCmd prints the subscale registry.
var subscalesCmd = &cobra.Command{
	Use:   "subscales",
	Short: "List the subscales of each instrument.",
	Long: `Show the subscales of TLX and SAQ with their ids, labels, questions and
the anchors at both ends of the rating scale.

Examples:
  # Subscales of every instrument rated in the current mode
  tlxkit subscales --mode combined

  # The SAQ items as JSON
  tlxkit subscales --instrument saq --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("instrument")
		if err := core.ExecuteSubscales(cfg, name); err != nil {
			contract.LogFatal("Cannot list subscales", err)
		}
	},
}
