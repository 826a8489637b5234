package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
)

// runCmd replays a session script and writes the scored results.
var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Replay a session script and export the scored tasks.",
	Long: `Replay a recorded session and score every task in it.

A session script lists the steps a participant went through, in order:
- reweight: answer every pairwise comparison of an instrument
- weights:  set a precomputed weight map
- task:     rate one task on every active subscale
- reset:    discard the recorded tasks (weights are kept)

Each task is scored with the weights current at that step; reweighting later
does not change tasks already recorded. Study, participant and mode in the
script override the flags and config file.

Examples:
  # Print the session as a table
  tlxkit run session.yaml

  # Write <study>_<participant>.csv, the same file the calculator downloads
  tlxkit run session.yaml --output csv --download

  # Score TLX and SAQ together and export to Parquet
  tlxkit run session.yaml --mode combined --output parquet --output-file session.parquet

  # Also record the session in the local results archive
  tlxkit run session.yaml --archive-backend sqlite`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		input.ScriptPath = args[0]
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSession(rootCtx, cfg, archiveManager); err != nil {
			contract.LogFatal("Cannot run session", err)
		}
	},
}
