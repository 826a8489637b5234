package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the tlxkit MCP server",
	Long: `Launch an MCP server on stdio that holds one scoring session for its lifetime.

Agents list the pairwise comparisons, submit the participant's choices and task
ratings, and export the session as CSV, optionally recording it in the archive.

Examples:
  # Serve a combined TLX + SAQ session for participant P7
  tlxkit mcp --mode combined --study pilot --participant P7

  # Let export_csv also archive the session
  tlxkit mcp --archive-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// stdout carries the protocol, so debug records go to stderr
		logger := contract.NewLogger(os.Stderr, cfg.Verbose)
		return mcp.StartMCPServer(rootCtx, cfg, archiveManager, logger)
	},
}
