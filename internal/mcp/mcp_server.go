// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
)

// NewMCPServer initializes the tlxkit MCP server without starting it. The
// server owns one session, built from baseCfg, for its whole lifetime.
// This is exposed for unit testing.
func NewMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.ArchiveManager, logger *slog.Logger) (*server.MCPServer, error) {
	if logger == nil {
		logger = contract.DiscardLogger()
	}
	session, err := core.NewSessionFromConfig(ctx, baseCfg, baseCfg.SessionInfo(), core.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"tlxkit Workload Session Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		session: session,
	}

	instrumentOpt := mcp.WithString("instrument",
		mcp.Description("Questionnaire: tlx (NASA Task Load Index) or saq (Situation Awareness Questionnaire)."),
		mcp.Enum("tlx", "saq"))

	// --- 1. Tool: list_pairs ---
	s.AddTool(mcp.NewTool("list_pairs",
		mcp.WithDescription("List the pairwise comparisons to ask the participant. Without an instrument, lists every instrument rated in the session mode."),
		instrumentOpt,
	), h.handleListPairs)

	// --- 2. Tool: reweight ---
	s.AddTool(mcp.NewTool("reweight",
		mcp.WithDescription("Derive subscale weights from the participant's pair choices and replace the current weights. Later tasks use the new weights; recorded tasks keep theirs."),
		mcp.WithString("instrument", mcp.Description("Questionnaire: tlx or saq."), mcp.Enum("tlx", "saq"), mcp.Required()),
		mcp.WithObject("choices", mcp.Description("Map of pair id (e.g. 'MD-PD') to the chosen subscale label or id. Every pair must be answered."), mcp.Required()),
	), h.handleReweight)

	// --- 3. Tool: set_weights ---
	s.AddTool(mcp.NewTool("set_weights",
		mcp.WithDescription("Set precomputed subscale weights. Weights must be non-negative and sum to the number of pairs."),
		mcp.WithString("instrument", mcp.Description("Questionnaire: tlx or saq."), mcp.Enum("tlx", "saq"), mcp.Required()),
		mcp.WithObject("weights", mcp.Description("Map of subscale id to weight."), mcp.Required()),
	), h.handleSetWeights)

	// --- 4. Tool: submit_task ---
	s.AddTool(mcp.NewTool("submit_task",
		mcp.WithDescription("Score one task with the current weights and append it to the session ledger."),
		mcp.WithString("name", mcp.Description("Task name. May be empty.")),
		mcp.WithObject("tlx", mcp.Description("TLX ratings by subscale id (0-100, steps of 5). Required in tlx and combined mode.")),
		mcp.WithObject("saq", mcp.Description("SAQ ratings by subscale id (0-100). Required in saq and combined mode.")),
	), h.handleSubmitTask)

	// --- 5. Tool: reset ---
	s.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Discard every recorded task. Task ids restart at 1; weights are kept."),
	), h.handleReset)

	// --- 6. Tool: get_results ---
	s.AddTool(mcp.NewTool("get_results",
		mcp.WithDescription("Return the session and every recorded task with its six scores as JSON. Unavailable scores are null."),
	), h.handleGetResults)

	// --- 7. Tool: export_csv ---
	s.AddTool(mcp.NewTool("export_csv",
		mcp.WithDescription("Export the recorded tasks as CSV. Optionally write it to a file and record the session in the results archive."),
		mcp.WithString("output_file", mcp.Description("File to write. Use download to write <study>_<participant>.csv instead.")),
		mcp.WithBoolean("download", mcp.Description("Write the CSV to <study>_<participant>.csv in the working directory.")),
		mcp.WithBoolean("archive", mcp.Description("Also record the session in the configured results archive.")),
	), h.handleExportCSV)

	return s, nil
}

// StartMCPServer starts the tlxkit MCP server on stdio.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.ArchiveManager, logger *slog.Logger) error {
	s, err := NewMCPServer(ctx, baseCfg, mgr, logger)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}
