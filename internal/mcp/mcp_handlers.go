package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/internal/outwriter"
	"github.com/tlxkit/tlxkit/schema"
)

// toolHandler holds the session and common dependencies for MCP tool handlers.
// Tool calls may arrive on several goroutines; mu serializes them.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.ArchiveManager

	mu      sync.Mutex
	session *core.Session
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// objectArg returns the named object argument, or nil when absent.
func objectArg(request mcp.CallToolRequest, name string) (map[string]any, error) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	return obj, nil
}

// stringMapArg converts an object argument whose values are strings.
func stringMapArg(request mcp.CallToolRequest, name string) (map[string]string, error) {
	obj, err := objectArg(request, name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be a string", name, k)
		}
		out[k] = s
	}
	return out, nil
}

// intMapArg converts an object argument whose values are whole numbers.
// JSON numbers arrive as float64.
func intMapArg(request mcp.CallToolRequest, name string) (map[string]int, error) {
	obj, err := objectArg(request, name)
	if err != nil || obj == nil {
		return nil, err
	}
	out := make(map[string]int, len(obj))
	for k, v := range obj {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("%s.%s must be a whole number", name, k)
		}
		out[k] = int(f)
	}
	return out, nil
}

func (h *toolHandler) handleListPairs(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instruments := h.session.Mode().Instruments()
	if name := request.GetString("instrument", ""); name != "" {
		in, err := core.InstrumentFor(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		instruments = []*schema.Instrument{in}
	}
	return jsonResult(outwriter.PairRecords(instruments)), nil
}

func (h *toolHandler) handleReweight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := core.InstrumentFor(request.GetString("instrument", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	choices, err := stringMapArg(request, "choices")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	weights, err := h.session.Reweight(ctx, in, choices)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reweight failed: %v", err)), nil
	}
	return jsonResult(map[string]any{"instrument": in.Name(), "weights": weights}), nil
}

func (h *toolHandler) handleSetWeights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := core.InstrumentFor(request.GetString("instrument", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := intMapArg(request, "weights")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	weights, err := core.NormalizeWeights(in, raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.session.SetWeights(ctx, in, weights); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set weights failed: %v", err)), nil
	}
	return jsonResult(map[string]any{"instrument": in.Name(), "weights": weights}), nil
}

func (h *toolHandler) handleSubmitTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := make(map[schema.InstrumentName]map[string]int)
	for _, in := range schema.Instruments {
		values, err := intMapArg(request, string(in.Name()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw[in.Name()] = values
	}
	ratings, err := core.NormalizeRatings(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	record, err := h.session.Submit(ctx, request.GetString("name", ""), ratings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ratings: %v", err)), nil
	}
	return jsonResult(record), nil
}

func (h *toolHandler) handleReset(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Reset(ctx)
	return mcp.NewToolResultText(fmt.Sprintf("Session reset. Next task id: %d", h.session.NextTaskID())), nil
}

func (h *toolHandler) handleGetResults(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	results := h.session.Results()
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := outwriter.WriteSessionJSON(&buf, results); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleExportCSV(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	results := h.session.Results()
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := outwriter.WriteSessionCSV(&buf, results); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outputFile := request.GetString("output_file", "")
	if outputFile == "" && request.GetBool("download", false) {
		outputFile = results.FileName("csv")
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, buf.Bytes(), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write %s: %v", outputFile, err)), nil
		}
	}

	if request.GetBool("archive", false) {
		var store contract.ArchiveStore
		if h.mgr != nil {
			store = h.mgr.GetArchiveStore()
		}
		if store == nil {
			return mcp.NewToolResultError("results archive is not configured (set --archive-backend)"), nil
		}
		if _, err := store.RecordSession(results, time.Now()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to archive session: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(buf.String()), nil
}
