// Package core has the session logic: the session state object, its ledger,
// input resolution, script replay and the command entry points.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tlxkit/tlxkit/core/algo"
	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/internal/outwriter"
	"github.com/tlxkit/tlxkit/schema"
)

// ExecutorFunc defines the function signature for the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.ArchiveManager) error

// NewSessionFromConfig builds a session for cfg, applying the preset weights
// of every instrument the mode rates.
func NewSessionFromConfig(ctx context.Context, cfg *contract.Config, info schema.SessionInfo, opts ...SessionOption) (*Session, error) {
	session := NewSession(info, opts...)
	for _, in := range session.Mode().Instruments() {
		preset, ok := cfg.PresetWeights[in.Name()]
		if !ok {
			continue
		}
		if err := session.SetWeights(ctx, in, preset); err != nil {
			return nil, fmt.Errorf("preset weights: %w", err)
		}
	}
	return session, nil
}

// ExecuteSession replays the session script named in cfg, archives the
// results when an archive is configured and writes them out.
// It serves as the main entry point for the 'run' command.
func ExecuteSession(ctx context.Context, cfg *contract.Config, mgr contract.ArchiveManager) error {
	start := time.Now()
	logger := contract.NewLogger(os.Stderr, cfg.Verbose)

	script, err := LoadScript(cfg.ScriptPath)
	if err != nil {
		return err
	}
	info := script.SessionInfo(cfg.SessionInfo())
	if _, ok := schema.ValidScoringModes[info.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be tlx, saq, combined", info.Mode)
	}

	session, err := NewSessionFromConfig(ctx, cfg, info, WithLogger(logger))
	if err != nil {
		return err
	}
	if err := Replay(ctx, session, script); err != nil {
		return err
	}
	results := session.Results()

	if err := archiveResults(mgr, results); err != nil {
		return err
	}

	logger.Debug("session replayed",
		"events", len(script.Events),
		"tasks", len(results.Tasks),
		"duration", time.Since(start))

	// Write output relative to the session, not to the script
	runCfg := cfg.Clone()
	runCfg.Mode = info.Mode
	runCfg.Study = info.Study
	runCfg.Participant = info.Participant
	return outwriter.PrintSessionResults(results, runCfg, time.Since(start))
}

// archiveResults records results in the archive, if there is one.
func archiveResults(mgr contract.ArchiveManager, results schema.SessionResults) error {
	if mgr == nil {
		return nil
	}
	store := mgr.GetArchiveStore()
	if store == nil {
		return nil
	}
	if _, err := store.RecordSession(results, time.Now()); err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// ExecuteWeights derives a weight map from a choices document and prints it.
// It serves as the main entry point for the 'weights' command.
func ExecuteWeights(_ context.Context, cfg *contract.Config, path string) error {
	doc, err := LoadChoices(path)
	if err != nil {
		return err
	}
	in, err := InstrumentFor(doc.Instrument)
	if err != nil {
		return err
	}
	choices, err := NormalizeChoices(in, doc.Choices)
	if err != nil {
		return err
	}
	weights := algo.DeriveWeights(in, choices)
	return outwriter.PrintWeights(in, weights, cfg)
}

// ExecutePairs prints the pairwise comparisons of the named instrument, or
// of every instrument the configured mode rates when name is empty.
func ExecutePairs(cfg *contract.Config, name string) error {
	instruments, err := selectInstruments(cfg, name)
	if err != nil {
		return err
	}
	return outwriter.PrintPairs(instruments, cfg)
}

// ExecuteSubscales prints the subscale registry.
func ExecuteSubscales(cfg *contract.Config, name string) error {
	instruments, err := selectInstruments(cfg, name)
	if err != nil {
		return err
	}
	return outwriter.PrintSubscales(instruments, cfg)
}

func selectInstruments(cfg *contract.Config, name string) ([]*schema.Instrument, error) {
	if name == "" {
		return cfg.Mode.Instruments(), nil
	}
	in, err := InstrumentFor(name)
	if err != nil {
		return nil, err
	}
	return []*schema.Instrument{in}, nil
}
