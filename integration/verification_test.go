//go:build basic

// Package integration contains integration tests for tlxkit.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// The archive backends need Docker: go test -tags database ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunDownloadCSV replays a script and checks the downloaded file byte for byte.
func TestRunDownloadCSV(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir)

	_, err := runTlxkit(t, dir, "run", script, "--output", "csv", "--download")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "S1_P1.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Participant,Task Id,Task Name,Section,MD,PD,TD,PF,EF,FR,AD,AS,UN,OCI,UWO,FWD,OA,r-score,w-score", lines[0])
	assert.Equal(t, "P1,1,Task A,TLX Task,50,30,40,20,60,10,,,,,,,,35.0000,35.3333", lines[1])
	assert.Equal(t, "P1,2,Task B,TLX Task,0,0,0,0,0,0,,,,,,,,0.0000,0.0000", lines[2])
}

// TestRunUnsetWeightsJSON checks unavailable scores are null without weights.
func TestRunUnsetWeightsJSON(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "unset.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`events:
  - kind: task
    name: only
    tlx: {MD: 50, PD: 30, TD: 40, PF: 20, EF: 60, FR: 10}
`), 0o644))

	out := filepath.Join(dir, "out.json")
	_, err := runTlxkit(t, dir, "run", script, "--output", "json", "--output-file", out, "--study", "S2", "--participant", "P9")
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded struct {
		Study string `json:"study"`
		Tasks []struct {
			Scores map[string]*float64 `json:"scores"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "S2", decoded.Study)
	require.Len(t, decoded.Tasks, 1)
	assert.Nil(t, decoded.Tasks[0].Scores["weighted_tlx"])
	assert.InDelta(t, 35.0, *decoded.Tasks[0].Scores["raw_tlx"], 1e-9)
}

// TestWeightsCommand derives weights from a choices document.
func TestWeightsCommand(t *testing.T) {
	dir := t.TempDir()
	choices := filepath.Join(dir, "choices.yaml")
	require.NoError(t, os.WriteFile(choices, []byte(`instrument: tlx
choices:
  MD-PD: Mental Demand
  MD-TD: Mental Demand
  MD-PF: Mental Demand
  MD-EF: Mental Demand
  MD-FR: Mental Demand
  PD-TD: Physical Demand
  PD-PF: Physical Demand
  PD-EF: Physical Demand
  PD-FR: Physical Demand
  TD-PF: Temporal Demand
  TD-EF: Temporal Demand
  TD-FR: Temporal Demand
  PF-EF: Performance
  PF-FR: Performance
  EF-FR: Effort
`), 0o644))

	output, err := runTlxkit(t, dir, "weights", choices, "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, output, "MD,Mental Demand,5")
	assert.Contains(t, output, "FR,Frustration,0")
}

// TestPairsCommand lists the comparisons of both instruments.
func TestPairsCommand(t *testing.T) {
	output, err := runTlxkit(t, t.TempDir(), "pairs", "--mode", "combined", "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 37)
}

// TestRunRejectsBadScript checks a failed replay exits non-zero.
func TestRunRejectsBadScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(script, []byte("events:\n  - kind: task\n    tlx: {MD: 52}\n"), 0o644))

	output, err := runTlxkit(t, dir, "run", script)
	require.Error(t, err)
	assert.Contains(t, output, "Cannot run session")
}
