//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedTlxkitPath holds the path to a shared tlxkit binary built once for all tests.
	sharedTlxkitPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getTlxkitBinary returns the path to the tlxkit binary, building it once if needed.
func getTlxkitBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "tlxkit-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		tlxkitPath := filepath.Join(tempDir, "tlxkit")
		buildCmd := exec.Command("go", "build", "-o", tlxkitPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if output, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build tlxkit: %v\n%s", err, output))
		}

		sharedTlxkitPath = tlxkitPath
	})

	return sharedTlxkitPath
}

// runTlxkit runs the tlxkit binary in dir and returns its combined output.
func runTlxkit(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getTlxkitBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// writeScript writes a TLX session script with two tasks into dir.
func writeScript(t *testing.T, dir string) string {
	t.Helper()
	script := `study: S1
participant: P1
mode: tlx
events:
  - kind: weights
    instrument: tlx
    weights: {MD: 3, PD: 2, TD: 1, PF: 4, EF: 3, FR: 2}
  - kind: task
    name: Task A
    tlx: {MD: 50, PD: 30, TD: 40, PF: 20, EF: 60, FR: 10}
  - kind: task
    name: Task B
    tlx: {MD: 0, PD: 0, TD: 0, PF: 0, EF: 0, FR: 0}
`
	path := filepath.Join(dir, "session.yaml")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
