// Package main provides a performance benchmarking tool for the tlxkit CLI.
// It generates session scripts of increasing size, replays each one with
// 'tlxkit run' in every output format, with and without the SQLite results
// archive, and writes the timings to CSV.
//
// Prerequisites:
// - tlxkit binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated scripts, outputs and the archive file
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tlxkit/tlxkit/core"
	"github.com/tlxkit/tlxkit/schema"
)

// BenchmarkResult holds the average time of one script size, format and archive backend.
type BenchmarkResult struct {
	Tasks   int
	Output  string
	Archive string
	AvgTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	TaskSizes []int
	Outputs   []string
	Archives  []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:   os.Args[1],
		Timeout:   2 * time.Minute,
		Runs:      5,
		TaskSizes: []int{10, 100, 1000, 10000},
		Outputs:   []string{"text", "csv", "json", "parquet"},
		Archives:  []string{"none", "sqlite"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the tlxkit binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("tlxkit"); err != nil {
		return fmt.Errorf("tlxkit binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateScript writes a combined-mode script that reweights both
// instruments and then submits tasks, resetting every 500 tasks.
func generateScript(path string, tasks int) error {
	rng := rand.New(rand.NewPCG(uint64(tasks), 42))

	script := core.Script{
		Study:       "bench",
		Participant: fmt.Sprintf("P%d", tasks),
		Mode:        string(schema.CombinedMode),
	}
	for _, in := range schema.Instruments {
		choices := make(map[string]string, in.PairCount())
		for _, p := range in.Pairs() {
			winner := p.A
			if rng.IntN(2) == 1 {
				winner = p.B
			}
			choices[p.ID()] = in.Label(winner)
		}
		script.Events = append(script.Events, core.Event{
			Kind:       core.ReweightEvent,
			Instrument: string(in.Name()),
			Choices:    choices,
		})
	}

	for i := range tasks {
		if i > 0 && i%500 == 0 {
			script.Events = append(script.Events, core.Event{Kind: core.ResetEvent})
		}
		ev := core.Event{
			Kind: core.TaskEvent,
			Name: fmt.Sprintf("task-%d", i+1),
			TLX:  make(map[string]int),
			SAQ:  make(map[string]int),
		}
		for _, id := range schema.TLX.IDs() {
			ev.TLX[string(id)] = rng.IntN(21) * core.TLXStep
		}
		for _, id := range schema.SAQ.IDs() {
			ev.SAQ[string(id)] = rng.IntN(101)
		}
		script.Events = append(script.Events, ev)
	}

	data, err := yaml.Marshal(&script)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured script sizes
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d formats, %v timeout, %d runs each\n",
		len(config.TaskSizes), len(config.Outputs), config.Timeout, config.Runs)

	for _, tasks := range config.TaskSizes {
		scriptPath := filepath.Join(config.WorkDir, fmt.Sprintf("session_%d.yaml", tasks))
		if err := generateScript(scriptPath, tasks); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", scriptPath, err)
		}
		fmt.Printf("Benchmarking %d tasks\n", tasks)

		for _, output := range config.Outputs {
			for _, backend := range config.Archives {
				avg := runBenchmark(config, scriptPath, output, backend)
				fmt.Printf("  %-8s archive=%-6s avg: %s\n", output, backend, avg)
				results = append(results, BenchmarkResult{
					Tasks:   tasks,
					Output:  output,
					Archive: backend,
					AvgTime: avg,
				})
			}
		}
	}

	return results, nil
}

// runBenchmark replays scriptPath config.Runs times and returns the average successful time
func runBenchmark(config BenchmarkConfig, scriptPath, output, archiveBackend string) string {
	outFile := filepath.Join(config.WorkDir, "out."+output)
	args := []string{
		"run", scriptPath,
		"--output", output,
		"--output-file", outFile,
		"--archive-backend", archiveBackend,
	}
	if archiveBackend == "sqlite" {
		args = append(args, "--archive-db-connect", filepath.Join(config.WorkDir, "archive.db"))
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("tlxkit", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil && isSuccess(outFile) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) == 0 {
		return "FAILED"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks that the run left a non-empty output file behind
func isSuccess(outFile string) bool {
	info, err := os.Stat(outFile)
	return err == nil && info.Size() > 0
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("tlxkit_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"tasks", "output", "archive", "avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Tasks), result.Output, result.Archive, result.AvgTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary, one line per output format
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, output := range config.Outputs {
		fmt.Printf("%s:\n", strings.ToUpper(output))
		for _, result := range results {
			if result.Output == output {
				fmt.Printf("  %6d tasks archive=%-6s %s\n", result.Tasks, result.Archive, result.AvgTime)
			}
		}
	}
}
