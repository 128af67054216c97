package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gluepot/internal/harness"
	"github.com/roach88/gluepot/internal/trace"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter  string // scenario name filter (glob pattern)
	Update  bool   // regenerate golden files
	TraceDB string // optional trace database path
}

// ScenarioResult holds the result of a single scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run glue conformance scenarios from a directory of YAML files.

Each file builds a registry from its glue declarations, plays its run
scenarios, and evaluates its assertions. When a golden trace exists under
<scenarios-dir>/golden/<name>.golden it is compared byte-for-byte.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (invalid paths, malformed scenarios)

Examples:
  gluepot test ./scenarios
  gluepot test ./scenarios --filter "hooks-*"
  gluepot test ./scenarios --update
  gluepot test ./scenarios --trace-db ./trace.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by name glob")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record traces into a SQLite database")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	var store *trace.Store
	if opts.TraceDB != "" {
		store, err = trace.Open(opts.TraceDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer store.Close()
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		sr, err := runScenarioFile(opts, scenariosDir, file, store)
		if err != nil {
			return err
		}
		if sr == nil {
			continue // filtered out
		}
		result.Scenarios = append(result.Scenarios, *sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		outputTestText(cmd, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// runScenarioFile runs one scenario file, including golden comparison.
// Returns nil when the scenario is filtered out.
func runScenarioFile(opts *TestOptions, scenariosDir, file string, store *trace.Store) (*ScenarioResult, error) {
	s, err := harness.LoadScenario(file)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid scenario %s", file), err)
	}

	if opts.Filter != "" {
		match, err := filepath.Match(opts.Filter, s.Name)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --filter pattern", err)
		}
		if !match {
			return nil, nil
		}
	}

	hopts := []harness.Option{harness.WithLogger(opts.Logger())}
	if store != nil {
		hopts = append(hopts, harness.WithStore(store))
	}
	// One harness per file keeps sequence numbers and ids deterministic.
	result, err := harness.New(hopts...).Run(context.Background(), s)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to run scenario %s", s.Name), err)
	}

	sr := &ScenarioResult{Name: s.Name, Pass: result.Pass, Errors: result.Errors}
	if err := compareGolden(opts, scenariosDir, result, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// compareGolden compares (or with --update regenerates) the golden trace.
func compareGolden(opts *TestOptions, scenariosDir string, result *harness.Result, sr *ScenarioResult) error {
	goldenPath := filepath.Join(scenariosDir, "golden", result.Name+".golden")

	data, err := harness.MarshalSnapshot(result.Snapshot())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to marshal trace snapshot", err)
	}

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return WrapExitError(ExitCommandError, "failed to create golden directory", err)
		}
		if err := os.WriteFile(goldenPath, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write golden file", err)
		}
		return nil
	}

	want, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return nil // no golden recorded for this scenario
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read golden file", err)
	}
	if !bytes.Equal(want, data) {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("trace does not match golden file %s", goldenPath))
	}
	return nil
}

// findScenarioFiles finds YAML scenario files directly under dir, sorted
// for deterministic run order. The golden subdirectory is skipped.
func findScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// outputTestText prints a human-readable summary.
func outputTestText(cmd *cobra.Command, result TestResult) {
	out := cmd.OutOrStdout()
	for _, sr := range result.Scenarios {
		status := "PASS"
		if !sr.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s\n", status, sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(out, "      %s\n", strings.ReplaceAll(e, "\n", "\n      "))
		}
	}
	fmt.Fprintf(out, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
