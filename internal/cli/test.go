package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // golden trace directory; empty means beside the scenarios
}

// ScenarioResult holds the result of a single scenario execution.
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
		Short: "Run directory scenarios",
		Long: `Run directory scenarios using the harness.

Each scenario runs against a fresh in-memory store. Step outcomes and
final state assertions are checked, and the trace is compared with
<golden-dir>/<name>.golden when that file exists. The golden directory
defaults to "golden" beside the scenarios directory, so
testdata/scenarios pairs with testdata/golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  contacts test ./scenarios
  contacts test ./scenarios --filter "update_*"
  contacts test ./scenarios --update
  contacts test ./scenarios --golden ./traces
  contacts test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden trace directory (default: <scenarios-dir>/../golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	// Find scenario files
	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{
				Scenarios: []ScenarioResult{},
				Total:     0,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = defaultGoldenDir(scenariosDir)
	}
	rep := scenarioReporter{w: cmd.OutOrStdout(), quiet: opts.Format == "json"}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(scenarioFile, goldenDir, opts.Update, rep)
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}

	return outputTestText(cmd, result)
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		// Apply filter if specified
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// scenarioReporter prints per-scenario lines in text mode and builds the
// matching ScenarioResult.
type scenarioReporter struct {
	w     io.Writer
	quiet bool
}

func (r scenarioReporter) pass(name, note string) ScenarioResult {
	if !r.quiet {
		fmt.Fprintf(r.w, "✓ %s%s\n", name, note)
	}
	return ScenarioResult{Name: name, Pass: true}
}

// fail reports a failed scenario; shown lines are printed under the name
// in text mode and errs are recorded in the result.
func (r scenarioReporter) fail(name string, shown, errs []string) ScenarioResult {
	if !r.quiet {
		fmt.Fprintf(r.w, "✗ %s\n", name)
		for _, line := range shown {
			fmt.Fprintf(r.w, "  %s\n", line)
		}
	}
	return ScenarioResult{Name: name, Errors: errs}
}

// failWith is fail for a single error shown with a label.
func (r scenarioReporter) failWith(name, label, recorded string, err error) ScenarioResult {
	return r.fail(name,
		[]string{fmt.Sprintf("%s: %v", label, err)},
		[]string{fmt.Sprintf("%s: %v", recorded, err)})
}

// runScenario executes one scenario file, then either rewrites its golden
// trace or checks the trace against it.
func runScenario(path, goldenDir string, update bool, rep scenarioReporter) ScenarioResult {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return rep.failWith(filepath.Base(path), "Load error", "failed to load scenario", err)
	}
	name := scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		return rep.failWith(name, "Execution error", "execution failed", err)
	}

	if update {
		if err := harness.WriteGolden(goldenDir, name, result); err != nil {
			return rep.failWith(name, "Golden update error", "failed to update golden file", err)
		}
		return rep.pass(name, " (golden updated)")
	}

	// Without a golden file only the assertions decide.
	match, exists, err := harness.CompareGolden(goldenDir, name, result)
	switch {
	case err != nil:
		return rep.failWith(name, "Golden comparison error", "golden comparison failed", err)
	case exists && !match:
		return rep.fail(name,
			[]string{"Golden file mismatch (run with --update to regenerate)"},
			[]string{"trace does not match golden file: " + harness.GoldenPath(goldenDir, name)})
	case !result.Pass:
		return rep.fail(name, result.Errors, result.Errors)
	}
	return rep.pass(name, "")
}

// defaultGoldenDir returns the "golden" directory beside scenariosDir.
func defaultGoldenDir(scenariosDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(scenariosDir)), "golden")
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    CodeGeneric,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d scenario(s) failed", result.Failed), Reported: true}
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d scenario(s) failed", result.Failed), Reported: true}
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
