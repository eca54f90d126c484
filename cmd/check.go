// ABOUTME: Check command for the windsurf-quota CLI
// ABOUTME: Validates remaining quota against thresholds for scripts and hooks

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitcoder27/windsurf-quota/internal/format"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

var (
	promptThreshold int
	flowThreshold   int
	modelThreshold  float64
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check remaining quota against thresholds",
	Long: `Check remaining credits and model quotas, exiting non-zero when any fall
below the given thresholds. Useful in shell prompts and pre-work hooks.

Exit codes:
  0 - All checks passed
  1 - One or more quotas below threshold
  2 - Error (server not found, network, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runCheck(ctx, os.Stdout, newFetcher(cfg))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&promptThreshold, "prompt-threshold", 10, "Minimum remaining prompt credits, percent of allotment")
	checkCmd.Flags().IntVar(&flowThreshold, "flow-threshold", 10, "Minimum remaining flow credits, percent of allotment")
	checkCmd.Flags().Float64Var(&modelThreshold, "model-threshold", 0.1, "Minimum remaining fraction for any model quota")
}

// checkResult represents the result of a single threshold check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	unit      string
	passed    bool
}

// runCheck executes the threshold checks and returns exit code
func runCheck(ctx context.Context, w io.Writer, f quotaFetcher) int {
	if err := validateThresholds(promptThreshold, flowThreshold, modelThreshold); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	snap, err := f.FetchUserStatus(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(snap)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	if _, failed := countResults(results); failed > 0 {
		return 1
	}
	return 0
}

// validateThresholds ensures threshold values are valid
func validateThresholds(prompt, flow int, model float64) error {
	if prompt < 0 || prompt > 100 {
		return fmt.Errorf("--prompt-threshold must be between 0 and 100")
	}
	if flow < 0 || flow > 100 {
		return fmt.Errorf("--flow-threshold must be between 0 and 100")
	}
	if model < 0 || model > 1 {
		return fmt.Errorf("--model-threshold must be between 0 and 1")
	}
	return nil
}

// performChecks runs all threshold checks against the snapshot. Credit pools
// without a known allotment and models without quota info are skipped.
func performChecks(snap *windsurf.QuotaSnapshot) []checkResult {
	var results []checkResult

	if snap.Limits.MonthlyPrompt > 0 {
		remaining := snap.Available.Prompt / snap.Limits.MonthlyPrompt * 100
		results = append(results, checkResult{
			name:      "Prompt credits",
			value:     remaining,
			threshold: float64(promptThreshold),
			unit:      "%",
			passed:    remaining >= float64(promptThreshold),
		})
	}

	if snap.Limits.MonthlyFlow > 0 {
		remaining := snap.Available.Flow / snap.Limits.MonthlyFlow * 100
		results = append(results, checkResult{
			name:      "Flow credits",
			value:     remaining,
			threshold: float64(flowThreshold),
			unit:      "%",
			passed:    remaining >= float64(flowThreshold),
		})
	}

	for _, m := range snap.ModelQuotas {
		if m.Fraction == nil {
			continue
		}
		results = append(results, checkResult{
			name:      format.ShortModelName(m.Label),
			value:     *m.Fraction * 100,
			threshold: modelThreshold * 100,
			unit:      "%",
			passed:    *m.Fraction >= modelThreshold,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %.0f%s remaining (threshold: %.0f%s)\n",
			symbol, r.name, r.value, r.unit, r.threshold, r.unit)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d quota(s) below threshold", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d quota(s) above thresholds", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"unit":      r.unit,
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
