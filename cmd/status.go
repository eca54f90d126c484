// ABOUTME: Status command for the windsurf-quota CLI
// ABOUTME: Fetches one quota snapshot and prints account and model usage

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitcoder27/windsurf-quota/internal/config"
	"github.com/gitcoder27/windsurf-quota/internal/format"
	"github.com/gitcoder27/windsurf-quota/internal/locator"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

// quotaFetcher is the slice of the metrics client the commands need.
type quotaFetcher interface {
	FetchUserStatus(ctx context.Context) (*windsurf.QuotaSnapshot, error)
}

// timeNow is replaced in tests for deterministic relative times.
var timeNow = time.Now

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current account quota status",
	Long:  `Discover the Windsurf language server and display account identity, credit pools, and per-model quotas.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runStatus(ctx, os.Stdout, newFetcher(cfg), cfg)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus executes one fetch and returns the exit code
func runStatus(ctx context.Context, w io.Writer, f quotaFetcher, cfg *config.Config) int {
	snap, err := f.FetchUserStatus(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		if errors.Is(err, locator.ErrNotFound) {
			fmt.Fprintln(w, "Is Windsurf running with an open workspace?")
		}
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(snap))
	} else {
		fmt.Fprintln(w, formatStatusHuman(snap, cfg))
	}
	return 0
}

// poolStatus classifies a credit pool by its remaining share of the allotment.
// Pools without a known allotment get no classification.
func poolStatus(available, limit float64, cfg *config.Config) string {
	if limit <= 0 {
		return ""
	}
	status := format.StatusForFraction(available/limit, cfg.Display.HealthyThreshold, cfg.Display.WarningThreshold)
	return fmt.Sprintf("  [%s]", status)
}

// formatStatusHuman formats a snapshot for human readability
func formatStatusHuman(snap *windsurf.QuotaSnapshot, cfg *config.Config) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Account:  %s <%s>\n", snap.Account.Name, snap.Account.Email)
	fmt.Fprintf(&sb, "Plan:     %s\n\n", snap.Account.Tier.Name)

	fmt.Fprintf(&sb, "Prompt credits:  %s / %s%s\n",
		format.Credits(snap.Available.Prompt),
		format.Credits(snap.Limits.MonthlyPrompt),
		poolStatus(snap.Available.Prompt, snap.Limits.MonthlyPrompt, cfg))
	fmt.Fprintf(&sb, "Flow credits:    %s / %s%s\n",
		format.Credits(snap.Available.Flow),
		format.Credits(snap.Limits.MonthlyFlow),
		poolStatus(snap.Available.Flow, snap.Limits.MonthlyFlow, cfg))

	if len(snap.ModelQuotas) > 0 {
		sb.WriteString("\nModels:\n")
		for _, m := range snap.ModelQuotas {
			label := format.ShortModelName(m.Label)
			if m.Fraction == nil {
				fmt.Fprintf(&sb, "  %-22s --\n", label)
				continue
			}
			line := fmt.Sprintf("  %-22s %4s", label, format.Percent(*m.Fraction))
			if rel := format.ResetRelative(m.ResetTime, timeNow()); rel != "" {
				line += fmt.Sprintf("   resets in %s", rel)
			}
			sb.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// statusJSON is the stable JSON shape for scripting consumers.
type statusJSON struct {
	Account struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Tier  string `json:"tier"`
	} `json:"account"`
	Credits struct {
		Prompt struct {
			Available float64 `json:"available"`
			Monthly   float64 `json:"monthly"`
		} `json:"prompt"`
		Flow struct {
			Available float64 `json:"available"`
			Monthly   float64 `json:"monthly"`
		} `json:"flow"`
	} `json:"credits"`
	Models []modelJSON `json:"models"`
}

type modelJSON struct {
	Label             string   `json:"label"`
	Model             string   `json:"model"`
	RemainingFraction *float64 `json:"remainingFraction,omitempty"`
	ResetTime         string   `json:"resetTime,omitempty"`
}

// formatStatusJSON formats a snapshot as JSON
func formatStatusJSON(snap *windsurf.QuotaSnapshot) string {
	var out statusJSON
	out.Account.Name = snap.Account.Name
	out.Account.Email = snap.Account.Email
	out.Account.Tier = snap.Account.Tier.Name
	out.Credits.Prompt.Available = snap.Available.Prompt
	out.Credits.Prompt.Monthly = snap.Limits.MonthlyPrompt
	out.Credits.Flow.Available = snap.Available.Flow
	out.Credits.Flow.Monthly = snap.Limits.MonthlyFlow
	out.Models = make([]modelJSON, 0, len(snap.ModelQuotas))
	for _, m := range snap.ModelQuotas {
		out.Models = append(out.Models, modelJSON{
			Label:             m.Label,
			Model:             m.Model,
			RemainingFraction: m.Fraction,
			ResetTime:         m.ResetTime,
		})
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}
