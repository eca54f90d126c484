// ABOUTME: Tests for the status command
// ABOUTME: Verifies output formatting, exit codes, and error hints

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gitcoder27/windsurf-quota/internal/config"
	"github.com/gitcoder27/windsurf-quota/internal/locator"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

// stubFetcher returns a canned snapshot or error
type stubFetcher struct {
	snap *windsurf.QuotaSnapshot
	err  error
}

func (s *stubFetcher) FetchUserStatus(ctx context.Context) (*windsurf.QuotaSnapshot, error) {
	return s.snap, s.err
}

func testSnapshot() *windsurf.QuotaSnapshot {
	fraction := 0.42
	return &windsurf.QuotaSnapshot{
		Account: windsurf.Account{
			Name:  "Test User",
			Email: "test@example.com",
			Tier:  windsurf.Tier{ID: "pro", Name: "Pro"},
		},
		Limits:    windsurf.CreditLimits{MonthlyPrompt: 1000, MonthlyFlow: 2000},
		Available: windsurf.CreditPools{Prompt: 500, Flow: 1500},
		ModelQuotas: []windsurf.ModelQuota{
			{Label: "Claude Sonnet 4.5", Model: "sonnet-4.5", Fraction: &fraction, ResetTime: "2026-08-25T18:00:00Z"},
			{Label: "SWE-1 (free limited time)", Model: "swe-1"},
		},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestStatusCommand_Success(t *testing.T) {
	var buf bytes.Buffer
	exitCode := runStatus(context.Background(), &buf, &stubFetcher{snap: testSnapshot()}, testConfig())

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	out := buf.String()
	if !strings.Contains(out, "Test User <test@example.com>") {
		t.Error("expected account identity in output")
	}
	if !strings.Contains(out, "Plan:     Pro") {
		t.Error("expected plan tier in output")
	}
	if !strings.Contains(out, "500 / 1K") {
		t.Errorf("expected prompt pool amounts, got:\n%s", out)
	}
	if !strings.Contains(out, "1.5K / 2K") {
		t.Errorf("expected flow pool amounts, got:\n%s", out)
	}
}

func TestStatusCommand_NotFoundHint(t *testing.T) {
	err := fmt.Errorf("%w: no matching process", locator.ErrNotFound)

	var buf bytes.Buffer
	exitCode := runStatus(context.Background(), &buf, &stubFetcher{err: err}, testConfig())

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Is Windsurf running") {
		t.Error("expected hint for not-found error")
	}
}

func TestStatusCommand_NetworkErrorNoHint(t *testing.T) {
	err := fmt.Errorf("%w: connection reset", windsurf.ErrNetwork)

	var buf bytes.Buffer
	exitCode := runStatus(context.Background(), &buf, &stubFetcher{err: err}, testConfig())

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if strings.Contains(buf.String(), "Is Windsurf running") {
		t.Error("hint should only appear for not-found errors")
	}
}

func TestFormatStatusHuman_ModelRows(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 8, 25, 15, 45, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	out := formatStatusHuman(testSnapshot(), testConfig())

	if !strings.Contains(out, "Sonnet 4.5") {
		t.Error("expected shortened model label")
	}
	if !strings.Contains(out, "42%") {
		t.Error("expected remaining percentage")
	}
	if !strings.Contains(out, "resets in 2h 15m") {
		t.Errorf("expected relative reset time, got:\n%s", out)
	}
	// Quota-less entry shows a placeholder, preserved in order
	if !strings.Contains(out, "SWE-1") || !strings.Contains(out, "--") {
		t.Errorf("expected quota-less model with placeholder, got:\n%s", out)
	}
}

func TestFormatStatusHuman_PoolClassification(t *testing.T) {
	snap := testSnapshot()
	snap.Available.Prompt = 100 // 10% remaining, critical at default thresholds

	out := formatStatusHuman(snap, testConfig())
	if !strings.Contains(out, "[critical]") {
		t.Errorf("expected critical classification, got:\n%s", out)
	}
	// Flow is at 75%, healthy
	if !strings.Contains(out, "[healthy]") {
		t.Errorf("expected healthy classification, got:\n%s", out)
	}
}

func TestFormatStatusJSON(t *testing.T) {
	out := formatStatusJSON(testSnapshot())

	var parsed statusJSON
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Account.Email != "test@example.com" {
		t.Errorf("expected account email, got %q", parsed.Account.Email)
	}
	if parsed.Credits.Prompt.Available != 500 {
		t.Errorf("expected prompt available 500, got %v", parsed.Credits.Prompt.Available)
	}
	if len(parsed.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(parsed.Models))
	}
	if parsed.Models[0].RemainingFraction == nil || *parsed.Models[0].RemainingFraction != 0.42 {
		t.Error("expected fraction to pass through unchanged")
	}
	if parsed.Models[1].RemainingFraction != nil {
		t.Error("expected nil fraction for quota-less model")
	}
}

func TestRunStatus_JSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	exitCode := runStatus(context.Background(), &buf, &stubFetcher{snap: testSnapshot()}, testConfig())

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRunStatus_ErrorIsVerbatim(t *testing.T) {
	wrapped := errors.New("something very specific went wrong")

	var buf bytes.Buffer
	runStatus(context.Background(), &buf, &stubFetcher{err: wrapped}, testConfig())

	if !strings.Contains(buf.String(), "something very specific went wrong") {
		t.Error("expected underlying error message to be printed")
	}
}
