// ABOUTME: Tests for the quota bar widget
// ABOUTME: Verifies fill proportions, clamping, and threshold coloring

package widgets

import (
	"strings"
	"testing"

	"github.com/gitcoder27/windsurf-quota/internal/format"
)

func TestQuotaBarFillProportion(t *testing.T) {
	cfg := DefaultQuotaBarConfig()
	cfg.Width = 10

	bar := QuotaBar(0.5, cfg)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("expected 5 filled cells for 0.5, got %d", got)
	}
	if got := strings.Count(bar, "░"); got != 5 {
		t.Errorf("expected 5 empty cells for 0.5, got %d", got)
	}
}

func TestQuotaBarClampsForDisplay(t *testing.T) {
	cfg := DefaultQuotaBarConfig()
	cfg.Width = 10

	over := QuotaBar(1.5, cfg)
	if got := strings.Count(over, "█"); got != 10 {
		t.Errorf("expected full bar for fraction above 1, got %d filled", got)
	}

	under := QuotaBar(-0.2, cfg)
	if got := strings.Count(under, "█"); got != 0 {
		t.Errorf("expected empty bar for negative fraction, got %d filled", got)
	}
}

func TestQuotaBarZeroWidthDefaults(t *testing.T) {
	cfg := DefaultQuotaBarConfig()
	cfg.Width = 0

	bar := QuotaBar(1.0, cfg)
	if got := strings.Count(bar, "█"); got != 20 {
		t.Errorf("expected default width of 20, got %d filled", got)
	}
}

func TestBarColorFollowsThresholds(t *testing.T) {
	cfg := DefaultQuotaBarConfig()

	if got := barColor(0.9, cfg); got != cfg.HealthyColor {
		t.Errorf("expected healthy color for 0.9, got %v", got)
	}
	if got := barColor(0.5, cfg); got != cfg.WarnColor {
		t.Errorf("expected warn color for 0.5, got %v", got)
	}
	if got := barColor(0.1, cfg); got != cfg.CritColor {
		t.Errorf("expected crit color for 0.1, got %v", got)
	}
}

func TestQuotaBarWithLabelShowsPercent(t *testing.T) {
	cfg := DefaultQuotaBarConfig()

	out := QuotaBarWithLabel(0.42, cfg)
	if !strings.Contains(out, "42%") {
		t.Errorf("expected percentage in output, got %q", out)
	}
	if !strings.Contains(out, "⚠") {
		t.Errorf("expected warning icon for 0.42, got %q", out)
	}
}

func TestStatusBadgeLabels(t *testing.T) {
	if out := StatusBadge(format.StatusHealthy); !strings.Contains(out, "OK") {
		t.Errorf("expected OK badge, got %q", out)
	}
	if out := StatusBadge(format.StatusWarning); !strings.Contains(out, "LOW") {
		t.Errorf("expected LOW badge, got %q", out)
	}
	if out := StatusBadge(format.StatusCritical); !strings.Contains(out, "CRIT") {
		t.Errorf("expected CRIT badge, got %q", out)
	}
}
