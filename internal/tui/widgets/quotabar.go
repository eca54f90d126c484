// ABOUTME: Quota bar widget showing remaining share of an allotment
// ABOUTME: Colored by health, more remaining is better

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitcoder27/windsurf-quota/internal/format"
)

// QuotaBarConfig holds configuration for the quota bar
type QuotaBarConfig struct {
	Width            int
	HealthyThreshold float64 // Remaining fraction at or above this is healthy
	WarningThreshold float64 // Remaining fraction at or above this is warning
	HealthyColor     lipgloss.Color
	WarnColor        lipgloss.Color
	CritColor        lipgloss.Color
	EmptyColor       lipgloss.Color
}

// DefaultQuotaBarConfig returns sensible defaults
func DefaultQuotaBarConfig() QuotaBarConfig {
	return QuotaBarConfig{
		Width:            20,
		HealthyThreshold: 0.7,
		WarningThreshold: 0.3,
		HealthyColor:     lipgloss.Color("#10B981"), // Green
		WarnColor:        lipgloss.Color("#F59E0B"), // Amber
		CritColor:        lipgloss.Color("#EF4444"), // Red
		EmptyColor:       lipgloss.Color("#374151"), // Dark gray
	}
}

// barColor picks the fill color for a remaining fraction.
func barColor(fraction float64, config QuotaBarConfig) lipgloss.Color {
	switch format.StatusForFraction(fraction, config.HealthyThreshold, config.WarningThreshold) {
	case format.StatusHealthy:
		return config.HealthyColor
	case format.StatusWarning:
		return config.WarnColor
	default:
		return config.CritColor
	}
}

// QuotaBar renders a bar filled proportionally to the remaining fraction.
func QuotaBar(fraction float64, config QuotaBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}

	// Clamp for display only; the underlying data stays untouched.
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction * float64(config.Width))
	if filled > config.Width {
		filled = config.Width
	}

	fillStyle := lipgloss.NewStyle().Foreground(barColor(fraction, config))
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(fillStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(emptyStyle.Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// QuotaBarWithLabel renders a quota bar followed by the percentage and a
// status icon.
func QuotaBarWithLabel(fraction float64, config QuotaBarConfig) string {
	bar := QuotaBar(fraction, config)

	var statusIcon string
	color := barColor(fraction, config)
	switch format.StatusForFraction(fraction, config.HealthyThreshold, config.WarningThreshold) {
	case format.StatusHealthy:
		statusIcon = "✓"
	case format.StatusWarning:
		statusIcon = "⚠"
	default:
		statusIcon = "✗"
	}

	style := lipgloss.NewStyle().Foreground(color)
	percent := fmt.Sprintf("%3.0f%%", fraction*100)
	return fmt.Sprintf("%s %s %s", bar, style.Render(percent), style.Render(statusIcon))
}
