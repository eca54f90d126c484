// ABOUTME: Pure presentation formatting helpers
// ABOUTME: Reset times, credit abbreviation, model name shortening, status tiers

package format

import (
	"fmt"
	"strings"
	"time"
)

// Status is the three-tier health classification of a remaining quota
// fraction.
type Status int

const (
	StatusHealthy Status = iota
	StatusWarning
	StatusCritical
)

// String returns the lowercase label used in human-readable output.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusWarning:
		return "warning"
	default:
		return "critical"
	}
}

// StatusForFraction classifies a remaining fraction against the configured
// thresholds. Higher remaining fraction is better.
func StatusForFraction(fraction, healthy, warning float64) Status {
	if fraction >= healthy {
		return StatusHealthy
	}
	if fraction >= warning {
		return StatusWarning
	}
	return StatusCritical
}

// shortModelNames maps known verbose model labels to compact display names.
// Unknown labels pass through unchanged.
var shortModelNames = map[string]string{
	"Claude Sonnet 4 (Thinking)":   "Sonnet 4 T",
	"Claude Sonnet 4":              "Sonnet 4",
	"Claude Sonnet 4.5 (Thinking)": "Sonnet 4.5 T",
	"Claude Sonnet 4.5":            "Sonnet 4.5",
	"Claude Opus 4.1 (Thinking)":   "Opus 4.1 T",
	"Gemini 2.5 Pro (promo)":       "Gemini 2.5 Pro",
	"GPT-5 (low reasoning)":        "GPT-5 low",
	"GPT-5 (medium reasoning)":     "GPT-5 med",
	"GPT-5 (high reasoning)":       "GPT-5 high",
	"SWE-1 (free limited time)":    "SWE-1",
	"DeepSeek V3 (promo)":          "DeepSeek V3",
}

// ShortModelName compacts a known model label for narrow displays.
func ShortModelName(label string) string {
	if short, ok := shortModelNames[label]; ok {
		return short
	}
	return label
}

// ResetRelative renders an RFC3339 reset timestamp as a relative duration
// like "2h 15m". Returns "" for unparseable input and "now" for past times.
func ResetRelative(resetTime string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, resetTime)
	if err != nil {
		return ""
	}
	d := t.Sub(now)
	if d <= 0 {
		return "now"
	}
	if d < time.Minute {
		return "<1m"
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// ResetAbsolute renders an RFC3339 reset timestamp in the local timezone.
// Returns "" for unparseable input.
func ResetAbsolute(resetTime string) string {
	t, err := time.Parse(time.RFC3339, resetTime)
	if err != nil {
		return ""
	}
	return t.Local().Format("Jan 2 15:04")
}

// Credits renders a credit amount compactly, abbreviating thousands with a
// K suffix ("1.5K").
func Credits(n float64) string {
	if n >= 1000 || n <= -1000 {
		v := n / 1000
		s := fmt.Sprintf("%.1fK", v)
		return strings.Replace(s, ".0K", "K", 1)
	}
	return fmt.Sprintf("%g", n)
}

// Percent renders a remaining fraction as a whole percentage.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}
