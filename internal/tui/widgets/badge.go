// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Provides colored inline badges derived from quota health

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitcoder27/windsurf-quota/internal/format"
	"github.com/gitcoder27/windsurf-quota/internal/tui/icons"
)

// Badge colors
var (
	BadgeHealthyBg = lipgloss.Color("#10B981")
	BadgeHealthyFg = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// Badge renders a colored status badge
func Badge(text string, status format.Status) string {
	var bg, fg lipgloss.Color

	switch status {
	case format.StatusHealthy:
		bg, fg = BadgeHealthyBg, BadgeHealthyFg
	case format.StatusWarning:
		bg, fg = BadgeWarnBg, BadgeWarnFg
	default:
		bg, fg = BadgeCritBg, BadgeCritFg
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// StatusBadge renders a predefined badge for a quota status
func StatusBadge(status format.Status) string {
	switch status {
	case format.StatusHealthy:
		return Badge("OK", status)
	case format.StatusWarning:
		return Badge("LOW", status)
	default:
		return Badge("CRIT", status)
	}
}

// StatusIcon returns the appropriate icon for a quota status
func StatusIcon(status format.Status) string {
	switch status {
	case format.StatusHealthy:
		return lipgloss.NewStyle().Foreground(BadgeHealthyBg).Render(icons.CheckOK.String())
	case format.StatusWarning:
		return lipgloss.NewStyle().Foreground(BadgeWarnBg).Render(icons.Warning.String())
	default:
		return lipgloss.NewStyle().Foreground(BadgeCritBg).Render(icons.Critical.String())
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, status format.Status) string {
	var color lipgloss.Color
	switch status {
	case format.StatusHealthy:
		color = BadgeHealthyBg
	case format.StatusWarning:
		color = BadgeWarnBg
	default:
		color = BadgeCritBg
	}

	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", StatusIcon(status), textStyle.Render(text))
}
