// ABOUTME: Dashboard component displaying the current quota snapshot
// ABOUTME: Shows account identity, credit pools, and per-model quota bars

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitcoder27/windsurf-quota/internal/format"
	"github.com/gitcoder27/windsurf-quota/internal/tui/icons"
	"github.com/gitcoder27/windsurf-quota/internal/tui/styles"
	"github.com/gitcoder27/windsurf-quota/internal/tui/widgets"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

// Dashboard displays a quota snapshot
type Dashboard struct {
	snap   *windsurf.QuotaSnapshot
	barCfg widgets.QuotaBarConfig
	width  int
	height int
	now    func() time.Time
}

// New creates a new dashboard. The snapshot may be nil while the first fetch
// is in flight.
func New(snap *windsurf.QuotaSnapshot, barCfg widgets.QuotaBarConfig, width, height int) *Dashboard {
	return &Dashboard{
		snap:   snap,
		barCfg: barCfg,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// Update refreshes the dashboard with a new snapshot
func (d *Dashboard) Update(snap *windsurf.QuotaSnapshot) {
	d.snap = snap
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.snap == nil {
		return styles.Subtitle.Render("Discovering language server...")
	}

	var sb strings.Builder

	// Account header
	sb.WriteString(styles.Title.Render(icons.Account.String() + " " + accountLine(d.snap.Account)))
	sb.WriteString("\n")
	if d.snap.Account.Tier.Name != "" {
		sb.WriteString(styles.Subtitle.Render(d.snap.Account.Tier.Name))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// Credit pools
	sb.WriteString(d.renderPool(icons.Prompt.String()+" Prompt credits", d.snap.Available.Prompt, d.snap.Limits.MonthlyPrompt))
	sb.WriteString(d.renderPool(icons.Flow.String()+" Flow credits", d.snap.Available.Flow, d.snap.Limits.MonthlyFlow))
	sb.WriteString("\n")

	// Per-model quotas, in server order
	if len(d.snap.ModelQuotas) > 0 {
		sb.WriteString(styles.Title.Render(icons.Model.String() + " Models"))
		sb.WriteString("\n")
		labelWidth := d.modelLabelWidth()
		for _, q := range d.snap.ModelQuotas {
			sb.WriteString(d.renderModel(q, labelWidth))
		}
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

// accountLine joins name and email into a single header line.
func accountLine(a windsurf.Account) string {
	switch {
	case a.Name != "" && a.Email != "":
		return fmt.Sprintf("%s <%s>", a.Name, a.Email)
	case a.Email != "":
		return a.Email
	case a.Name != "":
		return a.Name
	default:
		return "Unknown account"
	}
}

// renderPool renders one credit pool with a bar when a limit is known.
func (d *Dashboard) renderPool(label string, available, limit float64) string {
	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteString("\n")

	if limit > 0 {
		fraction := available / limit
		sb.WriteString("  ")
		sb.WriteString(widgets.QuotaBar(fraction, d.barCfg))
		sb.WriteString(fmt.Sprintf(" %s / %s\n", format.Credits(available), format.Credits(limit)))
	} else {
		sb.WriteString(fmt.Sprintf("  %s remaining\n", styles.ValueStyle.Render(format.Credits(available))))
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderModel renders one model row. Models without quota information get a
// dash instead of a bar.
func (d *Dashboard) renderModel(q windsurf.ModelQuota, labelWidth int) string {
	label := format.ShortModelName(q.Label)
	padded := lipgloss.NewStyle().Width(labelWidth).Render(label)

	if q.Fraction == nil {
		muted := lipgloss.NewStyle().Foreground(styles.Muted)
		return fmt.Sprintf("  %s %s\n", padded, muted.Render("no quota data"))
	}

	row := fmt.Sprintf("  %s %s", padded, widgets.QuotaBarWithLabel(*q.Fraction, d.barCfg))
	if rel := format.ResetRelative(q.ResetTime, d.now()); rel != "" && rel != "now" {
		muted := lipgloss.NewStyle().Foreground(styles.Muted)
		row += muted.Render(fmt.Sprintf("  %s %s", icons.Clock.String(), rel))
	}
	return row + "\n"
}

// modelLabelWidth finds the widest shortened label so bars line up.
func (d *Dashboard) modelLabelWidth() int {
	width := 0
	for _, q := range d.snap.ModelQuotas {
		if w := lipgloss.Width(format.ShortModelName(q.Label)); w > width {
			width = w
		}
	}
	return width
}
