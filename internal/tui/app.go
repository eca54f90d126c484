// ABOUTME: Root bubbletea model for the quota dashboard
// ABOUTME: Manages screen state, refresh commands, and keyboard routing

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/gitcoder27/windsurf-quota/internal/config"
	"github.com/gitcoder27/windsurf-quota/internal/tui/dashboard"
	"github.com/gitcoder27/windsurf-quota/internal/tui/debuglog"
	"github.com/gitcoder27/windsurf-quota/internal/tui/icons"
	"github.com/gitcoder27/windsurf-quota/internal/tui/settings"
	"github.com/gitcoder27/windsurf-quota/internal/tui/styles"
	"github.com/gitcoder27/windsurf-quota/internal/tui/widgets"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

// Fetcher loads a fresh quota snapshot, rediscovering the endpoint each call.
type Fetcher interface {
	FetchUserStatus(ctx context.Context) (*windsurf.QuotaSnapshot, error)
}

// Screen represents the current TUI screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenSettings
)

// Layout constants
const (
	minTerminalWidth = 60 // Minimum width before clamping the frame
	panelPadding     = 4  // Total horizontal padding from panel borders
)

// snapshotLoadedMsg is sent when a quota fetch completes
type snapshotLoadedMsg struct {
	snap *windsurf.QuotaSnapshot
	err  error
}

// App is the root model for the TUI
type App struct {
	fetcher    Fetcher
	cfg        *config.Config
	cfgPath    string
	screen     Screen
	width      int
	height     int
	fetching   bool
	fetchErr   error
	snap       *windsurf.QuotaSnapshot
	lastUpdate time.Time
	spin       spinner.Model

	// Child models
	dashboard *dashboard.Dashboard
	settings  *settings.Settings
}

// New creates a new TUI application
func New(fetcher Fetcher, cfg *config.Config, cfgPath string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &App{
		fetcher:   fetcher,
		cfg:       cfg,
		cfgPath:   cfgPath,
		screen:    ScreenDashboard,
		spin:      sp,
		dashboard: dashboard.New(nil, barConfig(cfg), 0, 0),
	}
}

// barConfig derives the quota bar configuration from display settings.
func barConfig(cfg *config.Config) widgets.QuotaBarConfig {
	bc := widgets.DefaultQuotaBarConfig()
	bc.HealthyThreshold = cfg.Display.HealthyThreshold
	bc.WarningThreshold = cfg.Display.WarningThreshold
	return bc
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.fetching = true
	return tea.Batch(a.spin.Tick, a.loadSnapshot())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.dashboardWidth(), a.contentHeight())
		}
		if a.screen == ScreenSettings && a.settings != nil {
			return a.updateSettings(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenSettings:
			return a.updateSettings(msg)
		}

	case spinner.TickMsg:
		if !a.fetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case snapshotLoadedMsg:
		a.fetching = false
		if msg.err != nil {
			// Keep showing the previous snapshot; surface the error in a banner.
			log.WithError(msg.err).Warn("quota refresh failed")
			a.fetchErr = msg.err
			return a, nil
		}
		a.fetchErr = nil
		a.snap = msg.snap
		a.lastUpdate = time.Now()
		a.dashboard.Update(msg.snap)
		return a, nil

	case settings.SavedMsg:
		return a.handleSettingsSaved(msg)

	case settings.CancelledMsg:
		a.screen = ScreenDashboard
		a.settings = nil
		return a, nil

	default:
		// Forward unknown messages to the settings form when active (needed
		// for huh form internals)
		if a.screen == ScreenSettings && a.settings != nil {
			return a.updateSettings(msg)
		}
	}

	return a, nil
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		// Ignore while a fetch is already in flight
		if a.fetching {
			return a, nil
		}
		a.fetching = true
		return a, tea.Batch(a.spin.Tick, a.loadSnapshot())
	case "s":
		a.settings = settings.New(a.cfg)
		a.screen = ScreenSettings
		return a, a.settings.Init()
	}
	return a, nil
}

func (a *App) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.settings == nil {
		return a, nil
	}
	model, cmd := a.settings.Update(msg)
	a.settings = model.(*settings.Settings)
	return a, cmd
}

func (a *App) handleSettingsSaved(msg settings.SavedMsg) (tea.Model, tea.Cmd) {
	a.cfg = msg.Config
	a.screen = ScreenDashboard
	a.settings = nil

	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		log.WithError(err).Warn("failed to save config")
	}
	if a.cfg.Display.NerdFonts {
		icons.Override(true)
	}

	// Rebuild the dashboard so new thresholds take effect immediately
	a.dashboard = dashboard.New(a.snap, barConfig(a.cfg), a.dashboardWidth(), a.contentHeight())
	return a, nil
}

// loadSnapshot creates a command to fetch a fresh quota snapshot
func (a *App) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.fetcher.FetchUserStatus(context.Background())
		return snapshotLoadedMsg{snap: snap, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenSettings:
		content = a.viewSettings()
	default:
		content = a.viewDashboard()
	}

	return a.wrapWithFrame(content)
}

// viewDashboard renders the dashboard panel with optional error banner
func (a *App) viewDashboard() string {
	var sb strings.Builder

	if a.fetchErr != nil {
		sb.WriteString(styles.ErrorBanner.Render(icons.Warning.String() + " " + a.fetchErr.Error()))
		sb.WriteString("\n")
	}

	if a.fetching && a.snap == nil {
		sb.WriteString(styles.Panel.Width(a.dashboardWidth()).Render(a.spin.View() + " Fetching quota..."))
	} else {
		sb.WriteString(styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View()))
	}

	return sb.String()
}

// viewSettings renders the settings screen
func (a *App) viewSettings() string {
	if a.settings != nil {
		return a.settings.View()
	}
	return ""
}

// dashboardWidth calculates the width for the dashboard panel
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - panelPadding
	}
	return a.width - panelPadding
}

// contentHeight calculates the height available for dashboard content
func (a *App) contentHeight() int {
	// Header, footer, panel borders and padding
	return a.height - 8
}

// renderHeader creates the header bar with app branding and account context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Windsurf Quota"))

	rightText := ""
	if a.snap != nil && a.snap.Account.Email != "" {
		rightText = contextStyle.Render(a.snap.Account.Email) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╭─" + leftRendered + fill + rightRendered + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and refresh status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenSettings:
		shortcuts = []string{"↑↓ Navigate", "Enter Confirm", "Esc Cancel"}
	default:
		shortcuts = []string{"r Refresh", "s Settings", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	switch {
	case a.fetching:
		rightText = statusStyle.Render("Refreshing...") + " "
		rightPlainText = "Refreshing... "
	case !a.lastUpdate.IsZero() && a.screen == ScreenDashboard:
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╰─" + leftText + fill + rightText + "─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(fetcher Fetcher, cfg *config.Config, cfgPath string) error {
	if err := debuglog.Init(config.Dir()); err == nil {
		defer debuglog.Close()
	}
	if cfg.Display.NerdFonts {
		icons.Override(true)
	}

	app := New(fetcher, cfg, cfgPath)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
