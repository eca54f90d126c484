// ABOUTME: Settings screen as a bubbletea model built on a huh form
// ABOUTME: Edits display thresholds, locale, and nerd font usage

package settings

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitcoder27/windsurf-quota/internal/config"
)

// SavedMsg is sent when the form completes with the updated config.
type SavedMsg struct {
	Config *config.Config
}

// CancelledMsg is sent when the user backs out without saving.
type CancelledMsg struct{}

// Settings manages the settings form flow as a bubbletea model
type Settings struct {
	cfg   *config.Config
	form  *huh.Form
	width int

	// Form field values (strings for huh)
	healthy   string
	warning   string
	locale    string
	nerdFonts bool
}

// createTheme returns a custom huh theme matching the dashboard colors
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	sky := lipgloss.Color("#0EA5E9")
	skyLight := lipgloss.Color("#38BDF8")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(sky).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(sky)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(skyLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(sky).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(sky).
		Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(sky)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(sky)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(sky).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates a settings screen seeded from the current config.
func New(cfg *config.Config) *Settings {
	s := &Settings{
		cfg:       cfg,
		healthy:   formatFraction(cfg.Display.HealthyThreshold),
		warning:   formatFraction(cfg.Display.WarningThreshold),
		locale:    cfg.Display.Locale,
		nerdFonts: cfg.Display.NerdFonts,
	}
	s.form = s.createForm()
	return s
}

func (s *Settings) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Healthy threshold").
				Description("Remaining fraction at or above this shows green").
				Placeholder("e.g., 0.7").
				CharLimit(5).
				Value(&s.healthy).
				Validate(validateFraction),
			huh.NewInput().
				Title("Warning threshold").
				Description("Remaining fraction at or above this shows amber").
				Placeholder("e.g., 0.3").
				CharLimit(5).
				Value(&s.warning).
				Validate(validateFraction),
			huh.NewInput().
				Title("Locale").
				Description("Locale sent with quota requests").
				Placeholder("en").
				CharLimit(10).
				Value(&s.locale).
				Validate(validateNonEmpty),
			huh.NewConfirm().
				Title("Nerd Font icons").
				Description("Use Nerd Font glyphs instead of plain Unicode").
				Value(&s.nerdFonts),
		).Title("Display Settings").
			Description("Changes are written to the config file on save"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (s *Settings) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *Settings) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s, s.complete()
	}

	return s, cmd
}

// complete applies the form values onto a copy of the config and emits it.
func (s *Settings) complete() tea.Cmd {
	updated := *s.cfg
	updated.Display.HealthyThreshold, _ = strconv.ParseFloat(s.healthy, 64)
	updated.Display.WarningThreshold, _ = strconv.ParseFloat(s.warning, 64)
	updated.Display.Locale = s.locale
	updated.Display.NerdFonts = s.nerdFonts

	return func() tea.Msg {
		return SavedMsg{Config: &updated}
	}
}

// View implements tea.Model
func (s *Settings) View() string {
	return s.form.View()
}

func formatFraction(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func validateFraction(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}

func validateNonEmpty(v string) error {
	if v == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}
