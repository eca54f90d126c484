// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("WINDSURF_QUOTA_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// Terminals known to commonly ship with Nerd Fonts
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// Override forces Nerd Font usage on or off, for config-driven control.
func Override(enabled bool) {
	nerdFontDetected.Do(func() {})
	useNerdFonts = enabled
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Quota resources
	Prompt = Icon{"󰭻", "◆"} // nf-md-message_text
	Flow   = Icon{"󱐋", "▸"} // nf-md-lightning_bolt
	Model  = Icon{"󰧑", "⬡"} // nf-md-brain
	Clock  = Icon{"󰥔", "◷"} // nf-md-clock_outline

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle

	// Actions
	Refresh  = Icon{"󰑓", "↻"} // nf-md-refresh
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
	Quit     = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App     = Icon{"󱗻", "◈"} // nf-md-surfing
	Account = Icon{"󰀄", "@"} // nf-md-account
)
