package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Warn     lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneTitleF  lipgloss.Style
	Footer      lipgloss.Style
	InputBox    lipgloss.Style
	InputBoxF   lipgloss.Style
	Spinner     lipgloss.Style
	ErrorLine   lipgloss.Style
	StatusLine  lipgloss.Style

	RoleYou lipgloss.Style
	RoleAI  lipgloss.Style
	RoleSys lipgloss.Style

	TraceNode    lipgloss.Style
	TraceDesc    lipgloss.Style
	TraceDocs    lipgloss.Style
	TraceNeutral lipgloss.Style

	TicketTitle  lipgloss.Style
	TicketOpen   lipgloss.Style
	TicketClosed lipgloss.Style
	SevHigh      lipgloss.Style
	SevMedium    lipgloss.Style
	SevLow       lipgloss.Style

	FormLabel lipgloss.Style
	FormHint  lipgloss.Style
}

func NewTheme(preferred string) Theme {
	name := ThemeName(preferred)
	if env := os.Getenv("OPSCTL_THEME"); env != "" {
		name = ThemeName(env)
	}
	if os.Getenv("OPSCTL_NO_COLOR") == "1" {
		return newNoColorTheme()
	}
	switch name {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func (t Theme) finish() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneFocused = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.PaneTitleF = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.InputBoxF = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.ErrorLine = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.StatusLine = lipgloss.NewStyle().Foreground(t.Success)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.RoleSys = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.TraceNode = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TraceDesc = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.TraceDocs = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TraceNeutral = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.TicketTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TicketOpen = lipgloss.NewStyle().Foreground(t.Warn)
	t.TicketClosed = lipgloss.NewStyle().Foreground(t.Success)
	t.SevHigh = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.SevMedium = lipgloss.NewStyle().Foreground(t.Warn)
	t.SevLow = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.FormLabel = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.FormHint = lipgloss.NewStyle().Foreground(t.TextMuted)
	return t
}

func newPorcelainTheme() Theme {
	return Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		Accent:      lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success:     lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}.finish()
}

func newMidnightTheme() Theme {
	return Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		Accent:      lipgloss.AdaptiveColor{Light: "#0ea5e9", Dark: "#5cc8ff"},
		Success:     lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Warn:        lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f4b27d"},
		Error:       lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:      lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi:    lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
	}.finish()
}

func newNoColorTheme() Theme {
	mono := lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}
	muted := lipgloss.AdaptiveColor{Light: "#555555", Dark: "#bbbbbb"}
	return Theme{
		Name:        "no-color",
		TextPrimary: mono,
		TextMuted:   muted,
		Accent:      mono,
		Success:     mono,
		Warn:        mono,
		Error:       mono,
		Border:      muted,
		BorderHi:    mono,
	}.finish()
}
