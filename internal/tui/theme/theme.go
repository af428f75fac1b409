// Package theme provides centralized styling for the admin console.
// Every component draws its colors and icons from here.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color palette for the application
type Colors struct {
	// Primary colors
	Primary   lipgloss.Color // Selection, active borders
	Secondary lipgloss.Color
	Accent    lipgloss.Color // Search, breadcrumb, special items

	// Text colors
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color // Hints, disabled

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Background colors
	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color // Bars, headers
	BgHighlight lipgloss.Color

	// Border colors
	Border       lipgloss.Color
	BorderActive lipgloss.Color
}

// Theme contains all styling for the application
type Theme struct {
	Colors Colors

	Title        lipgloss.Style
	TitleActive  lipgloss.Style
	Subtitle     lipgloss.Style
	Text         lipgloss.Style
	TextDim      lipgloss.Style
	TextMuted    lipgloss.Style
	Selected     lipgloss.Style
	Cursor       lipgloss.Style
	StatusBar    lipgloss.Style
	HelpBar      lipgloss.Style
	Breadcrumb   lipgloss.Style
	BorderNormal lipgloss.Style
	BorderActive lipgloss.Style
	FilterInput  lipgloss.Style
	FilterPrompt lipgloss.Style
	Label        lipgloss.Style
	Money        lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style

	Icons IconSet
}

// IconSet defines the icons used throughout the app
type IconSet struct {
	Orders      string
	Products    string
	Users       string
	Payments    string
	Sensors     string
	Success     string
	Error       string
	Shipping    string
	Pending     string
	Blocked     string
	Search      string
	Filter      string
	Refresh     string
	RefreshAuto string
	Back        string
	Selected    string
	Unselected  string
	Collapse    string
	Expand      string
}

func DefaultColors() Colors {
	return Colors{
		Primary:   lipgloss.Color("39"),
		Secondary: lipgloss.Color("33"),
		Accent:    lipgloss.Color("141"),

		Text:      lipgloss.Color("252"),
		TextDim:   lipgloss.Color("245"),
		TextMuted: lipgloss.Color("240"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("214"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("45"),

		BgPrimary:   lipgloss.Color(""),
		BgSecondary: lipgloss.Color("236"),
		BgHighlight: lipgloss.Color("238"),

		Border:       lipgloss.Color("240"),
		BorderActive: lipgloss.Color("39"),
	}
}

func DefaultIcons() IconSet {
	return IconSet{
		Orders:      "🧾",
		Products:    "👟",
		Users:       "👤",
		Payments:    "💳",
		Sensors:     "🌱",
		Success:     "✓",
		Error:       "✗",
		Shipping:    "➜",
		Pending:     "○",
		Blocked:     "⊘",
		Search:      "🔍",
		Filter:      "⏵",
		Refresh:     "↻",
		RefreshAuto: "⟳",
		Back:        "←",
		Selected:    "▸",
		Unselected:  " ",
		Collapse:    "«",
		Expand:      "»",
	}
}

// Default returns the default dark theme
func Default() *Theme {
	colors := DefaultColors()
	icons := DefaultIcons()

	return &Theme{
		Colors: colors,
		Icons:  icons,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Primary),

		TitleActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Text).
			Background(colors.Primary).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(colors.TextDim),

		Text: lipgloss.NewStyle().
			Foreground(colors.Text),

		TextDim: lipgloss.NewStyle().
			Foreground(colors.TextDim),

		TextMuted: lipgloss.NewStyle().
			Foreground(colors.TextMuted),

		Selected: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Bold(true),

		Cursor: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Background(colors.BgSecondary).
			Foreground(colors.TextDim).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Background(colors.BgSecondary).
			Foreground(colors.TextMuted).
			Padding(0, 1),

		Breadcrumb: lipgloss.NewStyle().
			Background(colors.BgSecondary).
			Foreground(colors.Accent).
			Padding(0, 1),

		BorderNormal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border),

		BorderActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.BorderActive),

		FilterInput: lipgloss.NewStyle().
			Foreground(colors.Text).
			Background(colors.BgHighlight).
			Padding(0, 1),

		FilterPrompt: lipgloss.NewStyle().
			Foreground(colors.Accent).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(colors.TextDim).
			Width(18),

		Money: lipgloss.NewStyle().
			Foreground(colors.Success).
			Bold(true),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(colors.Success),

		StatusWarning: lipgloss.NewStyle().
			Foreground(colors.Warning),

		StatusError: lipgloss.NewStyle().
			Foreground(colors.Error),

		StatusInfo: lipgloss.NewStyle().
			Foreground(colors.Info),
	}
}

// StatusIcon returns the icon and style for a backend status code such as
// an order, payment or user status. Unknown codes render dimmed.
func (t *Theme) StatusIcon(status string) (string, lipgloss.Style) {
	switch strings.ToUpper(status) {
	case "DELIVERED", "PAID", "ACTIVE":
		return t.Icons.Success, t.StatusSuccess
	case "SHIPPING":
		return t.Icons.Shipping, t.StatusInfo
	case "PENDING":
		return t.Icons.Pending, t.StatusWarning
	case "CANCELLED", "FAILED":
		return t.Icons.Error, t.StatusError
	case "BLOCKED", "INACTIVE":
		return t.Icons.Blocked, t.StatusError
	default:
		return t.Icons.Pending, t.TextDim
	}
}

// Badge renders a status label prefixed with its icon
func (t *Theme) Badge(status, label string) string {
	icon, style := t.StatusIcon(status)
	return style.Render(icon + " " + label)
}

// ItemPrefix returns the cursor prefix for an item
func (t *Theme) ItemPrefix(selected bool) string {
	if selected {
		return t.Icons.Selected + " "
	}
	return t.Icons.Unselected + " "
}

// Divider returns a horizontal divider line
func (t *Theme) Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return t.TextMuted.Render(strings.Repeat("─", width))
}
