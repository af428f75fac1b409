package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// Details builds the body of a detail panel as titled sections of
// label / value rows
type Details struct {
	b     strings.Builder
	width int
	theme *theme.Theme
}

func NewDetails(t *theme.Theme, width int) *Details {
	return &Details{
		width: width,
		theme: t,
	}
}

// Section starts a new titled block
func (d *Details) Section(title string) *Details {
	if d.b.Len() > 0 {
		d.b.WriteString("\n")
	}
	d.b.WriteString(d.theme.Subtitle.Bold(true).Render(title))
	d.b.WriteString("\n")
	return d
}

// Row adds a label / value line. Empty values render as a dash.
func (d *Details) Row(label, value string) *Details {
	if strings.TrimSpace(value) == "" {
		value = format.Empty
	}
	labelStyle := d.theme.Label
	valueStyle := d.theme.Text
	if d.width > 0 {
		labelStyle = labelStyle.Width(min(18, max(8, d.width/3)))
		valueStyle = valueStyle.Width(max(1, d.width-labelStyle.GetWidth()))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value))
	d.b.WriteString(line)
	d.b.WriteString("\n")
	return d
}

// Styled adds a row whose value is already rendered
func (d *Details) Styled(label, rendered string) *Details {
	return d.Row(label, rendered)
}

// Line adds free text
func (d *Details) Line(text string) *Details {
	d.b.WriteString(text)
	d.b.WriteString("\n")
	return d
}

// Hint adds a muted line, typically key hints
func (d *Details) Hint(text string) *Details {
	d.b.WriteString(d.theme.TextMuted.Render(text))
	d.b.WriteString("\n")
	return d
}

func (d *Details) Divider() *Details {
	d.b.WriteString(d.theme.Divider(max(d.width, 24)))
	d.b.WriteString("\n")
	return d
}

func (d *Details) String() string {
	return strings.TrimRight(d.b.String(), "\n")
}
