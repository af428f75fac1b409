package detailpanel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// RailWidth is the width of the collapsed master in the two-panel mode
const RailWidth = 7

const collapseGlyph = "▦"

// Styles controls how panels and the master rail are drawn
type Styles struct {
	Border       lipgloss.Style
	BorderActive lipgloss.Style
	BorderEnter  lipgloss.Style
	Header       lipgloss.Style
	Close        lipgloss.Style
	Body         lipgloss.Style
	Rail         lipgloss.Style
	Hint         lipgloss.Style
}

func DefaultStyles(t *theme.Theme) Styles {
	return Styles{
		Border:       t.BorderNormal,
		BorderActive: t.BorderActive,
		BorderEnter: lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()),
		Header: t.Title,
		Close:  t.StatusError.Bold(true),
		Body:   t.Text,
		Rail: lipgloss.NewStyle().
			Foreground(t.Colors.Text).
			Background(t.Colors.Primary).
			Bold(true).
			Align(lipgloss.Center),
		Hint: t.TextMuted,
	}
}

// MasterWidth is the width available to the master region
func (m *Manager) MasterWidth(total int) int {
	return m.layout.Widths(total, RailWidth)[0]
}

// PanelWidths returns the width of every open panel in stack order
func (m *Manager) PanelWidths(total int) []int {
	return m.layout.Widths(total, RailWidth)[1:]
}

// View lays the master view and the open panels out side by side.
// master is expected to be rendered for MasterWidth(width) already.
// active highlights the focused panel.
func (m *Manager) View(master string, width, height int, active bool, st Styles) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	widths := m.layout.Widths(width, RailWidth)
	columns := make([]string, 0, len(widths))

	switch {
	case m.layout.MasterCollapsed:
		columns = append(columns, m.renderRail(widths[0], height, st))
	case widths[0] > 0:
		columns = append(columns, lipgloss.NewStyle().
			Width(widths[0]).
			MaxWidth(widths[0]).
			Height(height).
			MaxHeight(height).
			Render(master))
	}

	focused := m.Focused()
	for i, p := range m.panels {
		if col := renderPanel(p, widths[i+1], height, active && p == focused, st); col != "" {
			columns = append(columns, col)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m *Manager) renderRail(width, height int, st Styles) string {
	var b strings.Builder
	if m.HasControl(CollapseControl) {
		b.WriteString(st.Rail.Width(width).Render(collapseGlyph))
		b.WriteString("\n")
		b.WriteString(st.Hint.Width(width).Align(lipgloss.Center).Render("[c]"))
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(b.String())
}

func renderPanel(p *Panel, width, height int, focused bool, st Styles) string {
	border := st.Border
	switch {
	case !p.open:
		border = st.BorderEnter
	case focused:
		border = st.BorderActive
	}

	// A panel with no room inside its frame is not drawn at all.
	if width <= border.GetHorizontalFrameSize() {
		return ""
	}

	innerWidth := width - border.GetHorizontalFrameSize()
	innerHeight := max(0, height-border.GetVerticalFrameSize())

	padding := 1
	if p.compact {
		padding = 0
	}
	contentWidth := max(0, innerWidth-2*padding)

	closeBtn := st.Close.Render("[x]")
	header := st.Header.
		Width(max(0, contentWidth-lipgloss.Width(closeBtn)-1)).
		Align(lipgloss.Center).
		Render(truncate(p.content.Header, contentWidth-lipgloss.Width(closeBtn)-1))
	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, closeBtn, " ", header)

	divider := st.Hint.Render(strings.Repeat("─", contentWidth))

	body := st.Body.
		Width(contentWidth).
		MaxHeight(max(0, innerHeight-2)).
		Render(p.content.Body)

	inner := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Padding(0, padding).
		Render(lipgloss.JoinVertical(lipgloss.Left, headerLine, divider, body))

	return lipgloss.NewStyle().MaxWidth(width).Render(border.Render(inner))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		if first := string(runes[:1]); lipgloss.Width(first) <= width {
			return first
		}
		return ""
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
