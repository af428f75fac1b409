package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// DefaultConfirmMessage is asked before deleting a record
const DefaultConfirmMessage = "Bạn có chắc chắn muốn xóa bản ghi này?"

// ConfirmModal asks a yes / no question and runs the action on yes
type ConfirmModal struct {
	active  bool
	title   string
	message string
	yes     bool
	action  func() tea.Cmd
	width   int
	height  int
	theme   *theme.Theme
}

func NewConfirmModal(t *theme.Theme) ConfirmModal {
	return ConfirmModal{theme: t}
}

func (c *ConfirmModal) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Open shows the modal. An empty message falls back to the delete prompt.
func (c *ConfirmModal) Open(title, message string, action func() tea.Cmd) {
	if strings.TrimSpace(message) == "" {
		message = DefaultConfirmMessage
	}
	if strings.TrimSpace(title) == "" {
		title = "Xác nhận"
	}
	c.active = true
	c.title = title
	c.message = message
	c.action = action
	c.yes = true
}

func (c *ConfirmModal) Close() {
	c.active = false
	c.action = nil
}

func (c *ConfirmModal) IsActive() bool {
	return c.active
}

func (c *ConfirmModal) Message() string {
	return c.message
}

// Update handles a key while open. The returned command is the confirmed
// action, nil when the modal was dismissed.
func (c *ConfirmModal) Update(msg tea.Msg) tea.Cmd {
	if !c.active {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.yes = !c.yes
	case "y":
		return c.confirm()
	case "n", "esc", "q":
		c.Close()
	case "enter":
		if c.yes {
			return c.confirm()
		}
		c.Close()
	}
	return nil
}

func (c *ConfirmModal) confirm() tea.Cmd {
	action := c.action
	c.Close()
	if action == nil {
		return nil
	}
	return action()
}

func (c *ConfirmModal) View() string {
	if !c.active {
		return ""
	}

	button := func(label string, selected bool) string {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(c.theme.Colors.TextDim)
		if selected {
			style = style.Foreground(c.theme.Colors.Text).Background(c.theme.Colors.Primary).Bold(true)
		}
		return style.Render(label)
	}

	width := max(36, min(60, c.width/2))
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		button("Xác nhận", c.yes), "  ", button("Hủy", !c.yes))

	content := lipgloss.JoinVertical(lipgloss.Center,
		c.theme.TitleActive.Render(c.title),
		"",
		c.theme.Text.Width(width-6).Align(lipgloss.Center).Render(c.message),
		"",
		buttons,
		"",
		c.theme.TextMuted.Render("[y] đồng ý [n/esc] hủy"),
	)

	box := c.theme.BorderActive.
		Width(width).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, box)
}
