package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// Command is one entry of the palette. Action may be nil; the caller then
// dispatches on Name.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Action      func() tea.Cmd
}

type CmdPalette struct {
	active   bool
	input    textinput.Model
	commands []Command
	filtered []Command
	cursor   int
	width    int
	height   int
	theme    *theme.Theme
}

func NewCmdPalette(t *theme.Theme) CmdPalette {
	in := textinput.New()
	in.Prompt = ":"
	in.PromptStyle = t.FilterPrompt
	in.TextStyle = t.FilterInput
	in.CharLimit = 64

	return CmdPalette{
		theme: t,
		input: in,
	}
}

func (c *CmdPalette) SetCommands(cmds []Command) {
	c.commands = cmds
	c.applyFilter()
}

func (c *CmdPalette) SetSize(width, height int) {
	c.width = width
	c.height = height
}

func (c *CmdPalette) IsActive() bool {
	return c.active
}

func (c *CmdPalette) Open() tea.Cmd {
	c.active = true
	c.input.SetValue("")
	c.cursor = 0
	c.applyFilter()
	return c.input.Focus()
}

func (c *CmdPalette) Close() {
	c.active = false
	c.input.Blur()
	c.input.SetValue("")
	c.cursor = 0
}

// Filtered returns the commands matching the current input
func (c *CmdPalette) Filtered() []Command {
	return c.filtered
}

func (c *CmdPalette) applyFilter() {
	query := strings.TrimSpace(c.input.Value())
	if query == "" {
		c.filtered = c.commands
		return
	}

	matches := fuzzy.FindFrom(query, commandSource(c.commands))
	c.filtered = make([]Command, len(matches))
	for i, match := range matches {
		c.filtered[i] = c.commands[match.Index]
	}
	c.cursor = 0
}

type commandSource []Command

func (cs commandSource) String(i int) string {
	cmd := cs[i]
	return cmd.Name + " " + strings.Join(cmd.Aliases, " ")
}

func (cs commandSource) Len() int {
	return len(cs)
}

// Update handles a key while the palette is open. It returns the chosen
// command once enter is pressed.
func (c *CmdPalette) Update(msg tea.Msg) (*Command, tea.Cmd) {
	if !c.active {
		return nil, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}

	switch key.String() {
	case "esc":
		c.Close()
		return nil, nil
	case "enter":
		var selected *Command
		if c.cursor >= 0 && c.cursor < len(c.filtered) {
			cmd := c.filtered[c.cursor]
			selected = &cmd
		}
		c.Close()
		return selected, nil
	case "up", "ctrl+p":
		if c.cursor > 0 {
			c.cursor--
		}
		return nil, nil
	case "down", "ctrl+n":
		if c.cursor < len(c.filtered)-1 {
			c.cursor++
		}
		return nil, nil
	case "tab":
		if c.cursor >= 0 && c.cursor < len(c.filtered) {
			c.input.SetValue(c.filtered[c.cursor].Name)
			c.input.CursorEnd()
			c.applyFilter()
		}
		return nil, nil
	}

	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.applyFilter()
	}
	return nil, cmd
}

func (c *CmdPalette) View() string {
	if !c.active {
		return ""
	}

	overlayWidth := max(40, c.width*50/100)
	overlayHeight := max(10, min(20, c.height*50/100))

	var b strings.Builder
	b.WriteString(c.input.View())
	b.WriteString("\n")
	b.WriteString(c.theme.Divider(overlayWidth - 4))
	b.WriteString("\n")

	if len(c.filtered) == 0 {
		b.WriteString(c.theme.TextMuted.Render("  Không có lệnh phù hợp"))
	} else {
		maxVisible := max(1, overlayHeight-5)
		start := 0
		end := min(len(c.filtered), maxVisible)
		if c.cursor >= end {
			start = c.cursor - maxVisible + 1
			end = c.cursor + 1
		}

		for i := start; i < end; i++ {
			cmd := c.filtered[i]
			style := c.theme.Text
			if i == c.cursor {
				style = c.theme.Selected
			}
			b.WriteString(style.Render(c.theme.ItemPrefix(i == c.cursor) + cmd.Name))
			if cmd.Description != "" {
				b.WriteString(c.theme.TextDim.Render(" - " + cmd.Description))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(c.theme.TextMuted.Render("[tab] hoàn thành [enter] chạy [esc] hủy"))

	box := c.theme.BorderActive.Render(lipgloss.NewStyle().
		Width(overlayWidth-4).
		Height(overlayHeight-2).
		Padding(1, 2).
		Render(b.String()))

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Top, box)
}

// DefaultCommands lists the console commands, binding any given actions
func DefaultCommands(actions map[string]func() tea.Cmd) []Command {
	cmds := []Command{
		{Name: "orders", Aliases: []string{"1", "don-hang"}, Description: "Quản lý đơn hàng"},
		{Name: "products", Aliases: []string{"2", "san-pham"}, Description: "Quản lý sản phẩm"},
		{Name: "users", Aliases: []string{"3", "nguoi-dung"}, Description: "Quản lý người dùng"},
		{Name: "payments", Aliases: []string{"4", "thanh-toan"}, Description: "Quản lý thanh toán"},
		{Name: "sensors", Aliases: []string{"5", "cam-bien"}, Description: "Dữ liệu cảm biến"},
		{Name: "refresh", Aliases: []string{"r", "reload"}, Description: "Tải lại trang hiện tại"},
		{Name: "auto-refresh", Aliases: []string{"auto"}, Description: "Bật/tắt tự động tải lại"},
		{Name: "new", Aliases: []string{"n", "create"}, Description: "Tạo bản ghi mới"},
		{Name: "close-all", Aliases: []string{"collapse"}, Description: "Đóng mọi panel chi tiết"},
		{Name: "clear-filters", Aliases: []string{"reset"}, Description: "Xóa bộ lọc tìm kiếm"},
		{Name: "export-chart", Aliases: []string{"h", "html"}, Description: "Xuất biểu đồ HTML"},
		{Name: "sidebar", Aliases: []string{"b"}, Description: "Thu gọn/mở thanh bên"},
		{Name: "help", Aliases: []string{"?"}, Description: "Phím tắt"},
		{Name: "quit", Aliases: []string{"q", "exit"}, Description: "Thoát"},
	}

	for i := range cmds {
		if action, ok := actions[cmds[i].Name]; ok {
			cmds[i].Action = action
		}
	}

	return cmds
}
