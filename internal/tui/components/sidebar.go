package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// SidebarWidth and SidebarCollapsedWidth are the two widths the sidebar
// takes in the layout
const (
	SidebarWidth          = 24
	SidebarCollapsedWidth = 5
)

// NavItem is one page entry of the sidebar
type NavItem struct {
	ID    string
	Title string
	Icon  string
	Key   string
}

// NavSelectedMsg is sent when a page is picked in the sidebar
type NavSelectedMsg struct {
	ID string
}

// Sidebar is the page navigation component
type Sidebar struct {
	items         []NavItem
	filteredItems []NavItem
	cursor        int
	active        string
	filterInput   string
	filterActive  bool
	height        int
	collapsed     bool
	focused       bool
	theme         *theme.Theme
}

func NewSidebar(t *theme.Theme) Sidebar {
	return Sidebar{
		theme: t,
	}
}

func (s *Sidebar) SetItems(items []NavItem) {
	s.items = items
	s.applyFilter()
	if s.cursor >= len(s.filteredItems) {
		s.cursor = max(0, len(s.filteredItems)-1)
	}
}

func (s *Sidebar) Items() []NavItem {
	return s.items
}

func (s *Sidebar) SetHeight(height int) {
	s.height = height
}

// Width returns the current width, depending on the collapse state
func (s *Sidebar) Width() int {
	if s.collapsed {
		return SidebarCollapsedWidth
	}
	return SidebarWidth
}

func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
	if !focused {
		s.filterActive = false
	}
}

func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetActive marks the page currently shown and moves the cursor to it
func (s *Sidebar) SetActive(id string) {
	s.active = id
	for i, item := range s.filteredItems {
		if item.ID == id {
			s.cursor = i
		}
	}
}

func (s *Sidebar) Active() string {
	return s.active
}

func (s *Sidebar) SetCollapsed(collapsed bool) {
	s.collapsed = collapsed
	if collapsed {
		s.ClearFilter()
	}
}

func (s *Sidebar) IsCollapsed() bool {
	return s.collapsed
}

// Toggle flips the collapse state
func (s *Sidebar) Toggle() {
	s.SetCollapsed(!s.collapsed)
}

func (s *Sidebar) SelectedItem() *NavItem {
	if s.cursor >= 0 && s.cursor < len(s.filteredItems) {
		return &s.filteredItems[s.cursor]
	}
	return nil
}

func (s *Sidebar) IsFiltering() bool {
	return s.filterActive
}

func (s *Sidebar) ClearFilter() {
	s.filterInput = ""
	s.filterActive = false
	s.applyFilter()
}

func (s *Sidebar) applyFilter() {
	if s.filterInput == "" {
		s.filteredItems = s.items
		return
	}

	matches := fuzzy.FindFrom(s.filterInput, navItemSource(s.items))
	s.filteredItems = make([]NavItem, len(matches))
	for i, match := range matches {
		s.filteredItems[i] = s.items[match.Index]
	}
}

type navItemSource []NavItem

func (n navItemSource) String(i int) string {
	return n[i].Title + " " + n[i].ID
}

func (n navItemSource) Len() int {
	return len(n)
}

func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		return s.handleKey(key)
	}
	return nil
}

func (s *Sidebar) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.filterActive {
		switch msg.String() {
		case "enter":
			s.filterActive = false
			return s.choose()
		case "esc":
			s.ClearFilter()
		case "backspace":
			if runes := []rune(s.filterInput); len(runes) > 0 {
				s.filterInput = string(runes[:len(runes)-1])
				s.applyFilter()
				s.cursor = 0
			}
		default:
			if msg.Type == tea.KeyRunes {
				s.filterInput += string(msg.Runes)
				s.applyFilter()
				s.cursor = 0
			}
		}
		return nil
	}

	switch msg.String() {
	case "/":
		if !s.collapsed {
			s.filterActive = true
			s.filterInput = ""
		}
	case "j", "down":
		if s.cursor < len(s.filteredItems)-1 {
			s.cursor++
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case "enter", "l":
		return s.choose()
	case "esc":
		if s.filterInput != "" {
			s.ClearFilter()
		}
	}
	return nil
}

func (s *Sidebar) choose() tea.Cmd {
	item := s.SelectedItem()
	if item == nil {
		return nil
	}
	id := item.ID
	return func() tea.Msg { return NavSelectedMsg{ID: id} }
}

func (s *Sidebar) View() string {
	width := s.Width()
	var b strings.Builder

	titleStyle := s.theme.Title
	if s.focused {
		titleStyle = s.theme.TitleActive
	}

	if s.collapsed {
		b.WriteString(titleStyle.Render(s.theme.Icons.Expand))
		b.WriteString("\n\n")
		for i, item := range s.items {
			style := s.theme.TextDim
			if item.ID == s.active {
				style = s.theme.Selected
			}
			if s.focused && i == s.cursor {
				style = style.Underline(true)
			}
			b.WriteString(style.Render(item.Icon))
			b.WriteString("\n")
		}
		return lipgloss.NewStyle().Width(width).Height(s.height).Render(b.String())
	}

	b.WriteString(titleStyle.Render(s.theme.Icons.Collapse + " Quản trị"))
	b.WriteString("\n")
	b.WriteString(s.theme.Divider(width - 2))
	b.WriteString("\n")

	if s.filterActive {
		b.WriteString(s.theme.FilterPrompt.Render(s.theme.Icons.Filter+" ") +
			s.theme.FilterInput.Render(s.filterInput+"█"))
		b.WriteString("\n")
	} else if s.filterInput != "" {
		b.WriteString(s.theme.TextMuted.Render(fmt.Sprintf("%s %q", s.theme.Icons.Search, s.filterInput)))
		b.WriteString("\n")
	}

	if len(s.filteredItems) == 0 {
		b.WriteString(s.theme.TextMuted.Render("  Không tìm thấy"))
		b.WriteString("\n")
	}

	for i, item := range s.filteredItems {
		selected := s.focused && i == s.cursor
		style := s.theme.Text
		switch {
		case selected:
			style = s.theme.Selected
		case item.ID == s.active:
			style = s.theme.Selected.Bold(false)
		}
		line := s.theme.ItemPrefix(selected) + item.Icon + " " + item.Title
		if item.Key != "" {
			line += s.theme.TextMuted.Render(" " + item.Key)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	contentLines := strings.Count(b.String(), "\n")
	if remaining := s.height - contentLines - 1; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	hints := "[/] lọc [ctrl+b] thu gọn"
	if s.filterActive {
		hints = "[enter] mở [esc] hủy"
	}
	b.WriteString(s.theme.TextMuted.Render(hints))

	return lipgloss.NewStyle().
		Width(width).
		Height(s.height).
		Render(b.String())
}
