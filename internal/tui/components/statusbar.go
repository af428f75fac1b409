package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// StatusBar displays the current location and status
type StatusBar struct {
	width           int
	baseURL         string
	page            string
	panels          int
	autoRefresh     bool
	refreshInterval int
	loading         bool
	theme           *theme.Theme
}

// NewStatusBar creates a new status bar
func NewStatusBar(t *theme.Theme) StatusBar {
	return StatusBar{
		theme: t,
	}
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetBackend sets the backend shown at the start of the breadcrumb
func (s *StatusBar) SetBackend(baseURL string) {
	s.baseURL = baseURL
}

func (s *StatusBar) SetPage(title string) {
	s.page = title
}

// SetPanels sets the number of open detail panels
func (s *StatusBar) SetPanels(n int) {
	s.panels = n
}

// SetRefreshStatus sets the auto-refresh status
func (s *StatusBar) SetRefreshStatus(enabled bool, interval int) {
	s.autoRefresh = enabled
	s.refreshInterval = interval
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// Breadcrumb returns the plain breadcrumb text
func (s *StatusBar) Breadcrumb() string {
	parts := []string{}
	if s.baseURL != "" {
		parts = append(parts, s.baseURL)
	}
	if s.page != "" {
		parts = append(parts, s.page)
	}
	if s.panels > 0 {
		parts = append(parts, fmt.Sprintf("%d chi tiết", s.panels))
	}
	return strings.Join(parts, " > ")
}

func (s *StatusBar) View() string {
	breadcrumb := s.Breadcrumb()

	var statusParts []string

	if s.loading {
		statusParts = append(statusParts,
			s.theme.StatusInfo.Render(s.theme.Icons.Refresh+" Đang tải"))
	}

	if s.refreshInterval > 0 {
		refreshSymbol := s.theme.Icons.Refresh
		refreshStyle := s.theme.TextMuted
		label := "Tắt"
		if s.autoRefresh {
			refreshSymbol = s.theme.Icons.RefreshAuto
			refreshStyle = s.theme.StatusSuccess
			label = fmt.Sprintf("%ds", s.refreshInterval)
		}
		statusParts = append(statusParts,
			refreshStyle.Render(fmt.Sprintf("%s Tự động: %s", refreshSymbol, label)))
	}

	status := strings.Join(statusParts, " | ")

	leftWidth := lipgloss.Width(breadcrumb)
	rightWidth := lipgloss.Width(status)
	spacerWidth := s.width - leftWidth - rightWidth - 4

	var content string
	if spacerWidth > 0 {
		content = s.theme.Breadcrumb.Render(breadcrumb) +
			strings.Repeat(" ", spacerWidth) +
			status
	} else {
		maxBreadcrumb := s.width - rightWidth - 8
		runes := []rune(breadcrumb)
		if maxBreadcrumb > 10 && len(runes) > maxBreadcrumb {
			breadcrumb = "..." + string(runes[len(runes)-maxBreadcrumb+3:])
		}
		content = s.theme.Breadcrumb.Render(breadcrumb) + " " + status
	}

	return s.theme.StatusBar.
		Width(s.width).
		Render(content)
}

// HelpBar displays context-sensitive keybindings
type HelpBar struct {
	width int
	hints []string
	theme *theme.Theme
}

func NewHelpBar(t *theme.Theme) HelpBar {
	return HelpBar{
		theme: t,
	}
}

func (h *HelpBar) SetSize(width int) {
	h.width = width
}

func (h *HelpBar) SetHints(hints []string) {
	h.hints = hints
}

func (h *HelpBar) View() string {
	content := strings.Join(h.hints, " ")
	return h.theme.HelpBar.
		Width(h.width).
		Render(content)
}

// GlobalHints returns the global keybinding hints
func GlobalHints() []string {
	return []string{
		"[q] thoát",
		"[tab] chuyển",
		"[:] lệnh",
		"[?] trợ giúp",
	}
}

func SidebarHints() []string {
	return []string{
		"[enter] mở trang",
		"[/] lọc",
		"[ctrl+b] thu gọn",
	}
}

func SearchHints() []string {
	return []string{
		"[enter] tìm",
		"[tab] trường kế",
		"[←/→] chọn",
		"[ctrl+u] xóa lọc",
	}
}

// TableHints returns the master table hints plus page specific actions
func TableHints(actions ...string) []string {
	hints := []string{"[enter] chi tiết", "[←/→] trang"}
	return append(hints, actions...)
}

// PanelHints returns the detail panel hints. collapse adds the collapse
// control hint for the two-panel mode.
func PanelHints(collapse bool) []string {
	hints := []string{"[x] đóng", "[[/]] chuyển panel", "[esc] đóng cuối"}
	if collapse {
		hints = append(hints, "[c] thu gọn")
	}
	return hints
}
