package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/tui/components"
)

func (a *App) setupCommands() {
	actions := map[string]func() tea.Cmd{
		"refresh":       a.reload,
		"auto-refresh":  a.toggleAutoRefresh,
		"new":           func() tea.Cmd { return a.pageAction("n", "Trang này không hỗ trợ tạo mới") },
		"export-chart":  func() tea.Cmd { return a.pageAction("h", "Trang này không có biểu đồ") },
		"close-all":     a.closeAllPanels,
		"clear-filters": a.clearFilters,
		"sidebar": func() tea.Cmd {
			a.toggleSidebar()
			return nil
		},
		"help": func() tea.Cmd {
			a.helpOverlay.Toggle()
			return nil
		},
	}
	for _, p := range a.pages {
		id := p.ID()
		actions[id] = func() tea.Cmd { return a.switchPage(id) }
	}
	a.cmdPalette.SetCommands(components.DefaultCommands(actions))
}

func (a *App) executeCommand(cmd *components.Command) (tea.Model, tea.Cmd) {
	a.log.Debug("command executed", zap.String("command", cmd.Name))
	if cmd.Name == "quit" {
		return a.quit()
	}
	if cmd.Action != nil {
		return a, cmd.Action()
	}
	return a, nil
}

// pageAction replays a page key as if pressed on the table
func (a *App) pageAction(key, unsupported string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	if cmd, ok := a.page().HandleKey(msg, FocusTable); ok {
		return cmd
	}
	return warning(unsupported)
}

func (a *App) closeAllPanels() tea.Cmd {
	panels := a.page().Panels()
	for panels.Len() > 0 {
		panels.CloseLast()
	}
	a.syncFocus()
	return nil
}

func (a *App) clearFilters() tea.Cmd {
	a.page().Search().Reset()
	return a.applyFilters()
}
