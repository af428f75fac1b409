package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
)

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a.quit()
	}

	switch {
	case a.helpOverlay.IsActive():
		return a, a.helpOverlay.Update(msg)
	case a.form.IsActive():
		return a, a.form.Update(msg)
	case a.confirm.IsActive():
		return a, a.confirm.Update(msg)
	case a.cmdPalette.IsActive():
		cmd, teaCmd := a.cmdPalette.Update(msg)
		if cmd != nil {
			return a.executeCommand(cmd)
		}
		return a, teaCmd
	}

	if a.focus == FocusSearch {
		return a, a.handleSearchKey(msg)
	}
	if a.focus == FocusSidebar && a.sidebar.IsFiltering() {
		return a, a.sidebar.Update(msg)
	}

	page := a.page()
	panels := page.Panels()

	switch key {
	case "q":
		return a.quit()

	case "?":
		a.helpOverlay.Toggle()
		return a, nil

	case ":":
		return a, a.cmdPalette.Open()

	case "tab":
		return a, a.cycleFocus(1)

	case "shift+tab":
		return a, a.cycleFocus(-1)

	case "ctrl+b":
		a.toggleSidebar()
		return a, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < len(a.pages) {
			return a, a.switchPage(a.pages[idx].ID())
		}
		return a, nil

	case "ctrl+r":
		return a, a.reload()

	case "ctrl+t":
		return a, a.toggleAutoRefresh()

	case "/":
		if a.focus != FocusSidebar {
			return a, a.setFocus(FocusSearch, false)
		}

	case "esc":
		if panels.Len() > 0 {
			panels.CloseLast()
			return a, nil
		}
		if a.focus == FocusPanels {
			return a, a.setFocus(FocusTable, false)
		}
		return a, nil

	case "[", "]":
		if panels.Len() == 0 {
			return a, nil
		}
		if a.focus == FocusPanels {
			if key == "[" {
				panels.FocusPrev()
			} else {
				panels.FocusNext()
			}
		}
		return a, a.setFocus(FocusPanels, false)

	case "x":
		if panels.CloseFocused() {
			return a, nil
		}

	case "c":
		if panels.Press(detailpanel.CollapseControl) {
			return a, a.setFocus(FocusTable, false)
		}
	}

	if a.focus == FocusSidebar {
		return a, a.sidebar.Update(msg)
	}

	if cmd, ok := a.handlePagingKey(key); ok {
		return a, cmd
	}

	if cmd, ok := page.HandleKey(msg, a.focus); ok {
		return a, cmd
	}

	if a.focus == FocusTable {
		return a, page.Table().Update(msg)
	}
	return a, nil
}

// handlePagingKey maps the footer links to keys
func (a *App) handlePagingKey(key string) (tea.Cmd, bool) {
	table := a.page().Table()
	var (
		target int
		ok     bool
	)
	switch key {
	case "right", "pgdown":
		target, ok = table.NextPage()
	case "left", "pgup":
		target, ok = table.PrevPage()
	case "home":
		target, ok = table.FirstPage()
	case "end":
		target, ok = table.LastPage()
	default:
		return nil, false
	}
	if !ok {
		return nil, true
	}
	return a.page().GoTo(target), true
}

func (a *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	page := a.page()
	event, cmd := page.Search().Update(msg)
	switch event {
	case components.SearchSubmit:
		return tea.Batch(cmd, a.setFocus(FocusTable, false), a.applyFilters())
	case components.SearchCleared:
		return tea.Batch(cmd, a.applyFilters())
	case components.SearchLeave:
		return tea.Batch(cmd, a.setFocus(FocusTable, false))
	}
	return cmd
}

func (a *App) applyFilters() tea.Cmd {
	cmd := a.page().ApplyFilters()
	a.saveState()
	return cmd
}

// focusOrder lists the regions tab cycles through
func (a *App) focusOrder() []Focus {
	order := []Focus{FocusSidebar, FocusSearch, FocusTable}
	if a.page().Panels().Len() > 0 {
		order = append(order, FocusPanels)
	}
	return order
}

func (a *App) cycleFocus(delta int) tea.Cmd {
	order := a.focusOrder()
	idx := slices.Index(order, a.focus)
	if idx < 0 {
		idx = 0
	}
	next := order[(idx+delta+len(order))%len(order)]
	return a.setFocus(next, delta < 0)
}

// setFocus moves keyboard focus. fromEnd enters the search form at its
// last field.
func (a *App) setFocus(f Focus, fromEnd bool) tea.Cmd {
	a.focus = f
	page := a.page()

	a.sidebar.SetFocused(f == FocusSidebar)
	page.Table().SetFocused(f == FocusTable)

	if f == FocusSearch {
		return page.Search().Focus(fromEnd)
	}
	page.Search().Blur()
	return nil
}

// syncFocus leaves the panel region once its last panel is gone
func (a *App) syncFocus() {
	if a.focus == FocusPanels && a.page().Panels().Len() == 0 {
		a.setFocus(FocusTable, false)
	}
}

func (a *App) toggleSidebar() {
	a.sidebar.Toggle()
	a.saveState()
}
