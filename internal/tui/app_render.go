package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
)

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	switch {
	case a.helpOverlay.IsActive():
		return a.helpOverlay.View()
	case a.cmdPalette.IsActive():
		return a.cmdPalette.View()
	case a.form.IsActive():
		return a.form.View()
	case a.confirm.IsActive():
		return a.confirm.View()
	}

	return a.renderLayout()
}

func (a *App) renderLayout() string {
	barHeight := 2
	toastView := ""
	if a.toaster.HasToasts() {
		toastView = a.toaster.View()
	}
	panelHeight := max(3, a.height-barHeight-lipgloss.Height(toastView))

	a.sidebar.SetHeight(panelHeight - 2)
	sidebarView := a.wrapPanel(a.sidebar.View(), a.focus == FocusSidebar)

	mainWidth := max(10, a.width-lipgloss.Width(sidebarView))
	mainView := a.wrapPanel(a.renderMain(mainWidth-2, panelHeight-2), a.focus != FocusSidebar)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, mainView)

	a.updateStatusBar()
	a.updateHelpBar()

	parts := []string{topRow}
	if toastView != "" {
		parts = append(parts, toastView)
	}
	parts = append(parts, a.statusBar.View(), a.helpBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMain stacks the page title, the search form, the page header and
// the master table with its detail panels
func (a *App) renderMain(width, height int) string {
	p := a.page()
	t := a.theme

	titleStyle := t.Title
	if a.focus != FocusSidebar {
		titleStyle = t.TitleActive
	}
	title := titleStyle.Render(p.Icon() + " " + p.Title())
	if spin := a.spinner.View(); spin != "" {
		gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(spin))
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, lipgloss.NewStyle().Width(gap).Render(""), spin)
	}

	search := p.Search()
	search.SetWidth(width)
	rows := []string{title, search.View()}
	if header := p.Header(width); header != "" {
		rows = append(rows, header)
	}

	used := 0
	for _, r := range rows {
		used += lipgloss.Height(r)
	}
	bodyHeight := max(3, height-used)

	panels := p.Panels()
	table := p.Table()
	table.SetSize(panels.MasterWidth(width), bodyHeight)
	body := panels.View(table.View(), width, bodyHeight, a.focus == FocusPanels, a.panelStyles)

	rows = append(rows, body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) wrapPanel(content string, active bool) string {
	style := a.theme.BorderNormal
	if active {
		style = a.theme.BorderActive
	}
	return style.Render(content)
}

func (a *App) updateStatusBar() {
	p := a.page()
	a.statusBar.SetPage(p.Title())
	a.statusBar.SetPanels(p.Panels().Len())
	a.statusBar.SetRefreshStatus(a.autoRefreshEnabled && a.refreshTicker != nil, a.refreshInterval)
	a.statusBar.SetLoading(a.spinner.IsActive())
}

func (a *App) updateHelpBar() {
	p := a.page()
	var hints []string
	switch a.focus {
	case FocusSidebar:
		hints = components.SidebarHints()
	case FocusSearch:
		hints = components.SearchHints()
	case FocusPanels:
		hints = components.PanelHints(p.Panels().HasControl(detailpanel.CollapseControl))
		hints = append(hints, p.Hints()...)
	default:
		hints = components.TableHints(p.Hints()...)
	}
	a.helpBar.SetHints(append(hints, components.GlobalHints()...))
}
