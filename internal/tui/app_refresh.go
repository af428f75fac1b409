package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (a *App) startRefreshTicker() {
	if a.refreshInterval <= 0 || !a.autoRefreshEnabled {
		return
	}
	a.stopRefreshTicker()
	a.refreshGen++
	a.refreshTicker = time.NewTicker(time.Duration(a.refreshInterval) * time.Second)
	a.refreshStop = make(chan struct{})
}

func (a *App) stopRefreshTicker() {
	if a.refreshTicker != nil {
		a.refreshTicker.Stop()
		a.refreshTicker = nil
		close(a.refreshStop)
		a.refreshStop = nil
	}
}

// refreshTickerCmd waits for the next tick of the current ticker
func (a *App) refreshTickerCmd() tea.Cmd {
	if a.refreshTicker == nil {
		return nil
	}
	ticker, stop, gen := a.refreshTicker, a.refreshStop, a.refreshGen
	return func() tea.Msg {
		select {
		case ts := <-ticker.C:
			return refreshTickMsg{timestamp: ts, gen: gen}
		case <-stop:
			return nil
		}
	}
}

// autoRefresh reloads the active page unless a request is still running
// or an overlay is open
func (a *App) autoRefresh() tea.Cmd {
	if a.spinner.IsActive() || a.form.IsActive() || a.confirm.IsActive() {
		return nil
	}
	a.log.Debug("auto refresh", zap.String("page", a.page().ID()))
	return a.reload()
}

func (a *App) toggleAutoRefresh() tea.Cmd {
	if a.refreshInterval <= 0 {
		return warning("Chưa cấu hình chu kỳ tự động tải lại")
	}
	a.autoRefreshEnabled = !a.autoRefreshEnabled
	a.saveState()
	a.updateStatusBar()
	if !a.autoRefreshEnabled {
		a.stopRefreshTicker()
		return info("Đã tắt tự động tải lại")
	}
	a.startRefreshTicker()
	return tea.Batch(info("Đã bật tự động tải lại"), a.refreshTickerCmd())
}
