package tui

import (
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/state"
)

func (a *App) saveState() {
	if a.noState {
		return
	}
	s := &state.UIState{
		ActivePage:       a.page().ID(),
		SidebarCollapsed: a.sidebar.IsCollapsed(),
		AutoRefresh:      a.autoRefreshEnabled,
	}
	for _, p := range a.pages {
		s.SetPage(p.ID(), p.Snapshot())
	}
	if err := s.Save(a.statePath); err != nil {
		a.log.Warn("failed to save ui state", zap.String("path", a.statePath), zap.Error(err))
	}
}

// restoreState applies a saved session. A state without an active page
// has never been written and leaves the configured defaults alone.
func (a *App) restoreState() {
	s, err := state.Load(a.statePath)
	if err != nil {
		a.log.Warn("failed to load ui state", zap.String("path", a.statePath), zap.Error(err))
		return
	}
	if s.ActivePage == "" {
		return
	}

	for _, p := range a.pages {
		if ps, ok := s.Pages[p.ID()]; ok {
			p.Restore(ps)
		}
	}
	a.setActive(s.ActivePage)
	a.sidebar.SetCollapsed(s.SidebarCollapsed)
	a.autoRefreshEnabled = s.AutoRefresh && a.refreshInterval > 0
}
