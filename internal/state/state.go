package state

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/storeadmin/internal/paths"
)

const lockTimeout = 2 * time.Second

// PageState is what a page remembers between sessions
type PageState struct {
	Filters map[string]string `yaml:"filters,omitempty"`
	Page    int               `yaml:"page,omitempty"`
}

// UIState represents the persisted console state
type UIState struct {
	ActivePage       string               `yaml:"activePage,omitempty"`
	SidebarCollapsed bool                 `yaml:"sidebarCollapsed,omitempty"`
	AutoRefresh      bool                 `yaml:"autoRefresh,omitempty"`
	Pages            map[string]PageState `yaml:"pages,omitempty"`
}

func defaultState() *UIState {
	return &UIState{Pages: map[string]PageState{}}
}

// Path returns the state file location, creating the state directory
func Path(p *paths.Paths) (string, error) {
	if err := p.EnsureDirs(); err != nil {
		return "", fmt.Errorf("failed to ensure state directory: %w", err)
	}
	return p.UserStateFile(), nil
}

// Load reads the UI state from a file. A missing or corrupted file yields
// the default state.
func Load(path string) (*UIState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultState(), nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var s UIState
	if err := yaml.Unmarshal(data, &s); err != nil {
		return defaultState(), nil
	}
	if s.Pages == nil {
		s.Pages = map[string]PageState{}
	}
	return &s, nil
}

// Page returns the remembered state of a page; the zero value when none
func (s *UIState) Page(id string) PageState {
	ps := s.Pages[id]
	if ps.Page < 1 {
		ps.Page = 1
	}
	return ps
}

func (s *UIState) SetPage(id string, ps PageState) {
	if s.Pages == nil {
		s.Pages = map[string]PageState{}
	}
	ps.Filters = maps.Clone(ps.Filters)
	for k, v := range ps.Filters {
		if v == "" {
			delete(ps.Filters, k)
		}
	}
	if len(ps.Filters) == 0 {
		ps.Filters = nil
	}
	s.Pages[id] = ps
}

// Save writes the state under an exclusive lock on <path>.lock so that two
// consoles never interleave writes. The file is replaced atomically.
func (s *UIState) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	fl := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 20*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	if !locked {
		return fmt.Errorf("state file %s is locked by another console", path)
	}
	defer func() { _ = fl.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

// Clear removes the state file
func Clear(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
