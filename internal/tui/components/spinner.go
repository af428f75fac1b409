package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// Spinner tracks in-flight requests. It keeps spinning until every
// Start has been matched by a Done.
type Spinner struct {
	spinner  spinner.Model
	inflight int
	label    string
	theme    *theme.Theme
}

func NewSpinner(t *theme.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().
		Foreground(t.Colors.Primary).
		Bold(true)

	return Spinner{
		spinner: s,
		theme:   t,
	}
}

// Start registers one request. The tick command is only returned for the
// first one so the animation is not driven twice.
func (s *Spinner) Start(label string) tea.Cmd {
	s.inflight++
	s.label = label
	if s.inflight == 1 {
		return s.spinner.Tick
	}
	return nil
}

// Done marks one request as finished
func (s *Spinner) Done() {
	if s.inflight > 0 {
		s.inflight--
	}
	if s.inflight == 0 {
		s.label = ""
	}
}

func (s *Spinner) Stop() {
	s.inflight = 0
	s.label = ""
}

func (s *Spinner) IsActive() bool {
	return s.inflight > 0
}

func (s *Spinner) InFlight() int {
	return s.inflight
}

func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.IsActive() {
		return nil
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *Spinner) View() string {
	if !s.IsActive() {
		return ""
	}
	label := s.label
	if s.inflight > 1 {
		label = fmt.Sprintf("%s (%d)", label, s.inflight)
	}
	return s.spinner.View() + " " + s.theme.TextDim.Render(label)
}
