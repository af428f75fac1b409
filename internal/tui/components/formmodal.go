package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// FormModal hosts a huh form as an overlay for create and edit screens
type FormModal struct {
	form     *huh.Form
	title    string
	onSubmit func() tea.Cmd
	width    int
	height   int
	theme    *theme.Theme
}

func NewFormModal(t *theme.Theme) FormModal {
	return FormModal{theme: t}
}

func (m *FormModal) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m *FormModal) formWidth() int {
	return max(40, min(72, m.width*60/100))
}

// Open shows form. onSubmit runs once the form completes; the values are
// read from the pointers the caller bound into the form.
func (m *FormModal) Open(title string, form *huh.Form, onSubmit func() tea.Cmd) tea.Cmd {
	m.title = title
	m.onSubmit = onSubmit
	m.form = form.
		WithTheme(huh.ThemeBase16()).
		WithWidth(m.formWidth()).
		WithShowHelp(true)
	return m.form.Init()
}

func (m *FormModal) Close() {
	m.form = nil
	m.onSubmit = nil
}

func (m *FormModal) IsActive() bool {
	return m.form != nil
}

func (m *FormModal) Title() string {
	return m.title
}

// Update forwards msg to the form. esc cancels. Commands the form emits
// on completion are dropped so the host program keeps running.
func (m *FormModal) Update(msg tea.Msg) tea.Cmd {
	if m.form == nil {
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.Close()
		return nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.onSubmit
		m.Close()
		if submit == nil {
			return nil
		}
		return submit()
	case huh.StateAborted:
		m.Close()
		return nil
	}
	return cmd
}

func (m *FormModal) View() string {
	if m.form == nil {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.TitleActive.Render(m.title),
		"",
		m.form.View(),
		m.theme.TextMuted.Render("[esc] hủy"),
	)

	box := m.theme.BorderActive.
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
