package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
)

// requestStartedMsg is emitted before a backend call runs
type requestStartedMsg struct {
	label string
}

// finished is embedded in every backend result so the app can balance
// the spinner
type finished struct{}

func (finished) requestDone() {}

type requestDone interface {
	requestDone()
}

// toastMsg asks the app to show a toast
type toastMsg struct {
	level components.ToastLevel
	text  string
}

// confirmMsg asks the app to open the confirm modal
type confirmMsg struct {
	title   string
	message string
	action  func() tea.Cmd
}

// formMsg asks the app to open a form overlay
type formMsg struct {
	title    string
	form     *huh.Form
	onSubmit func() tea.Cmd
}

// refreshTickMsg carries the ticker generation so ticks of a stopped
// ticker are dropped
type refreshTickMsg struct {
	timestamp time.Time
	gen       int
}

// ConfigReloadedMsg carries a config that changed on disk
type ConfigReloadedMsg struct {
	Config *config.Config
}

func toast(level components.ToastLevel, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: level, text: text} }
}

func success(text string) tea.Cmd { return toast(components.ToastSuccess, text) }
func danger(text string) tea.Cmd  { return toast(components.ToastDanger, text) }
func warning(text string) tea.Cmd { return toast(components.ToastWarning, text) }
func info(text string) tea.Cmd    { return toast(components.ToastInfo, text) }

func confirm(title, message string, action func() tea.Cmd) tea.Cmd {
	return func() tea.Msg { return confirmMsg{title: title, message: message, action: action} }
}

func openForm(title string, form *huh.Form, onSubmit func() tea.Cmd) tea.Cmd {
	return func() tea.Msg { return formMsg{title: title, form: form, onSubmit: onSubmit} }
}
