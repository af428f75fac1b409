package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastDanger
)

// DefaultToastDuration is how long a toast stays up unless told otherwise
const DefaultToastDuration = 3 * time.Second

const maxVisibleToasts = 3

type Toast struct {
	ID      string
	Message string
	Level   ToastLevel
}

type ToastExpiredMsg struct {
	ID string
}

type Toaster struct {
	toasts []Toast
	width  int
	theme  *theme.Theme
}

func NewToaster(t *theme.Theme) Toaster {
	return Toaster{
		theme:  t,
		toasts: []Toast{},
	}
}

func (t *Toaster) SetWidth(width int) {
	t.width = width
}

// Show queues a toast and returns the command that dismisses it
func (t *Toaster) Show(message string, level ToastLevel, duration time.Duration) tea.Cmd {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	id := uuid.NewString()
	t.toasts = append(t.toasts, Toast{ID: id, Message: message, Level: level})

	return tea.Tick(duration, func(_ time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

func (t *Toaster) Info(message string) tea.Cmd {
	return t.Show(message, ToastInfo, DefaultToastDuration)
}

func (t *Toaster) Success(message string) tea.Cmd {
	return t.Show(message, ToastSuccess, DefaultToastDuration)
}

func (t *Toaster) Warning(message string) tea.Cmd {
	return t.Show(message, ToastWarning, DefaultToastDuration)
}

// Danger shows an error toast; errors linger a little longer
func (t *Toaster) Danger(message string) tea.Cmd {
	return t.Show(message, ToastDanger, DefaultToastDuration+2*time.Second)
}

func (t *Toaster) Error(message string) tea.Cmd {
	return t.Danger(message)
}

func (t *Toaster) Update(msg tea.Msg) {
	if expired, ok := msg.(ToastExpiredMsg); ok {
		t.dismiss(expired.ID)
	}
}

func (t *Toaster) dismiss(id string) {
	active := t.toasts[:0]
	for _, toast := range t.toasts {
		if toast.ID != id {
			active = append(active, toast)
		}
	}
	t.toasts = active
}

func (t *Toaster) HasToasts() bool {
	return len(t.toasts) > 0
}

func (t *Toaster) Toasts() []Toast {
	return append([]Toast(nil), t.toasts...)
}

// View renders the newest toasts, most recent last, right aligned
func (t *Toaster) View() string {
	if len(t.toasts) == 0 {
		return ""
	}

	start := max(0, len(t.toasts)-maxVisibleToasts)
	lines := make([]string, 0, len(t.toasts)-start)
	for _, toast := range t.toasts[start:] {
		lines = append(lines, lipgloss.PlaceHorizontal(t.width, lipgloss.Right, t.render(toast)))
	}
	return strings.Join(lines, "\n")
}

func (t *Toaster) render(toast Toast) string {
	var style lipgloss.Style
	var icon string

	switch toast.Level {
	case ToastSuccess:
		style = t.theme.StatusSuccess
		icon = t.theme.Icons.Success + " "
	case ToastWarning:
		style = t.theme.StatusWarning
		icon = "! "
	case ToastDanger:
		style = t.theme.StatusError
		icon = t.theme.Icons.Error + " "
	default:
		style = t.theme.StatusInfo
		icon = "ℹ "
	}

	return lipgloss.NewStyle().
		Foreground(style.GetForeground()).
		Padding(0, 2).
		Bold(true).
		Render(icon + toast.Message)
}
