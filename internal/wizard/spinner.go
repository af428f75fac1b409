package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var errInterrupted = errors.New("interrupted")

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
	cancel  context.CancelFunc
}

type spinnerCompleteMsg struct {
	err error
}

func newSpinnerModel(message string, cancel context.CancelFunc) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return spinnerModel{
		spinner: s,
		message: message,
		cancel:  cancel,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = errInterrupted
			return m, tea.Quit
		}
		return m, nil

	case spinnerCompleteMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() string {
	if m.done {
		if m.err == nil {
			return successStyle.Render("✓ "+m.message) + "\n"
		}
		return errorStyle.Render("✗ "+m.message+": "+m.err.Error()) + "\n"
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), messageStyle.Render(m.message))
}

// RunWithSpinner runs fn while a spinner is shown. Without a terminal it
// prints plain progress lines instead. ctrl+c cancels the context given
// to fn.
func RunWithSpinner(ctx context.Context, message string, fn func(context.Context) error) error {
	if !IsTTY() {
		return runPlain(ctx, message, fn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(message, cancel))
	go func() {
		p.Send(spinnerCompleteMsg{err: fn(ctx)})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if sm, ok := final.(spinnerModel); ok {
		return sm.err
	}
	return fmt.Errorf("unexpected model type")
}

func runPlain(ctx context.Context, message string, fn func(context.Context) error) error {
	fmt.Println(messageStyle.Render(message + "..."))
	if err := fn(ctx); err != nil {
		fmt.Println(errorStyle.Render("✗ " + message + ": " + err.Error()))
		return err
	}
	fmt.Println(successStyle.Render("✓ " + message))
	return nil
}
