package wizard

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func WarnStyle() lipgloss.Style { return warnStyle }
func InfoStyle() lipgloss.Style { return infoStyle }

// IsTTY reports whether both stdin and stdout are terminals, so that
// interactive prompts can run
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// AskConfirm shows a yes/no prompt and stores the answer in value
func AskConfirm(title, description string, value *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	).Run()
}

// AskCredentials prompts for a username and a hidden password. username
// is prefilled with its current value.
func AskCredentials(username, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Validate(notEmpty).
				Value(username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(notEmpty).
				Value(password),
		),
	).Run()
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
