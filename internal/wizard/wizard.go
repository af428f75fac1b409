package wizard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/config"
)

var pageTitles = map[string]string{
	"orders":   "Orders",
	"products": "Products",
	"users":    "Users",
	"payments": "Payments",
	"sensors":  "Sensors",
}

// Answers holds the raw form values before they are parsed into a config
type Answers struct {
	BaseURL          string
	Timeout          string
	Username         string
	PageSize         string
	RefreshInterval  string
	StartPage        string
	SidebarCollapsed bool
	LogLevel         string
}

// Wizard handles the interactive configuration creation
type Wizard struct {
	answers Answers
	base    *config.Config
}

// New creates a wizard prefilled from base, or from the defaults when base
// is nil
func New(base *config.Config) *Wizard {
	if base == nil {
		base = config.Default()
	}
	return &Wizard{
		base: base,
		answers: Answers{
			BaseURL:          base.API.BaseURL,
			Timeout:          base.API.Timeout.String(),
			Username:         base.API.Username,
			PageSize:         strconv.Itoa(base.UI.PageSize),
			RefreshInterval:  strconv.Itoa(base.UI.RefreshInterval),
			StartPage:        base.UI.StartPage,
			SidebarCollapsed: base.UI.SidebarCollapsed,
			LogLevel:         base.Log.Level,
		},
	}
}

// Answers returns the current form values
func (w *Wizard) Answers() Answers {
	return w.answers
}

// Run executes the interactive wizard
func (w *Wizard) Run() (*config.Config, error) {
	fmt.Println()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	fmt.Println(titleStyle.Render("storeadmin configuration wizard"))
	fmt.Println()

	if err := w.form().Run(); err != nil {
		return nil, err
	}
	return w.Build()
}

func (w *Wizard) form() *huh.Form {
	pages := make([]huh.Option[string], 0, len(config.Pages))
	for _, id := range config.Pages {
		pages = append(pages, huh.NewOption(pageTitles[id], id))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Root of the store API, e.g. http://localhost:8080").
				Placeholder(config.DefaultBaseURL).
				Validate(ValidateBaseURL).
				Value(&w.answers.BaseURL),

			huh.NewInput().
				Title("Request timeout").
				Description("Go duration such as 15s or 1m").
				Validate(validateTimeout).
				Value(&w.answers.Timeout),

			huh.NewInput().
				Title("Username (optional)").
				Description("Prefilled by storeadmin login").
				Value(&w.answers.Username),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Rows per page").
				Validate(validatePageSize).
				Value(&w.answers.PageSize),

			huh.NewInput().
				Title("Auto refresh (seconds)").
				Description("0 disables auto refresh").
				Validate(validateRefresh).
				Value(&w.answers.RefreshInterval),

			huh.NewSelect[string]().
				Title("Start page").
				Options(pages...).
				Value(&w.answers.StartPage),

			huh.NewConfirm().
				Title("Start with the sidebar collapsed?").
				Affirmative("Yes").
				Negative("No").
				Value(&w.answers.SidebarCollapsed),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&w.answers.LogLevel),
		),
	)
}

// Build converts the answers into a validated config
func (w *Wizard) Build() (*config.Config, error) {
	a := w.answers
	cfg := *w.base

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	cfg.API.Username = strings.TrimSpace(a.Username)

	timeout, err := parseTimeout(a.Timeout)
	if err != nil {
		return nil, err
	}
	cfg.API.Timeout = timeout

	if cfg.UI.PageSize, err = parseInt(a.PageSize, "page size"); err != nil {
		return nil, err
	}
	if cfg.UI.RefreshInterval, err = parseInt(a.RefreshInterval, "refresh interval"); err != nil {
		return nil, err
	}
	cfg.UI.StartPage = a.StartPage
	cfg.UI.SidebarCollapsed = a.SidebarCollapsed
	cfg.Log.Level = a.LogLevel

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ValidateBaseURL accepts absolute http and https URLs
func ValidateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http or https URL")
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return config.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("timeout %q must be a positive duration", s)
	}
	return d, nil
}

func validateTimeout(s string) error {
	_, err := parseTimeout(s)
	return err
}

func parseInt(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return n, nil
}

func validatePageSize(s string) error {
	n, err := parseInt(s, "page size")
	if err != nil {
		return err
	}
	if n < 1 || n > config.MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", config.MaxPageSize)
	}
	return nil
}

func validateRefresh(s string) error {
	n, err := parseInt(s, "refresh interval")
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("refresh interval must not be negative")
	}
	return nil
}
