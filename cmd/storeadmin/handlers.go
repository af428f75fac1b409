package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/storeadmin/internal/ascii"
	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/paths"
	"github.com/Cloudsky01/storeadmin/internal/wizard"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	asciiStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

func printSuccessSummary(configPath string, cfg *config.Config) {
	divider := dividerStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	fmt.Println(asciiStyle.Render(ascii.GetASCIIArt()))
	fmt.Println(divider)
	fmt.Println(successStyle.Render("✅ Configuration created successfully!"))
	fmt.Println(divider)
	fmt.Println()

	fmt.Println(labelStyle.Render("📁 Config file: ") + infoStyle.Render(configPath))
	fmt.Println(labelStyle.Render("🌐 Backend:     ") + infoStyle.Render(cfg.API.BaseURL))
	fmt.Println(labelStyle.Render("📄 Page size:   ") + infoStyle.Render(fmt.Sprintf("%d", cfg.UI.PageSize)))
	fmt.Println(labelStyle.Render("🔄 Refresh:     ") + infoStyle.Render(refreshLabel(cfg.UI.RefreshInterval)))
	fmt.Println(labelStyle.Render("🏠 Start page:  ") + infoStyle.Render(cfg.UI.StartPage))

	fmt.Println()
	fmt.Println(headerStyle.Render("🚀 Next steps:"))
	fmt.Println(infoStyle.Render("   storeadmin login    # Sign in to the backend"))
	fmt.Println(infoStyle.Render("   storeadmin          # Launch the console"))
	fmt.Println(infoStyle.Render("   storeadmin --help   # See all options"))
	fmt.Println()
}

func refreshLabel(seconds int) string {
	if seconds <= 0 {
		return "off"
	}
	return fmt.Sprintf("every %ds", seconds)
}

// handleMissingConfig offers to run the wizard when no config file exists.
// It reports whether a file was created.
func handleMissingConfig(cmd *cobra.Command, p *paths.Paths) (bool, error) {
	if !wizard.IsTTY() {
		return false, nil
	}

	shouldCreate := false
	err := wizard.AskConfirm(
		"No configuration found",
		fmt.Sprintf("Create %s now? Choosing no starts with the built-in defaults.", p.UserConfigFile()),
		&shouldCreate,
	)
	if err != nil {
		return false, err
	}
	if !shouldCreate {
		fmt.Println(wizard.InfoStyle().Render("Using the built-in defaults"))
		return false, nil
	}

	if err := runInit(cmd, nil); err != nil {
		return false, err
	}
	return true, nil
}
