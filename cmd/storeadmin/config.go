package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/migration"
	"github.com/Cloudsky01/storeadmin/internal/paths"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage storeadmin configuration",
		Long: `Manage storeadmin configuration files.

Configuration Locations:
  User config:     ~/.config/storeadmin/config.yaml
  Legacy config:   ./.storeadmin.yaml or ~/.storeadmin.yaml

Configuration Precedence (lowest to highest):
  1. Built-in defaults
  2. Config file (--config, $STOREADMIN_CONFIG, user config, legacy file)
  3. Environment variables (STOREADMIN_*)
  4. CLI flags`,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Long:  `Display the paths to all configuration files and their existence status.`,
		RunE:  runConfigPath,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long:  `Show the effective configuration after applying the file, environment and flags.`,
		RunE:  runConfigShow,
	}

	configEditCmd = &cobra.Command{
		Use:   "edit",
		Short: "Edit user configuration file",
		Long:  `Open the user configuration file in $EDITOR (or vim/nano if not set).`,
		RunE:  runConfigEdit,
	}

	configMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Move a legacy config to the user config directory",
		Long: `Copy ./.storeadmin.yaml or ~/.storeadmin.yaml to the user config
directory. The file is validated first. Use --remove to delete the legacy
file afterwards.`,
		RunE: runConfigMigrate,
	}

	removeLegacy bool

	configResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset user configuration",
		Long:  `Remove the user configuration file to reset to defaults.`,
		RunE:  runConfigReset,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configMigrateCmd)
	configCmd.AddCommand(configResetCmd)

	configMigrateCmd.Flags().BoolVar(&removeLegacy, "remove", false, "Delete the legacy file after migrating")
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration File Locations")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	userConfigPath := p.UserConfigFile()
	fmt.Fprintf(out, "User Config:        %s %s\n", userConfigPath, existsIndicator(fileExists(userConfigPath)))
	if env := os.Getenv(paths.ConfigEnvVar); env != "" {
		fmt.Fprintf(out, "%s:  %s %s\n", paths.ConfigEnvVar, env, existsIndicator(fileExists(env)))
	}
	if legacyPath, found := p.FindLegacyConfig(); found {
		fmt.Fprintf(out, "Legacy Config:      %s ✓\n", legacyPath)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "State File:         %s\n", p.UserStateFile())
	fmt.Fprintf(out, "Log File:           %s\n", p.LogFile())
	fmt.Fprintf(out, "Chart Directory:    %s\n", p.ChartDir())

	resolved, source := p.ResolveConfig(configPath)
	fmt.Fprintln(out)
	if resolved == "" {
		fmt.Fprintf(out, "In use:             %s\n", source)
	} else {
		fmt.Fprintf(out, "In use:             %s (%s)\n", resolved, source)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, _, path, source, err := loadConfig(p)
	if err != nil {
		return err
	}
	overrides(cmd)(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Effective Configuration")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "Source: %s\n", source)
	if path != "" {
		fmt.Fprintf(out, "Path:   %s\n", path)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "⚠ %v\n", err)
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	userConfigPath := p.UserConfigFile()
	if err := p.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	if !fileExists(userConfigPath) {
		fmt.Printf("Creating new user config at: %s\n", userConfigPath)
		if err := config.Default().Save(userConfigPath); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR or $VISUAL environment variable")
	}

	editorCmd := exec.Command(editor, userConfigPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	if _, err := config.Load(userConfigPath); err != nil {
		return err
	}
	fmt.Printf("✓ Configuration saved to: %s\n", userConfigPath)
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func runConfigMigrate(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	res, err := migration.Migrate(p, removeLegacy)
	if errors.Is(err, migration.ErrNothingToMigrate) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration migrated to: %s\n", res.To)
	if res.Removed {
		fmt.Fprintf(out, "  Removed %s\n", res.From)
	} else {
		fmt.Fprintf(out, "  %s can now be removed.\n", res.From)
	}
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	userConfigPath := p.UserConfigFile()
	if !fileExists(userConfigPath) {
		fmt.Println("No user configuration file found.")
		return nil
	}

	fmt.Printf("This will delete your user configuration at:\n  %s\n\n", userConfigPath)
	fmt.Print("Are you sure? (y/N): ")

	ok, err := confirmed(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Reset cancelled.")
		return nil
	}

	if err := os.Remove(userConfigPath); err != nil {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	fmt.Printf("✓ User configuration removed: %s\n", userConfigPath)
	return nil
}

func confirmed(r *bufio.Reader) (bool, error) {
	response, err := r.ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func existsIndicator(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
