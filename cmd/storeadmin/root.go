package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/credentials"
	"github.com/Cloudsky01/storeadmin/internal/logging"
	"github.com/Cloudsky01/storeadmin/internal/migration"
	"github.com/Cloudsky01/storeadmin/internal/paths"
	"github.com/Cloudsky01/storeadmin/internal/tui"
	"github.com/Cloudsky01/storeadmin/internal/wizard"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	apiURL     string
	startPage  string
	statePath  string
	noState    bool
	debug      bool
	refresh    int
	force      bool

	rootCmd = &cobra.Command{
		Use:   "storeadmin",
		Short: "Terminal admin console for the shoe store backend",
		Long: `storeadmin is a TUI for running the shoe store: orders, products,
users, payments and the farm sensor history, served by the store REST API.

Get started:
  storeadmin init         # Create a configuration file
  storeadmin login        # Sign in and keep the token in the OS keyring
  storeadmin              # Launch the console
  storeadmin sandbox      # Serve a demo backend on :8080
  storeadmin chart        # Export the sensor history as HTML`,
		RunE:          runView,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Create a configuration file with an interactive wizard. The file is
written to the user config directory unless --config is given. If the file
already exists, use --force to overwrite it.`,
		RunE: runInit,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: ~/.config/storeadmin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL, overrides api.baseURL")

	rootCmd.Flags().StringVarP(&startPage, "page", "p", "", "Start page: "+strings.Join(config.Pages, ", "))
	rootCmd.Flags().StringVar(&statePath, "state", "", "Path to state file (default: ~/.local/state/storeadmin/state.yaml)")
	rootCmd.Flags().BoolVar(&noState, "no-state", false, "Disable state persistence (don't save or restore the console state)")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Log at debug level")
	rootCmd.Flags().IntVar(&refresh, "refresh", 0, "Auto refresh interval in seconds, 0 disables it")

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration file")

	rootCmd.AddCommand(initCmd)
	rootCmd.SetVersionTemplate(`{{printf "storeadmin %s\n" .Version}}`)
}

// overrides returns a function applying the command line flags on top of
// a loaded config. It is reapplied on every hot reload.
func overrides(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if apiURL != "" {
			cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
		}
		if flags.Lookup("refresh") != nil && flags.Changed("refresh") {
			cfg.UI.RefreshInterval = refresh
		}
		if debug {
			cfg.Log.Level = "debug"
		}
	}
}

// loadConfig resolves and reads the config file. The returned viper
// instance is nil when only defaults apply.
func loadConfig(p *paths.Paths) (*config.Config, *viper.Viper, string, paths.ConfigSource, error) {
	path, source := p.ResolveConfig(configPath)
	if path == "" {
		cfg, err := config.Load("")
		return cfg, nil, "", source, err
	}
	if _, err := os.Stat(path); err != nil {
		if source == paths.SourceCLIFlag || source == paths.SourceEnvVar {
			return nil, nil, path, source, fmt.Errorf("configuration file %s not found", path)
		}
	}
	cfg, v, err := config.LoadWithViper(path)
	if err != nil {
		return nil, nil, path, source, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, v, path, source, nil
}

// runtimeConfig loads the config for a subcommand, with flags applied
// and validated
func runtimeConfig(cmd *cobra.Command) (*config.Config, *paths.Paths, error) {
	p, err := paths.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize paths: %w", err)
	}
	cfg, _, _, _, err := loadConfig(p)
	if err != nil {
		return nil, nil, err
	}
	overrides(cmd)(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, p, nil
}

// newClient builds an API client carrying the stored token for the
// configured backend
func newClient(cfg *config.Config, log *zap.Logger) (*api.Client, error) {
	token, err := credentials.LookupToken(cfg.API.BaseURL)
	if err != nil {
		log.Warn("keyring unavailable", zap.Error(err))
	}
	return api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithToken(token),
		api.WithLogger(log))
}

func logFile(cfg *config.Config, p *paths.Paths) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return p.LogFile()
}

func resolveStatePath(p *paths.Paths) string {
	if noState {
		return ""
	}
	if statePath != "" {
		return statePath
	}
	return p.UserStateFile()
}

func validateStartPage(page string) error {
	if page == "" || slices.Contains(config.Pages, page) {
		return nil
	}
	return fmt.Errorf("unknown page %q, expected one of %s", page, strings.Join(config.Pages, ", "))
}

func runView(cmd *cobra.Command, args []string) error {
	if err := validateStartPage(startPage); err != nil {
		return err
	}

	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}
	if err := p.EnsureDirs(); err != nil {
		return err
	}

	cfg, v, path, source, err := loadConfig(p)
	if err != nil {
		return err
	}
	if source == paths.SourceLegacyConfig {
		fmt.Fprintln(os.Stderr, wizard.InfoStyle().Render(migration.Prompt(path, p)))
	}
	if source == paths.SourceDefaults {
		created, err := handleMissingConfig(cmd, p)
		if err != nil {
			return err
		}
		if created {
			if cfg, v, path, _, err = loadConfig(p); err != nil {
				return err
			}
		}
	}

	apply := overrides(cmd)
	apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logs, err := logging.NewManager(logging.Config{
		FilePath: logFile(cfg, p),
		Level:    cfg.Log.Level,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logs.Close()

	log := logs.For("main")
	log.Info("starting",
		zap.String("version", version),
		zap.String("config", path),
		zap.String("api", cfg.API.BaseURL))

	client, err := newClient(cfg, logs.For("api"))
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	app := tui.NewApp(tui.Options{
		Config:         cfg,
		Client:         client,
		Logger:         logs.For("tui"),
		StatePath:      resolveStatePath(p),
		NoRestoreState: noState,
		ChartDir:       p.ChartDir(),
		StartPage:      startPage,
	})
	program := tui.NewProgram(app)

	if v != nil {
		config.WatchConfig(v, func(reloaded *config.Config) {
			apply(reloaded)
			program.Send(tui.ConfigReloadedMsg{Config: reloaded})
		}, func(err error) {
			log.Warn("config reload rejected", zap.Error(err))
		})
	}

	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	target := configPath
	if target == "" {
		target = p.UserConfigFile()
	}
	if _, err := os.Stat(target); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists. Use --force to overwrite", target)
	}
	if !wizard.IsTTY() {
		return fmt.Errorf("storeadmin init needs an interactive terminal")
	}

	base := config.Default()
	if apiURL != "" {
		base.API.BaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	}

	cfg, err := wizard.New(base).Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	err = wizard.RunWithSpinner(cmd.Context(), "Checking "+cfg.API.BaseURL, func(ctx context.Context) error {
		return probe(ctx, cfg)
	})
	if err != nil {
		fmt.Println(wizard.WarnStyle().Render("⚠ Backend not reachable, saving anyway"))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cfg.Save(target); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	printSuccessSummary(target, cfg)
	return nil
}

// probe checks that the backend answers. An auth error still proves it
// is up.
func probe(ctx context.Context, cfg *config.Config) error {
	client, err := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return err
	}
	if _, err := client.ListCategories(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	return nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
