package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Pages lists the page ids a console can start on, in sidebar order
var Pages = []string{"orders", "products", "users", "payments", "sensors"}

const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultTimeout  = 15 * time.Second
	DefaultPageSize = 20
	MaxPageSize     = 200
	EnvPrefix       = "STOREADMIN"
)

type Config struct {
	API API `yaml:"api"`
	UI  UI  `yaml:"ui"`
	Log Log `yaml:"log"`
}

type API struct {
	BaseURL  string        `yaml:"baseURL"`
	Timeout  time.Duration `yaml:"timeout"`
	Username string        `yaml:"username,omitempty"`
}

type UI struct {
	PageSize int `yaml:"pageSize"`
	// RefreshInterval is in seconds; 0 disables auto refresh
	RefreshInterval  int    `yaml:"refreshInterval"`
	StartPage        string `yaml:"startPage"`
	SidebarCollapsed bool   `yaml:"sidebarCollapsed"`
}

type Log struct {
	Level string `yaml:"level"`
	// File defaults to storeadmin.log in the state directory
	File string `yaml:"file,omitempty"`
}

func Default() *Config {
	return &Config{
		API: API{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		UI: UI{
			PageSize:  DefaultPageSize,
			StartPage: Pages[0],
		},
		Log: Log{
			Level: "info",
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("api.baseURL", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.username", "")
	v.SetDefault("ui.pageSize", d.UI.PageSize)
	v.SetDefault("ui.refreshInterval", d.UI.RefreshInterval)
	v.SetDefault("ui.startPage", d.UI.StartPage)
	v.SetDefault("ui.sidebarCollapsed", d.UI.SidebarCollapsed)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// Load reads path on top of the defaults. An empty path loads defaults and
// environment overrides only.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithViper(path)
	return cfg, err
}

func LoadWithViper(path string) (*Config, *viper.Viper, error) {
	v := newViper(path)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	return cfg, nil
}

// WatchConfig calls onConfigChange with every successfully parsed reload.
// Invalid reloads are reported through onError and otherwise ignored.
func WatchConfig(v *viper.Viper, onConfigChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("failed to reload %s: %w", e.Name, err))
			}
			return
		}
		onConfigChange(cfg)
	})
	v.WatchConfig()
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# storeadmin configuration
#
# api:
#   baseURL: backend root, e.g. http://localhost:8080
#   timeout: per-request timeout (Go duration, e.g. 15s)
#   username: default login name
# ui:
#   pageSize: rows per table page (1-200)
#   refreshInterval: auto refresh in seconds, 0 disables it
#   startPage: orders, products, users, payments or sensors
#   sidebarCollapsed: start with the sidebar folded
# log:
#   level: debug, info, warn or error
#   file: log file path (defaults to the state directory)
#
# Every key can be overridden with STOREADMIN_<SECTION>_<KEY>.
# Run 'storeadmin --help' for more information

`
	if err := os.WriteFile(path, []byte(header+string(data)), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.baseURL must not be empty"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.baseURL %q must be an http or https URL", c.API.BaseURL))
	}

	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}

	if c.UI.PageSize < 1 || c.UI.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("ui.pageSize must be between 1 and %d, got %d", MaxPageSize, c.UI.PageSize))
	}

	if c.UI.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("ui.refreshInterval must not be negative"))
	}

	if !slices.Contains(Pages, c.UI.StartPage) {
		errs = append(errs, fmt.Errorf("ui.startPage %q is not one of %s", c.UI.StartPage, strings.Join(Pages, ", ")))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	return errors.Join(errs...)
}

// Refresh returns the auto refresh interval, zero when disabled
func (c *Config) Refresh() time.Duration {
	return time.Duration(c.UI.RefreshInterval) * time.Second
}
