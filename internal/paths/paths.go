package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application name used in config paths
	AppName = "storeadmin"

	ConfigFileName = "config.yaml"
	StateFileName  = "state.yaml"
	LogFileName    = "storeadmin.log"

	// LegacyConfigFileName is looked up in the working and home directories
	LegacyConfigFileName = ".storeadmin.yaml"

	// ConfigEnvVar points at a config file and wins over the default location
	ConfigEnvVar = "STOREADMIN_CONFIG"
)

// ConfigSource indicates where a config file came from
type ConfigSource int

const (
	SourceDefaults ConfigSource = iota
	SourceUserConfig
	SourceLegacyConfig
	SourceEnvVar
	SourceCLIFlag
)

func (s ConfigSource) String() string {
	switch s {
	case SourceUserConfig:
		return "user config"
	case SourceLegacyConfig:
		return "legacy config"
	case SourceEnvVar:
		return "environment variable"
	case SourceCLIFlag:
		return "CLI flag"
	default:
		return "built-in defaults"
	}
}

// Paths provides access to all application paths following the XDG Base
// Directory specification
type Paths struct {
	// UserConfigDir is the user's config directory (~/.config/storeadmin)
	UserConfigDir string

	// UserStateDir holds UI state and logs (~/.local/state/storeadmin)
	UserStateDir string

	// UserCacheDir holds exported charts (~/.cache/storeadmin)
	UserCacheDir string

	usingFallbacks map[string]bool
}

// New creates a Paths instance with XDG-compliant directories
func New() (*Paths, error) {
	p := &Paths{
		usingFallbacks: make(map[string]bool),
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}
	p.UserConfigDir = filepath.Join(configDir, AppName)

	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	p.UserStateDir = filepath.Join(stateDir, AppName)

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user cache directory: %w", err)
	}
	p.UserCacheDir = filepath.Join(cacheDir, AppName)

	return p, nil
}

// UserConfigFile returns the path to the user's main config file
func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.UserConfigDir, ConfigFileName)
}

func (p *Paths) UserStateFile() string {
	return filepath.Join(p.UserStateDir, StateFileName)
}

func (p *Paths) LogFile() string {
	return filepath.Join(p.UserStateDir, LogFileName)
}

// ChartDir is where exported HTML charts go
func (p *Paths) ChartDir() string {
	return filepath.Join(p.UserCacheDir, "charts")
}

func (p *Paths) ChartFile(name string) string {
	return filepath.Join(p.ChartDir(), name)
}

// UsingFallback reports whether a directory was redirected to the temp dir
func (p *Paths) UsingFallback(name string) bool {
	return p.usingFallbacks[name]
}

type dirSpec struct {
	path     *string
	pathName string
	critical bool
	purpose  string
}

// EnsureDirs creates all necessary directories with permission 0700.
// Non-critical directories fall back to the temp dir when permission is
// denied; only a failing config directory is fatal.
func (p *Paths) EnsureDirs() error {
	specs := []dirSpec{
		{&p.UserConfigDir, "config", true, "configuration"},
		{&p.UserStateDir, "state", false, "state storage"},
		{&p.UserCacheDir, "cache", false, "cache"},
	}

	for _, spec := range specs {
		if err := p.ensureDir(spec); err != nil {
			if spec.critical {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return nil
}

func (p *Paths) ensureDir(spec dirSpec) error {
	originalPath := *spec.path

	if err := os.MkdirAll(originalPath, 0700); err != nil {
		if os.IsPermission(err) {
			if !spec.critical {
				if fallbackErr := p.tryFallbackDir(spec, originalPath); fallbackErr == nil {
					return nil
				}
			}
			return p.formatPermissionError(originalPath, spec.purpose, err)
		}

		return fmt.Errorf("failed to create %s directory %s: %w", spec.purpose, originalPath, err)
	}

	return nil
}

func (p *Paths) tryFallbackDir(spec dirSpec, originalPath string) error {
	fallbackPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", AppName, spec.pathName))

	if err := os.MkdirAll(fallbackPath, 0700); err != nil {
		return fmt.Errorf("fallback directory creation failed: %w", err)
	}

	*spec.path = fallbackPath
	p.usingFallbacks[spec.pathName] = true

	fmt.Fprintf(os.Stderr, "Warning: using fallback %s directory: %s (permission denied for %s)\n",
		spec.purpose, fallbackPath, originalPath)

	return nil
}

func (p *Paths) formatPermissionError(path, purpose string, originalErr error) error {
	parent := filepath.Dir(path)
	return fmt.Errorf(
		"permission denied: cannot create %s directory %s\n\n"+
			"Possible solutions:\n"+
			"  1. Fix permissions: sudo chown -R $USER %s\n"+
			"  2. Set custom location: export XDG_STATE_HOME=/tmp/%s-state\n"+
			"  3. Check parent directory exists and is writable: %s\n\n"+
			"Original error: %v",
		purpose, path, parent, AppName, parent, originalErr)
}

// FindLegacyConfig looks for ./.storeadmin.yaml, then ~/.storeadmin.yaml
func (p *Paths) FindLegacyConfig() (string, bool) {
	var candidates []string

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, LegacyConfigFileName))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, LegacyConfigFileName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// ResolveConfig picks the config file to use. An explicit flag wins, then
// the STOREADMIN_CONFIG variable, the user config and finally a legacy
// file. An empty path means no file exists and defaults apply.
func (p *Paths) ResolveConfig(flagPath string) (string, ConfigSource) {
	if flagPath != "" {
		return flagPath, SourceCLIFlag
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env, SourceEnvVar
	}
	if _, err := os.Stat(p.UserConfigFile()); err == nil {
		return p.UserConfigFile(), SourceUserConfig
	}
	if legacy, ok := p.FindLegacyConfig(); ok {
		return legacy, SourceLegacyConfig
	}
	return "", SourceDefaults
}
