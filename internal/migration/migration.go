// Package migration moves a legacy dotfile config (./.storeadmin.yaml or
// ~/.storeadmin.yaml) into the user config directory.
package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/paths"
)

// ErrNothingToMigrate is returned when no legacy config exists
var ErrNothingToMigrate = errors.New("no legacy configuration found")

// ErrUserConfigExists is returned when the user config is already in place
var ErrUserConfigExists = errors.New("user configuration already exists")

// Result describes a completed migration
type Result struct {
	From    string
	To      string
	Removed bool
}

// NeedsMigration reports whether a legacy config exists while the user
// config does not, and where the legacy file is
func NeedsMigration(p *paths.Paths) (bool, string) {
	if _, err := os.Stat(p.UserConfigFile()); err == nil {
		return false, ""
	}
	if legacyPath, found := p.FindLegacyConfig(); found {
		return true, legacyPath
	}
	return false, ""
}

// Migrate rewrites the legacy config at the user config location. The
// file is parsed and validated first, so a broken legacy file is never
// copied. removeLegacy deletes the old file afterwards.
func Migrate(p *paths.Paths, removeLegacy bool) (Result, error) {
	if _, err := os.Stat(p.UserConfigFile()); err == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUserConfigExists, p.UserConfigFile())
	}
	legacyPath, found := p.FindLegacyConfig()
	if !found {
		return Result{}, ErrNothingToMigrate
	}
	return MigrateFile(legacyPath, p.UserConfigFile(), removeLegacy)
}

// MigrateFile converts the config at from into a fresh file at to
func MigrateFile(from, to string, removeLegacy bool) (Result, error) {
	cfg, err := config.Load(from)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load legacy config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("legacy config %s is invalid: %w", from, err)
	}

	if err := os.MkdirAll(filepath.Dir(to), 0700); err != nil {
		return Result{}, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cfg.Save(to); err != nil {
		return Result{}, err
	}

	res := Result{From: from, To: to}
	if removeLegacy {
		if err := os.Remove(from); err != nil {
			return res, fmt.Errorf("migrated, but failed to remove %s: %w", from, err)
		}
		res.Removed = true
	}
	return res, nil
}

// Prompt is shown when the console starts on a legacy config
func Prompt(legacyPath string, p *paths.Paths) string {
	return fmt.Sprintf(`Found a legacy configuration at %s.

storeadmin now keeps its configuration in %s.
Run 'storeadmin config migrate' to move it there.`, legacyPath, p.UserConfigFile())
}
