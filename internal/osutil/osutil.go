// Package osutil resolves the per-user application directories behind a
// replaceable provider so tests can exercise their error paths.
package osutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathProvider abstracts the OS calls used to locate and create the
// application directories of config.GetConfigPath and storage.GetDataDir.
type PathProvider interface {
	UserConfigDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultPathProvider uses real OS functions.
type DefaultPathProvider struct{}

// UserConfigDir returns the default root directory for user-specific configuration data.
func (DefaultPathProvider) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (DefaultPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Provider is the package-level path provider instance.
// In production, this is DefaultPathProvider. Tests can replace it.
var Provider PathProvider = DefaultPathProvider{}

// SetProvider sets a custom provider (for testing).
func SetProvider(p PathProvider) {
	Provider = p
}

// ResetProvider resets to the default provider.
func ResetProvider() {
	Provider = DefaultPathProvider{}
}

// AppDir joins app and elem below the user config directory. Nothing is
// created.
func AppDir(app string, elem ...string) (string, error) {
	base, err := Provider.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(append([]string{base, app}, elem...)...), nil
}

// EnsureAppDir is AppDir followed by creating the directory.
func EnsureAppDir(app string, elem ...string) (string, error) {
	dir, err := AppDir(app, elem...)
	if err != nil {
		return "", err
	}
	if err := Provider.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
