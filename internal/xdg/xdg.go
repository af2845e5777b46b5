// Package xdg provides helpers to resolve XDG Base Directory paths for tokensession.
// It implements the XDG Base Directory specification for determining appropriate
// locations for configuration files and state data such as the encrypted file keyring.
//
// The package handles fallback to traditional locations when XDG environment
// variables are not set and ensures private permissions on created directories.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "tokensession"

// ConfigDir returns the XDG config directory for tokensession.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/tokensession when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for tokensession.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/tokensession when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
