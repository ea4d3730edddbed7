// Package xdg implements the XDG Base Directory Specification, used by
// svcunit to locate the systemd user-unit directory.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

func home() string {
	h := os.Getenv("HOME")
	if h == "" {
		return "/"
	}
	return h
}

func xdg(env string, subPaths ...string) string {
	v := os.Getenv(env)
	if v == "" || !filepath.IsAbs(v) {
		v = filepath.Join(subPaths...)
	}
	return v
}

func xdgFile(xdgPath, relPath string) (*os.File, error) {
	const userOnly os.FileMode = 0o700

	path := filepath.Join(xdgPath, relPath)

	if err := os.MkdirAll(filepath.Dir(path), userOnly); err != nil {
		return nil, fmt.Errorf("xdg.xdgFile: %w", err)
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE, userOnly)
	if err != nil {
		return nil, fmt.Errorf("xdg.xdgFile: %w", err)
	}

	return file, nil
}

// ConfigFile opens, creating if needed, a file under $XDG_CONFIG_HOME
// (default $HOME/.config) at relPath.
func ConfigFile(relPath string) (*os.File, error) {
	return xdgFile(xdg("XDG_CONFIG_HOME", home(), ".config"), relPath)
}

// ConfigHome returns the base config directory itself, without opening
// any file inside it: svcunit needs the directory path to write a unit
// file with a name it generates from the wrapped command, not a
// caller-supplied relative path.
func ConfigHome() string {
	return xdg("XDG_CONFIG_HOME", home(), ".config")
}

// StateFile opens, creating if needed, a file under $XDG_STATE_HOME
// (default $HOME/.local/state) at relPath.
func StateFile(relPath string) (*os.File, error) {
	return xdgFile(xdg("XDG_STATE_HOME", home(), ".local/state"), relPath)
}

// ConfigDirs returns the colon-separated preference-ordered list of
// system config directories to search in addition to ConfigHome.
func ConfigDirs() string {
	return xdg("XDG_CONFIG_DIRS", "/etc/xdg")
}

// RuntimeFile opens, creating if needed, a file under $XDG_RUNTIME_DIR
// (falling back to /tmp when unset) at relPath.
func RuntimeFile(relPath string) (*os.File, error) {
	return xdgFile(xdg("XDG_RUNTIME_DIR", "/tmp"), relPath)
}
