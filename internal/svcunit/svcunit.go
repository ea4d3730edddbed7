// Package svcunit installs foresight as a systemd user service: it
// writes a unit file that runs the wrapped command and restarts it
// whenever it exits, so the input pipeline survives crashes without the
// user needing a supervisor of their own.
package svcunit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moisrex/foresight/internal/ferr"
	"github.com/moisrex/foresight/internal/xdg"
)

const unitTemplate = `[Unit]
Description=foresight input pipeline (%[1]s)
After=graphical-session.target

[Service]
ExecStart=%[2]s
Restart=always
RestartSec=5

[Install]
WantedBy=default.target
`

// Install writes a systemd user unit named name.service under
// $XDG_CONFIG_HOME/systemd/user/ that runs execPath with args. It
// returns the path written, so the caller can tell the user how to
// `systemctl --user enable` it.
func Install(name, execPath string, args []string) (string, error) {
	abs, err := filepath.Abs(execPath)
	if err != nil {
		return "", fmt.Errorf("svcunit.Install: %w: %w", ferr.ServiceInstallFailed, err)
	}

	cmdLine := escapeCommand(abs, args)
	content := fmt.Sprintf(unitTemplate, name, cmdLine)

	dir := filepath.Join(xdg.ConfigHome(), "systemd", "user")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("svcunit.Install: %w: %w", ferr.ServiceInstallFailed, err)
	}

	path := filepath.Join(dir, name+".service")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("svcunit.Install: %w: %w", ferr.ServiceInstallFailed, err)
	}

	return path, nil
}

// escapeCommand joins execPath and args into a single systemd ExecStart
// line, single-quoting any argument that contains whitespace or a shell
// metacharacter so systemd's own line-splitting never sees it as more
// than one token.
func escapeCommand(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteIfNeeded(execPath))
	for _, a := range args {
		parts = append(parts, quoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return "''"
	}

	if !strings.ContainsAny(s, " \t\"'$\\;&|<>()`") {
		return s
	}

	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')

	return b.String()
}

// CheckSupport reports whether a systemd user instance appears reachable
// (the runtime dir systemd --user creates exists). It is a heuristic,
// not a guarantee: Install itself is the authoritative check, since
// writing the file either succeeds or explains why it didn't.
func CheckSupport() bool {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(runtimeDir, "systemd"))
	return err == nil
}
