package execx

import (
	"fmt"
	"os"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
)

// Runner wraps a CommandExecutor with sudo elevation and package manager
// helpers. Installers use a Runner rather than the executor directly.
type Runner struct {
	exec CommandExecutor
	// euid 0 means we are already root and sudo prefixing is skipped.
	euid int
}

// NewRunner creates a Runner backed by the given executor.
func NewRunner(exec CommandExecutor) *Runner {
	return &Runner{
		exec: exec,
		euid: os.Geteuid(),
	}
}

// Executor returns the underlying executor.
func (r *Runner) Executor() CommandExecutor {
	return r.exec
}

// Run executes a command as the current user.
func (r *Runner) Run(name string, args ...string) (string, error) {
	out, err := r.exec.Run(name, args...)
	if err != nil {
		return out, &CommandError{Command: name + " " + strings.Join(args, " "), Output: out, Err: err}
	}
	return out, nil
}

// Sudo executes a command with root privileges, prefixing with sudo unless
// already running as root.
func (r *Runner) Sudo(name string, args ...string) (string, error) {
	if r.euid == 0 {
		return r.Run(name, args...)
	}
	return r.Run("sudo", append([]string{name}, args...)...)
}

// Shell runs a shell pipeline as the current user.
func (r *Runner) Shell(script string) (string, error) {
	return r.Run("sh", "-c", script)
}

// SudoShell runs a shell pipeline with root privileges. Used for the few
// steps that genuinely need a pipe (keyring downloads, tee into /etc).
func (r *Runner) SudoShell(script string) (string, error) {
	if r.euid == 0 {
		return r.Run("sh", "-c", script)
	}
	return r.Run("sudo", "sh", "-c", script)
}

// Have reports whether an executable is on PATH.
func (r *Runner) Have(name string) bool {
	_, err := r.exec.LookPath(name)
	return err == nil
}

// lockErr reports whether apt/dpkg failed because another process holds the
// package database lock.
func lockErr(out string, err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(out, "Could not get lock") ||
		strings.Contains(out, "dpkg frontend is locked") ||
		strings.Contains(out, "Unable to acquire the dpkg frontend lock")
}

// aptRetry runs an apt operation, retrying while the package database is
// locked by unattended-upgrades or another apt process.
func (r *Runner) aptRetry(args ...string) error {
	return retry.Do(
		func() error {
			out, err := r.Sudo("apt-get", args...)
			if err != nil {
				if lockErr(out, err) {
					return err
				}
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Attempts(5),
		retry.Delay(3*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

// AptUpdate refreshes the apt package index.
func (r *Runner) AptUpdate() error {
	if err := r.aptRetry("update", "-qq"); err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	return nil
}

// AptInstall installs packages via apt-get, retrying on lock contention.
func (r *Runner) AptInstall(pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"install", "-y", "-qq"}, pkgs...)
	if err := r.aptRetry(args...); err != nil {
		return fmt.Errorf("apt-get install %s: %w", strings.Join(pkgs, " "), err)
	}
	return nil
}

// AptInstallDeb installs a local .deb file with dependency resolution.
func (r *Runner) AptInstallDeb(path string) error {
	if err := r.aptRetry("install", "-y", "-qq", path); err != nil {
		return fmt.Errorf("apt-get install %s: %w", path, err)
	}
	return nil
}

// DpkgInstalled reports whether a dpkg package is installed.
func (r *Runner) DpkgInstalled(pkg string) bool {
	out, err := r.exec.Run("dpkg-query", "-W", "-f=${Status}", pkg)
	return err == nil && strings.Contains(out, "install ok installed")
}

// SnapInstall installs a snap package.
func (r *Runner) SnapInstall(name string, classic bool) error {
	args := []string{"install", name}
	if classic {
		args = append(args, "--classic")
	}
	if _, err := r.Sudo("snap", args...); err != nil {
		return fmt.Errorf("snap install %s: %w", name, err)
	}
	return nil
}

// SnapInstalled reports whether a snap is installed.
func (r *Runner) SnapInstalled(name string) bool {
	out, err := r.exec.Run("snap", "list", name)
	return err == nil && strings.Contains(out, name)
}

// EnableService enables and starts a systemd unit.
func (r *Runner) EnableService(unit string) error {
	if _, err := r.Sudo("systemctl", "enable", "--now", unit); err != nil {
		return fmt.Errorf("enable %s: %w", unit, err)
	}
	return nil
}

// ServiceActive reports whether a systemd unit is active.
func (r *Runner) ServiceActive(unit string) bool {
	out, err := r.exec.Run("systemctl", "is-active", unit)
	return err == nil && strings.TrimSpace(out) == "active"
}
