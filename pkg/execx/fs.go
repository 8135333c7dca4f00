package execx

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// dryRunner is implemented by executors that record commands instead of
// executing them.
type dryRunner interface {
	DryRun() bool
}

// DryRun reports that this executor only records commands.
func (e *DryRunExecutor) DryRun() bool { return true }

// DryRun reports whether the runner is backed by a recording executor. The
// file helpers below consult it so that a dry run records the planned
// mutation instead of performing it.
func (r *Runner) DryRun() bool {
	d, ok := r.exec.(dryRunner)
	return ok && d.DryRun()
}

// MkdirAll creates a directory tree, escalating to sudo when the parent is
// not writable (e.g. /opt or /etc).
func (r *Runner) MkdirAll(dir string) error {
	if !r.DryRun() {
		if err := os.MkdirAll(dir, 0755); err == nil {
			return nil
		}
	}
	if _, err := r.Sudo("mkdir", "-p", dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes content to path, falling back to a sudo heredoc when a
// direct write is denied.
func (r *Runner) WriteFile(path string, data []byte, mode os.FileMode) error {
	if !r.DryRun() {
		if err := os.WriteFile(path, data, mode); err == nil {
			return nil
		}
	}
	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	script := fmt.Sprintf("cat > %s << 'DESKCTL_EOF'\n%sDESKCTL_EOF\n", path, content)
	if _, err := r.SudoShell(script); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Rename moves src to dest, escalating to sudo when a plain rename fails
// (permission or cross-device).
func (r *Runner) Rename(src, dest string) error {
	if !r.DryRun() {
		if err := os.Rename(src, dest); err == nil {
			return nil
		}
	}
	if _, err := r.Sudo("mv", "-f", src, dest); err != nil {
		return fmt.Errorf("failed to place %s: %w", dest, err)
	}
	return nil
}

// ChmodExec marks a file executable.
func (r *Runner) ChmodExec(path string) error {
	if !r.DryRun() {
		if err := os.Chmod(path, 0755); err == nil {
			return nil
		}
	}
	if _, err := r.Sudo("chmod", "+x", path); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	return nil
}

// Symlink creates or replaces a symlink, escalating to sudo when needed.
func (r *Runner) Symlink(target, link string) error {
	if !r.DryRun() {
		if err := os.Remove(link); err == nil || os.IsNotExist(err) {
			if err := os.Symlink(target, link); err == nil {
				return nil
			}
		}
	}
	if _, err := r.Sudo("ln", "-sf", target, link); err != nil {
		return fmt.Errorf("failed to link %s: %w", link, err)
	}
	return nil
}

// RemoveAll deletes a file or directory tree, escalating to sudo when
// needed. Absent paths are not an error.
func (r *Runner) RemoveAll(path string) error {
	if !r.DryRun() {
		if err := os.RemoveAll(path); err == nil {
			return nil
		}
	}
	if _, err := r.Sudo("rm", "-rf", path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dest preserving the source mode, escalating to
// sudo cp when the destination is not writable.
func (r *Runner) CopyFile(src, dest string) error {
	if !r.DryRun() {
		if err := copyFile(src, dest); err == nil {
			return nil
		}
	}
	if _, err := r.Sudo("cp", "-p", src, dest); err != nil {
		return fmt.Errorf("failed to copy %s: %w", dest, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}
