package desktop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// Scope selects between per-user and system-wide integration paths.
type Scope int

const (
	// ScopeUser installs under ~/.local/share.
	ScopeUser Scope = iota
	// ScopeSystem installs under /usr/share.
	ScopeSystem
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeSystem {
		return "system"
	}
	return "user"
}

// Integrator registers applications with the desktop environment.
type Integrator struct {
	runner  *execx.Runner
	tools   *ToolChain
	scope   Scope
	dataDir string
}

// NewIntegrator creates an Integrator for the given scope.
func NewIntegrator(runner *execx.Runner, scope Scope) (*Integrator, error) {
	dataDir := "/usr/share"
	if scope == ScopeUser {
		dir, err := sysinfo.DataHome()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		dataDir = dir
	}
	return &Integrator{
		runner:  runner,
		tools:   NewToolChain(runner.Executor()),
		scope:   scope,
		dataDir: dataDir,
	}, nil
}

// NewIntegratorWithDataDir creates an Integrator rooted at a custom data
// directory (for testing).
func NewIntegratorWithDataDir(runner *execx.Runner, dataDir string) *Integrator {
	return &Integrator{
		runner:  runner,
		tools:   NewToolChain(runner.Executor()),
		scope:   ScopeUser,
		dataDir: dataDir,
	}
}

// ApplicationsDir returns the .desktop entry directory for the scope.
func (i *Integrator) ApplicationsDir() string {
	return filepath.Join(i.dataDir, "applications")
}

// MimePackagesDir returns the mime definition directory for the scope.
func (i *Integrator) MimePackagesDir() string {
	return filepath.Join(i.dataDir, "mime", "packages")
}

// IconDir returns the hicolor icon directory for a given square size, or
// the scalable directory when size is 0.
func (i *Integrator) IconDir(size int) string {
	if size == 0 {
		return filepath.Join(i.dataDir, "icons", "hicolor", "scalable", "apps")
	}
	return filepath.Join(i.dataDir, "icons", "hicolor", fmt.Sprintf("%dx%d", size, size), "apps")
}

// InstallEntry writes a desktop entry as <id>.desktop and returns its path.
func (i *Integrator) InstallEntry(id string, entry *Entry) (string, error) {
	path := filepath.Join(i.ApplicationsDir(), id+".desktop")
	if i.runner.DryRun() {
		return path, nil
	}
	if err := entry.Write(path); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveEntry deletes the desktop entry for id, ignoring absence.
func (i *Integrator) RemoveEntry(id string) error {
	if i.runner.DryRun() {
		return nil
	}
	path := filepath.Join(i.ApplicationsDir(), id+".desktop")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove desktop entry: %w", err)
	}
	return nil
}

// InstallMimeType writes a mime definition and returns its path. The mime
// database is refreshed separately via UpdateDatabases.
func (i *Integrator) InstallMimeType(m *MimeType) (string, error) {
	if i.runner.DryRun() {
		return filepath.Join(i.MimePackagesDir(), m.Filename()), nil
	}
	return m.WriteTo(i.MimePackagesDir())
}

// SetDefaultApp associates a mime type with a desktop entry id.
func (i *Integrator) SetDefaultApp(mimeType, desktopID string) error {
	if err := i.tools.Detect(); err != nil {
		return fmt.Errorf("cannot set default app for %s: %v (%s)", mimeType, err, i.tools.InstallInstructions())
	}
	if _, err := i.runner.Run("xdg-mime", "default", desktopID+".desktop", mimeType); err != nil {
		return fmt.Errorf("failed to set default app for %s: %w", mimeType, err)
	}
	return nil
}

// InstallIcon copies an icon file into the hicolor theme. Size 0 installs
// into the scalable directory (SVG icons).
func (i *Integrator) InstallIcon(srcPath, name string, size int) (string, error) {
	dir := i.IconDir(size)
	if i.runner.DryRun() {
		return filepath.Join(dir, name+filepath.Ext(srcPath)), nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create icon directory: %w", err)
	}

	destPath := filepath.Join(dir, name+filepath.Ext(srcPath))
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open icon: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create icon: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to copy icon: %w", err)
	}
	return destPath, nil
}

// UpdateDatabases refreshes the desktop entry, mime, and icon caches with
// whatever refresher tools Detect finds. Failures here degrade the menu
// experience but never fail an install, so they are logged and swallowed.
func (i *Integrator) UpdateDatabases() {
	if err := i.tools.Detect(); err != nil {
		logx.Log.Debug().Err(err).Msg("desktop toolchain incomplete")
	}

	steps := []struct {
		bin  string
		args []string
	}{
		{i.tools.DesktopDatabase, []string{i.ApplicationsDir()}},
		{i.tools.MimeDatabase, []string{filepath.Join(i.dataDir, "mime")}},
		{i.tools.IconCachePath, []string{"-f", "-t", filepath.Join(i.dataDir, "icons", "hicolor")}},
	}

	for _, step := range steps {
		if step.bin == "" {
			continue
		}
		if out, err := i.runner.Executor().Run(step.bin, step.args...); err != nil {
			logx.Log.Warn().Err(err).Str("tool", step.bin).Str("output", out).Msg("database refresh failed")
		}
	}
}
