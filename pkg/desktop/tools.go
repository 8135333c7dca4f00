package desktop

import (
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// ToolChain tracks the external desktop integration tools deskctl invokes.
type ToolChain struct {
	exec execx.CommandExecutor

	XdgMimePath        string
	DesktopDatabase    string
	MimeDatabase       string
	IconCachePath      string
	GsettingsPath      string
	GnomeExtensionsBin string
}

// NewToolChain creates a ToolChain backed by the given executor.
func NewToolChain(exec execx.CommandExecutor) *ToolChain {
	return &ToolChain{exec: exec}
}

// Detect locates the integration tools. Only xdg-mime is required; the
// database refreshers are optional and simply skipped when absent. The
// optional fields are filled in even when Detect returns an error.
func (t *ToolChain) Detect() error {
	t.DesktopDatabase, _ = t.exec.LookPath("update-desktop-database")
	t.MimeDatabase, _ = t.exec.LookPath("update-mime-database")
	t.IconCachePath, _ = t.exec.LookPath("gtk-update-icon-cache")
	t.GsettingsPath, _ = t.exec.LookPath("gsettings")
	t.GnomeExtensionsBin, _ = t.exec.LookPath("gnome-extensions")

	path, err := t.exec.LookPath("xdg-mime")
	if err != nil {
		return fmt.Errorf("xdg-mime not found: %w", err)
	}
	t.XdgMimePath = path

	return nil
}

// HasGNOME reports whether GNOME tooling is available.
func (t *ToolChain) HasGNOME() bool {
	return t.GsettingsPath != ""
}

// InstallInstructions returns how to obtain the required tools on Debian
// derivatives.
func (t *ToolChain) InstallInstructions() string {
	var missing []string
	if t.XdgMimePath == "" {
		missing = append(missing, "xdg-utils")
	}
	if t.DesktopDatabase == "" {
		missing = append(missing, "desktop-file-utils")
	}
	if t.MimeDatabase == "" {
		missing = append(missing, "shared-mime-info")
	}
	if t.IconCachePath == "" {
		missing = append(missing, "gtk-update-icon-cache")
	}
	if len(missing) == 0 {
		return "All desktop integration tools are installed."
	}
	return "Install with: sudo apt install " + strings.Join(missing, " ")
}
