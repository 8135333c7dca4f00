package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

const (
	clipboardIndicatorRepo = "Tudmotu/gnome-shell-extension-clipboard-indicator"
	clipboardIndicatorUUID = "clipboard-indicator@tudmotu.com"
)

func installClipboardIndicator(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error) {
	if !in.Runner.Have("gnome-extensions") {
		return nil, fmt.Errorf("gnome-extensions CLI not found (is this a GNOME session?)")
	}

	in.emit(NewProgressEvent(app.ID, StageResolving, "Resolving latest extension release", -1))
	rel, err := in.Client.LatestGitHubAsset(ctx, clipboardIndicatorRepo, func(name string) bool {
		return strings.HasSuffix(name, ".zip")
	})
	if err != nil {
		return nil, err
	}

	dlPath, err := in.fetch(ctx, app.ID, rel)
	if err != nil {
		return nil, err
	}

	in.emit(NewProgressEvent(app.ID, StageConfiguring, "Installing GNOME Shell extension", -1))
	if _, err := in.Runner.Run("gnome-extensions", "install", "--force", dlPath); err != nil {
		return nil, fmt.Errorf("extension install failed: %w", err)
	}
	if _, err := in.Runner.Run("gnome-extensions", "enable", clipboardIndicatorUUID); err != nil {
		return nil, fmt.Errorf("extension enable failed: %w", err)
	}

	extDir := ""
	if dataHome, err := sysinfo.DataHome(); err == nil {
		extDir = filepath.Join(dataHome, "gnome-shell", "extensions", clipboardIndicatorUUID)
	}

	return &globalconfig.InstalledApp{
		Version: rel.Version,
		Path:    extDir,
		// gnome-extensions uninstall owns artifact removal; nothing to
		// delete from the filesystem directly.
		Artifacts: []string{},
	}, nil
}
