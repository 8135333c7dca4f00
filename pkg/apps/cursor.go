package apps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
)

// apparmorDir is where AppImage confinement profiles land. Variable so tests
// can redirect it away from /etc.
var apparmorDir = "/etc/apparmor.d"

// cursorApparmorProfile grants the Cursor AppImage an unconfined user
// namespace. Ubuntu 24.04 restricts unprivileged userns creation, which
// breaks Electron sandboxing inside AppImages.
const cursorApparmorProfile = `abi <abi/4.0>,
include <tunables/global>

profile cursor %s flags=(unconfined) {
  userns,

  include if exists <local/cursor>
}
`

func installCursor(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error) {
	in.emit(NewProgressEvent(app.ID, StageResolving, "Resolving latest Cursor release", -1))
	rel, err := in.Client.LatestCursorDownload(ctx, in.System.Arch)
	if err != nil {
		return nil, err
	}

	dlPath, err := in.fetch(ctx, app.ID, rel)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(in.Config.InstallDir, "cursor.appimage")
	in.emit(NewProgressEvent(app.ID, StagePlacing, fmt.Sprintf("Installing to %s", dest), -1))
	if err := in.Runner.MkdirAll(in.Config.InstallDir); err != nil {
		return nil, err
	}
	if err := in.Runner.Rename(dlPath, dest); err != nil {
		return nil, err
	}
	if err := in.Runner.ChmodExec(dest); err != nil {
		return nil, err
	}

	artifacts := []string{dest}

	if in.System.ID == "ubuntu" && in.System.VersionAtLeast("24.04") {
		in.emit(NewProgressEvent(app.ID, StageConfiguring, "Writing AppArmor profile", -1))
		profilePath := filepath.Join(apparmorDir, "cursor")
		if err := in.Runner.WriteFile(profilePath, []byte(fmt.Sprintf(cursorApparmorProfile, dest)), 0644); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, profilePath)
		if _, err := in.Runner.Sudo("apparmor_parser", "-r", profilePath); err != nil {
			// A stale profile only matters after the next reboot.
			logx.Log.Warn().Err(err).Msg("apparmor profile reload failed")
		}
	}

	in.emit(NewProgressEvent(app.ID, StageIntegrating, "Registering desktop entry", -1))
	entry := &desktop.Entry{
		Name:           "Cursor",
		Comment:        "AI-first code editor",
		Exec:           dest + " --no-sandbox %F",
		Icon:           "cursor",
		Categories:     []string{"Development", "IDE", "TextEditor"},
		Keywords:       []string{"editor", "code", "ai"},
		StartupWMClass: "Cursor",
	}
	entryPath, err := in.Integrator.InstallEntry(app.ID, entry)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, entryPath)
	in.Integrator.UpdateDatabases()

	return &globalconfig.InstalledApp{
		Version:   rel.Version,
		Path:      dest,
		Artifacts: artifacts,
	}, nil
}
