package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
)

const bambuRepo = "bambulab/BambuStudio"

// threeMFMime is shared by the slicers; Bambu Studio claims the default
// association because its installer runs the 3MF registration first.
var threeMFMime = &desktop.MimeType{
	Type:    "model/3mf",
	Comment: "3D Manufacturing Format model",
	Globs:   []string{"*.3mf"},
}

func installBambuStudio(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error) {
	in.emit(NewProgressEvent(app.ID, StageResolving, "Resolving latest Bambu Studio release", -1))
	rel, err := in.Client.LatestGitHubAsset(ctx, bambuRepo, func(name string) bool {
		return strings.HasSuffix(name, ".AppImage") && strings.Contains(strings.ToLower(name), "ubuntu")
	})
	if err != nil {
		return nil, err
	}

	dlPath, err := in.fetch(ctx, app.ID, rel)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(in.Config.InstallDir, "bambu-studio.appimage")
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

	in.emit(NewProgressEvent(app.ID, StageIntegrating, "Registering desktop entry and 3MF type", -1))
	mimePath, err := in.Integrator.InstallMimeType(threeMFMime)
	if err != nil {
		return nil, err
	}

	entry := &desktop.Entry{
		Name:           "Bambu Studio",
		Comment:        "3D printing slicer for Bambu Lab printers",
		Exec:           dest + " %U",
		Icon:           "bambu-studio",
		Categories:     []string{"Graphics", "3DGraphics", "Engineering"},
		MimeTypes:      []string{"model/3mf"},
		Keywords:       []string{"3d", "printing", "slicer"},
		StartupWMClass: "BambuStudio",
	}
	entryPath, err := in.Integrator.InstallEntry(app.ID, entry)
	if err != nil {
		return nil, err
	}
	in.Integrator.UpdateDatabases()

	if err := in.Integrator.SetDefaultApp("model/3mf", app.ID); err != nil {
		return nil, err
	}

	return &globalconfig.InstalledApp{
		Version:   rel.Version,
		Path:      dest,
		Artifacts: []string{dest, mimePath, entryPath},
	}, nil
}
