package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
)

const curaRepo = "Ultimaker/Cura"

var stlMime = &desktop.MimeType{
	Type:    "application/x-stl",
	Comment: "Stereolithography model",
	Globs:   []string{"*.stl", "*.STL"},
}

func installCura(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error) {
	in.emit(NewProgressEvent(app.ID, StageResolving, "Resolving latest Cura release", -1))

	// Cura names assets like UltiMaker-Cura-5.7.0-linux-X64.AppImage.
	archToken := "X64"
	if in.System.Arch == "arm64" {
		archToken = "ARM64"
	}
	rel, err := in.Client.LatestGitHubAsset(ctx, curaRepo, func(name string) bool {
		return strings.HasSuffix(name, ".AppImage") &&
			strings.Contains(name, "linux") &&
			strings.Contains(name, archToken)
	})
	if err != nil {
		return nil, err
	}

	dlPath, err := in.fetch(ctx, app.ID, rel)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(in.Config.InstallDir, "cura.appimage")
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

	in.emit(NewProgressEvent(app.ID, StageIntegrating, "Registering desktop entry and STL type", -1))
	mimePath, err := in.Integrator.InstallMimeType(stlMime)
	if err != nil {
		return nil, err
	}

	entry := &desktop.Entry{
		Name:           "UltiMaker Cura",
		Comment:        "3D printing slicer",
		Exec:           dest + " %U",
		Icon:           "cura",
		Categories:     []string{"Graphics", "3DGraphics", "Engineering"},
		MimeTypes:      []string{"application/x-stl", "model/3mf"},
		Keywords:       []string{"3d", "printing", "slicer"},
		StartupWMClass: "cura",
	}
	entryPath, err := in.Integrator.InstallEntry(app.ID, entry)
	if err != nil {
		return nil, err
	}
	in.Integrator.UpdateDatabases()

	// Cura takes STL files; Bambu Studio keeps 3MF if both are installed.
	if err := in.Integrator.SetDefaultApp("application/x-stl", app.ID); err != nil {
		return nil, err
	}

	return &globalconfig.InstalledApp{
		Version:   rel.Version,
		Path:      dest,
		Artifacts: []string{dest, mimePath, entryPath},
	}, nil
}
