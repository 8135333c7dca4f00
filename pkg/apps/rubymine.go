package apps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
)

// jetbrainsProductRubyMine is the JetBrains data-services product code.
const jetbrainsProductRubyMine = "RM"

// binSymlinkDir is where launcher symlinks go. Variable so tests can
// redirect it away from /usr/local/bin.
var binSymlinkDir = "/usr/local/bin"

func installRubyMine(ctx context.Context, in *Installer, app App) (*globalconfig.InstalledApp, error) {
	in.emit(NewProgressEvent(app.ID, StageResolving, "Resolving latest RubyMine release", -1))
	rel, err := in.Client.LatestJetBrainsRelease(ctx, jetbrainsProductRubyMine, in.System.Arch)
	if err != nil {
		return nil, err
	}

	dlPath, err := in.fetch(ctx, app.ID, rel)
	if err != nil {
		return nil, err
	}

	installDir := filepath.Join(in.Config.InstallDir, "rubymine")
	in.emit(NewProgressEvent(app.ID, StagePlacing, fmt.Sprintf("Extracting to %s", installDir), -1))
	if err := in.Runner.MkdirAll(installDir); err != nil {
		return nil, err
	}
	// The tarball wraps everything in a RubyMine-<version>/ directory.
	if _, err := in.Runner.Sudo("tar", "-xzf", dlPath, "-C", installDir, "--strip-components=1"); err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", rel.Filename, err)
	}

	launcher := filepath.Join(installDir, "bin", "rubymine.sh")
	link := filepath.Join(binSymlinkDir, "rubymine")
	if err := in.Runner.Symlink(launcher, link); err != nil {
		return nil, err
	}

	in.emit(NewProgressEvent(app.ID, StageIntegrating, "Registering desktop entry", -1))
	entry := &desktop.Entry{
		Name:           "RubyMine",
		Comment:        "Ruby and Rails IDE",
		Exec:           launcher + " %f",
		TryExec:        launcher,
		Icon:           filepath.Join(installDir, "bin", "rubymine.svg"),
		Categories:     []string{"Development", "IDE"},
		Keywords:       []string{"ruby", "rails", "ide"},
		StartupWMClass: "jetbrains-rubymine",
	}
	entryPath, err := in.Integrator.InstallEntry(app.ID, entry)
	if err != nil {
		return nil, err
	}
	in.Integrator.UpdateDatabases()

	return &globalconfig.InstalledApp{
		Version:   rel.Version,
		Path:      installDir,
		Artifacts: []string{installDir, link, entryPath},
	}, nil
}
