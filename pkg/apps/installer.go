package apps

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/download"
	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// Installer installs catalog applications.
type Installer struct {
	Runner     *execx.Runner
	Client     *download.Client
	Config     *globalconfig.Config
	System     *sysinfo.Info
	Integrator *desktop.Integrator

	// Force reinstalls even when an app is already recorded as installed.
	Force bool
	// OnEvent receives progress updates; nil disables reporting.
	OnEvent func(ProgressEvent)
	// ConfigPath overrides where installed-app state is saved (for testing).
	// Empty means the default ~/.config/deskctl/config.yaml.
	ConfigPath string
}

// NewInstaller creates an Installer wired to the real system.
func NewInstaller(runner *execx.Runner, cfg *globalconfig.Config, sys *sysinfo.Info, integ *desktop.Integrator) *Installer {
	return &Installer{
		Runner:     runner,
		Client:     download.NewClient(),
		Config:     cfg,
		System:     sys,
		Integrator: integ,
	}
}

// Install installs a single catalog app by ID. Already-installed apps are a
// no-op unless Force is set.
func (in *Installer) Install(ctx context.Context, id string) error {
	app, ok := Find(id)
	if !ok {
		return fmt.Errorf("unknown application %q (see 'deskctl apps')", id)
	}

	if rec := in.Config.FindApp(id); rec != nil && !in.Force {
		in.emit(NewProgressEvent(id, StageComplete,
			fmt.Sprintf("%s %s already installed", app.Name, rec.Version), 100))
		return nil
	}

	rec, err := app.install(ctx, in, app)
	if err != nil {
		in.emit(NewErrorEvent(id, fmt.Sprintf("%s install failed", app.Name), err))
		return fmt.Errorf("install %s: %w", id, err)
	}

	rec.ID = id
	rec.InstalledAt = time.Now()
	in.Config.RecordApp(*rec)
	if err := in.saveConfig(); err != nil {
		return fmt.Errorf("install %s: %w", id, err)
	}

	in.emit(NewProgressEvent(id, StageComplete,
		fmt.Sprintf("%s %s installed", app.Name, rec.Version), 100))
	return nil
}

// InstallAll installs the given apps, continuing past failures and
// aggregating the errors.
func (in *Installer) InstallAll(ctx context.Context, ids []string) error {
	var result *multierror.Error
	for _, id := range ids {
		if err := in.Install(ctx, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Uninstall removes every artifact recorded for an installed app along with
// its desktop registration.
func (in *Installer) Uninstall(id string) error {
	rec := in.Config.FindApp(id)
	if rec == nil {
		return fmt.Errorf("%s is not installed", id)
	}

	if id == "clipboard-indicator" {
		// Extensions are owned by gnome-extensions, not the filesystem.
		if _, err := in.Runner.Run("gnome-extensions", "disable", clipboardIndicatorUUID); err != nil {
			logx.Log.Debug().Err(err).Msg("extension disable failed")
		}
		if _, err := in.Runner.Run("gnome-extensions", "uninstall", clipboardIndicatorUUID); err != nil {
			return fmt.Errorf("uninstall %s: %w", id, err)
		}
	}

	for _, artifact := range rec.Artifacts {
		if err := in.Runner.RemoveAll(artifact); err != nil {
			return fmt.Errorf("uninstall %s: %w", id, err)
		}
	}

	if err := in.Integrator.RemoveEntry(id); err != nil {
		return fmt.Errorf("uninstall %s: %w", id, err)
	}
	in.Integrator.UpdateDatabases()

	in.Config.ForgetApp(id)
	return in.saveConfig()
}

func (in *Installer) saveConfig() error {
	if in.Runner.DryRun() {
		return nil
	}
	if in.ConfigPath != "" {
		return in.Config.SaveTo(in.ConfigPath)
	}
	return in.Config.Save()
}

func (in *Installer) emit(e ProgressEvent) {
	if in.OnEvent != nil {
		in.OnEvent(e)
	}
}

// fetch downloads a resolved release into the download directory and returns
// the local path. Dry runs report the download without performing it.
func (in *Installer) fetch(ctx context.Context, appID string, rel *download.Release) (string, error) {
	dest := filepath.Join(in.Config.DownloadDir, rel.Filename)
	msg := fmt.Sprintf("Downloading %s", rel.Filename)
	in.emit(NewProgressEvent(appID, StageDownloading, msg, 0))

	if in.Runner.DryRun() {
		return dest, nil
	}

	err := in.Client.Fetch(ctx, download.Options{
		URL:      rel.URL,
		DestPath: dest,
		SHA256:   rel.SHA256,
		OnProgress: func(downloaded, total int64) {
			percent := -1
			if total > 0 {
				percent = int(downloaded * 100 / total)
			}
			in.emit(NewProgressEvent(appID, StageDownloading, msg, percent))
		},
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

