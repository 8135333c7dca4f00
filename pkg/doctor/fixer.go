package doctor

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// fixCommands maps check IDs to the commands that install them.
var fixCommands = map[string]FixCommand{
	IDSnap: {
		Description: "Install snapd via apt",
		Command:     "apt-get install -y snapd",
		Sudo:        true,
	},
	IDSudo: {
		Description: "Install sudo via apt (run as root)",
		Command:     "apt-get install -y sudo",
		Sudo:        false,
	},
	IDXdgMime: {
		Description: "Install xdg-utils via apt",
		Command:     "apt-get install -y xdg-utils",
		Sudo:        true,
	},
	IDDesktopDatabase: {
		Description: "Install desktop-file-utils via apt",
		Command:     "apt-get install -y desktop-file-utils",
		Sudo:        true,
	},
	IDIconCache: {
		Description: "Install gtk-update-icon-cache via apt",
		Command:     "apt-get install -y gtk-update-icon-cache",
		Sudo:        true,
	},
	IDGsettings: {
		Description: "Install GLib tools via apt",
		Command:     "apt-get install -y libglib2.0-bin",
		Sudo:        true,
	},
	IDGnomeExtensions: {
		Description: "Install the GNOME Shell extension CLI via apt",
		Command:     "apt-get install -y gnome-shell-extensions",
		Sudo:        true,
	},
	IDExportfs: {
		Description: "Install the NFS kernel server via apt",
		Command:     "apt-get install -y nfs-kernel-server",
		Sudo:        true,
	},
	IDMountNFS: {
		Description: "Install NFS client utilities via apt",
		Command:     "apt-get install -y nfs-common",
		Sudo:        true,
	},
	IDDocker: {
		Description: "Install Docker via apt",
		Command:     "apt-get install -y docker.io docker-compose-v2",
		Sudo:        true,
	},
	IDPsql: {
		Description: "Install PostgreSQL via apt",
		Command:     "apt-get install -y postgresql postgresql-client",
		Sudo:        true,
	},
	IDGit: {
		Description: "Install Git via apt",
		Command:     "apt-get install -y git",
		Sudo:        true,
	},
	IDStarship: {
		Description: "Install the Starship prompt",
		Command:     "curl -sS https://starship.rs/install.sh | sh -s -- --yes",
		Sudo:        false,
	},
}

// GetFixCommand returns the fix command for a check ID, or nil if the
// check has no automatic fix.
func GetFixCommand(checkID string) *FixCommand {
	fix, ok := fixCommands[checkID]
	if !ok {
		return nil
	}
	return &fix
}

// Fixer runs fix commands for failed checks.
type Fixer struct {
	runner *execx.Runner
}

// NewFixer creates a new Fixer using the real command executor.
func NewFixer() *Fixer {
	return &Fixer{runner: execx.NewRunner(&execx.RealExecutor{})}
}

// NewFixerWithRunner creates a new Fixer with a custom runner (for testing).
func NewFixerWithRunner(runner *execx.Runner) *Fixer {
	return &Fixer{runner: runner}
}

// Fix runs the fix command for a single check.
func (f *Fixer) Fix(check Check) error {
	if check.FixCommand == nil {
		return fmt.Errorf("no fix available for %s", check.ID)
	}

	if check.FixCommand.Sudo {
		_, err := f.runner.SudoShell(check.FixCommand.Command)
		return err
	}
	_, err := f.runner.Shell(check.FixCommand.Command)
	return err
}

// FixAll runs fix commands for every failed check in the given groups,
// collecting errors rather than stopping at the first failure.
func (f *Fixer) FixAll(groups []CheckGroup) error {
	var result *multierror.Error

	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status == StatusOK || check.FixCommand == nil {
				continue
			}
			if err := f.Fix(check); err != nil {
				result = multierror.Append(result, fmt.Errorf("fix %s: %w", check.ID, err))
			}
		}
	}

	return result.ErrorOrNil()
}
