package doctor

import (
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// checkTool checks if a tool is installed and gets its version.
func checkTool(exec execx.CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run(path, versionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, versionRegex)
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		defaultRegex := regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
		matches := defaultRegex.FindStringSubmatch(output)
		if len(matches) >= 2 {
			return matches[1]
		}
		return ""
	}

	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckApt checks for the apt package manager.
func CheckApt(exec execx.CommandExecutor) Check {
	check := checkTool(
		exec,
		IDApt,
		"APT",
		"Debian package manager",
		[]string{"--version"},
		regexp.MustCompile(`apt (\d+\.\d+(?:\.\d+)?)`),
		nil, // no fix: a system without apt is unsupported
	)
	if check.Status == StatusMissing {
		check.Message = "not installed (deskctl requires a Debian derivative)"
		check.Status = StatusError
	}
	return check
}

// CheckSnap checks for snapd.
func CheckSnap(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDSnap,
		"Snap",
		"Snap package manager",
		[]string{"version"},
		regexp.MustCompile(`snap\s+(\d+\.\d+(?:\.\d+)?)`),
		GetFixCommand(IDSnap),
	)
}

// CheckSudo checks that sudo is available.
func CheckSudo(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDSudo,
		"sudo",
		"Privilege elevation",
		[]string{"--version"},
		regexp.MustCompile(`Sudo version (\d+\.\d+(?:\.\d+)?)`),
		GetFixCommand(IDSudo),
	)
}

// CheckXdgMime checks for the xdg-mime utility.
func CheckXdgMime(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDXdgMime,
		Name:        "xdg-mime",
		Description: "MIME association tool",
		FixCommand:  GetFixCommand(IDXdgMime),
	}

	if _, err := exec.LookPath("xdg-mime"); err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckDesktopDatabase checks for update-desktop-database.
func CheckDesktopDatabase(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDDesktopDatabase,
		Name:        "update-desktop-database",
		Description: "Desktop entry cache refresher",
		FixCommand:  GetFixCommand(IDDesktopDatabase),
	}

	if _, err := exec.LookPath("update-desktop-database"); err != nil {
		// Installs still work, menus just refresh later.
		check.Status = StatusWarning
		check.Message = "not installed (menu entries may lag)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckIconCache checks for gtk-update-icon-cache.
func CheckIconCache(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDIconCache,
		Name:        "gtk-update-icon-cache",
		Description: "Icon theme cache refresher",
		FixCommand:  GetFixCommand(IDIconCache),
	}

	if _, err := exec.LookPath("gtk-update-icon-cache"); err != nil {
		check.Status = StatusWarning
		check.Message = "not installed (icons may lag)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckGsettings checks for gsettings and a running GNOME session.
func CheckGsettings(exec execx.CommandExecutor, env EnvGetter) Check {
	check := Check{
		ID:          IDGsettings,
		Name:        "gsettings",
		Description: "GNOME settings tool",
		FixCommand:  GetFixCommand(IDGsettings),
	}

	if _, err := exec.LookPath("gsettings"); err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	desktop := env.Getenv("XDG_CURRENT_DESKTOP")
	if !strings.Contains(strings.ToUpper(desktop), "GNOME") {
		check.Status = StatusWarning
		check.Message = "installed (current desktop is not GNOME)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckGnomeExtensions checks for the gnome-extensions CLI.
func CheckGnomeExtensions(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDGnomeExtensions,
		"gnome-extensions",
		"GNOME Shell extension manager",
		[]string{"version"},
		regexp.MustCompile(`(\d+(?:\.\d+)?)`),
		GetFixCommand(IDGnomeExtensions),
	)
}

// CheckExportfs checks for the NFS server export tool.
func CheckExportfs(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDExportfs,
		Name:        "exportfs",
		Description: "NFS export administration",
		FixCommand:  GetFixCommand(IDExportfs),
	}

	// exportfs lives in /usr/sbin which may not be on the user's PATH.
	if _, err := exec.LookPath("exportfs"); err != nil {
		if !exec.FileExists("/usr/sbin/exportfs") {
			check.Status = StatusMissing
			check.Message = "not installed"
			return check
		}
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckMountNFS checks for the NFS client mount helper.
func CheckMountNFS(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDMountNFS,
		Name:        "mount.nfs",
		Description: "NFS mount helper",
		FixCommand:  GetFixCommand(IDMountNFS),
	}

	if _, err := exec.LookPath("mount.nfs"); err != nil {
		if !exec.FileExists("/sbin/mount.nfs") {
			check.Status = StatusMissing
			check.Message = "not installed"
			return check
		}
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckSystemctl checks that systemd is managing the host.
func CheckSystemctl(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDSystemctl,
		Name:        "systemctl",
		Description: "Service manager",
	}

	if _, err := exec.LookPath("systemctl"); err != nil {
		check.Status = StatusError
		check.Message = "not installed (service management unavailable)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	return check
}

// CheckDocker checks if Docker is installed and the daemon is running.
func CheckDocker(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDDocker,
		Name:        "Docker",
		Description: "Container engine",
		FixCommand:  GetFixCommand(IDDocker),
	}

	if _, err := exec.LookPath("docker"); err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run("systemctl", "is-active", "docker")
	if err != nil || strings.TrimSpace(output) != "active" {
		check.Status = StatusWarning
		check.Message = "installed but daemon not running"
		return check
	}

	check.Status = StatusOK
	check.Message = "running"
	return check
}

// CheckPsql checks for the PostgreSQL client.
func CheckPsql(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDPsql,
		"PostgreSQL",
		"Database client",
		[]string{"--version"},
		regexp.MustCompile(`psql \(PostgreSQL\) (\d+\.\d+)`),
		GetFixCommand(IDPsql),
	)
}

// CheckGit checks for git.
func CheckGit(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDGit,
		"Git",
		"Version control",
		[]string{"--version"},
		regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`),
		GetFixCommand(IDGit),
	)
}

// CheckStarship checks for the starship prompt.
func CheckStarship(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDStarship,
		"Starship",
		"Shell prompt",
		[]string{"--version"},
		regexp.MustCompile(`starship (\d+\.\d+\.\d+)`),
		GetFixCommand(IDStarship),
	)
}
