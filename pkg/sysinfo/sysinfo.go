// Package sysinfo detects the host distribution and architecture. The
// installers only support Debian-derived desktop systems, mirroring the
// apt/snap tooling they drive.
package sysinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

// OSReleasePath is the os-release file Detect reads; DetectFrom parses
// another file.
const OSReleasePath = "/etc/os-release"

// ErrUnsupported is returned for distributions without apt.
var ErrUnsupported = errors.New("unsupported distribution: deskctl requires Ubuntu or another Debian derivative")

// Info describes the detected host system.
type Info struct {
	ID         string // e.g. "ubuntu", "debian"
	IDLike     string // e.g. "debian"
	VersionID  string // e.g. "24.04"
	Codename   string // e.g. "noble"
	PrettyName string
	Arch       string // deb-style: amd64, arm64
}

// Detect reads /etc/os-release and returns host information.
func Detect() (*Info, error) {
	return DetectFrom(OSReleasePath)
}

// DetectFrom parses an os-release file at the given path.
func DetectFrom(path string) (*Info, error) {
	// os-release is shell-style KEY="value" pairs, exactly what an env
	// file parser handles.
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	info := &Info{
		ID:         vars["ID"],
		IDLike:     vars["ID_LIKE"],
		VersionID:  vars["VERSION_ID"],
		Codename:   vars["VERSION_CODENAME"],
		PrettyName: vars["PRETTY_NAME"],
		Arch:       DebArch(runtime.GOARCH),
	}
	return info, nil
}

// IsDebianLike reports whether the host uses apt/dpkg.
func (i *Info) IsDebianLike() bool {
	if i.ID == "ubuntu" || i.ID == "debian" {
		return true
	}
	return strings.Contains(i.IDLike, "debian") || strings.Contains(i.IDLike, "ubuntu")
}

// VersionAtLeast compares VERSION_ID against "major.minor" strings like
// "24.04". Non-numeric versions compare as older.
func (i *Info) VersionAtLeast(version string) bool {
	have := parseVersion(i.VersionID)
	want := parseVersion(version)
	if have[0] != want[0] {
		return have[0] > want[0]
	}
	return have[1] >= want[1]
}

func parseVersion(v string) [2]int {
	var out [2]int
	parts := strings.SplitN(v, ".", 3)
	for n, p := range parts {
		if n > 1 {
			break
		}
		fmt.Sscanf(p, "%d", &out[n])
	}
	return out
}

// DebArch maps a GOARCH value to the Debian architecture name used in
// download URLs and package filenames.
func DebArch(goarch string) string {
	switch goarch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return goarch
	}
}

// HomeDir returns the invoking user's home directory. When running under
// sudo it resolves the original user's home, not /root.
func HomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && os.Geteuid() == 0 {
		home := filepath.Join("/home", sudoUser)
		if _, err := os.Stat(home); err == nil {
			return home, nil
		}
	}
	return os.UserHomeDir()
}

// DataHome returns the XDG data directory (~/.local/share by default).
func DataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// ConfigHome returns the XDG config directory (~/.config by default).
func ConfigHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
