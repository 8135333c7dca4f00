package nfs

import (
	"fmt"
	"os"
	"strings"

	"github.com/deniswernert/go-fstab"
)

// DefaultMountOptions are applied when a mount spec names no options.
var DefaultMountOptions = []string{"rw", "hard", "rsize=1048576", "wsize=1048576", "timeo=600"}

// MountSpec describes one NFS mount to register in /etc/fstab.
type MountSpec struct {
	Host       string   // NFS server hostname or address
	RemotePath string   // exported path on the server
	LocalPath  string   // local mountpoint
	Options    []string // mount options
}

// ParseMountArg parses a CLI mount spec "HOST:REMOTE:LOCAL[:opt1,opt2]".
func ParseMountArg(arg string) (*MountSpec, error) {
	parts := strings.SplitN(arg, ":", 4)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid mount %q: expected HOST:REMOTE:LOCAL", arg)
	}
	if !strings.HasPrefix(parts[1], "/") || !strings.HasPrefix(parts[2], "/") {
		return nil, fmt.Errorf("invalid mount %q: paths must be absolute", arg)
	}

	spec := &MountSpec{
		Host:       parts[0],
		RemotePath: parts[1],
		LocalPath:  parts[2],
		Options:    DefaultMountOptions,
	}
	if spec.Host == "" {
		return nil, fmt.Errorf("invalid mount %q: empty host", arg)
	}
	if len(parts) > 3 && parts[3] != "" {
		spec.Options = strings.Split(parts[3], ",")
	}
	return spec, nil
}

// Source returns the fstab device field, "host:/remote".
func (m *MountSpec) Source() string {
	return m.Host + ":" + m.RemotePath
}

// Line renders the fstab line for the mount. Options keep their given
// order so repeated runs produce identical lines.
func (m *MountSpec) Line() string {
	return fmt.Sprintf("%s %s nfs %s 0 0", m.Source(), m.LocalPath, strings.Join(m.Options, ","))
}

// fstabContains reports whether the fstab at path already has an entry for
// the same source and mountpoint.
func fstabContains(path string, spec *MountSpec) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	mounts, err := fstab.ParseFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, m := range mounts {
		if m.Spec == spec.Source() && m.File == spec.LocalPath {
			return true, nil
		}
	}
	return false, nil
}

// appendFstabLines appends the given rendered lines to the fstab content.
func appendFstabLines(content string, lines []string) string {
	out := content
	for _, line := range lines {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += line + "\n"
	}
	return out
}
