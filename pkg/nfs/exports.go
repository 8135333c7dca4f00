// Package nfs configures NFS server exports and client fstab mounts. Both
// paths back up the system file they touch before writing and skip entries
// that are already present, so repeated runs are no-ops.
package nfs

import (
	"fmt"
	"os"
	"strings"
)

// DefaultExportOptions are applied when an export names no options.
var DefaultExportOptions = []string{"rw", "sync", "no_subtree_check"}

// Export describes one /etc/exports line.
type Export struct {
	Dir     string   // exported directory
	Client  string   // host, CIDR, or "*" for any
	Options []string // export options
}

// ParseExportArg parses a CLI export spec "DIR[:CLIENT[:opt1,opt2]]".
func ParseExportArg(arg string) (*Export, error) {
	parts := strings.SplitN(arg, ":", 3)
	if parts[0] == "" || !strings.HasPrefix(parts[0], "/") {
		return nil, fmt.Errorf("invalid export %q: directory must be an absolute path", arg)
	}

	export := &Export{
		Dir:     parts[0],
		Client:  "*",
		Options: DefaultExportOptions,
	}
	if len(parts) > 1 && parts[1] != "" {
		export.Client = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		export.Options = strings.Split(parts[2], ",")
	}
	return export, nil
}

// Line renders the /etc/exports line for the export.
func (e *Export) Line() string {
	return fmt.Sprintf("%s %s(%s)", e.Dir, e.Client, strings.Join(e.Options, ","))
}

// exportsContains reports whether content already exports e.Dir to e.Client.
// Options are ignored: an existing export for the same dir/client pair wins.
func exportsContains(content string, e *Export) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != e.Dir {
			continue
		}
		for _, clause := range fields[1:] {
			host := clause
			if idx := strings.Index(clause, "("); idx != -1 {
				host = clause[:idx]
			}
			if host == e.Client {
				return true
			}
		}
	}
	return false
}

// appendExports adds the missing export lines to the file content and
// returns the updated text plus the number of lines added.
func appendExports(content string, exports []*Export) (string, int) {
	added := 0
	out := content
	for _, e := range exports {
		if exportsContains(out, e) {
			continue
		}
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += e.Line() + "\n"
		added++
	}
	return out, added
}

// readFileOrEmpty returns the file content, or "" when it does not exist.
func readFileOrEmpty(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
