// Package backup creates timestamped copies of system files before deskctl
// mutates them. Every fstab or exports edit is preceded by a backup so a
// botched run can always be undone by hand.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

// Suffix marks files created by this package.
const Suffix = ".bak"

// prefix is embedded in backup filenames so List can find them.
const prefix = "deskctl"

// Path returns a fresh backup filename for path. The name carries a
// timestamp plus a short unique ID so repeated runs in the same second
// never collide.
func Path(path string) string {
	id := uuid.New().String()[:8]
	return fmt.Sprintf("%s.%s-%s-%s%s", path, prefix, time.Now().Format("20060102-150405"), id, Suffix)
}

// Create copies path to a sibling backup file and returns the backup path.
func Create(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	backupPath := Path(path)

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode())
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(backupPath)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	return backupPath, nil
}

// CreateIfExists backs up path if it exists, returning "" when there is
// nothing to back up.
func CreateIfExists(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return Create(path)
}

// CreateWith is CreateIfExists for root-owned files: the copy goes through
// the runner so it can escalate to sudo cp, and a dry run records the copy
// without touching the filesystem.
func CreateWith(r *execx.Runner, path string) (string, error) {
	if !r.Executor().FileExists(path) {
		return "", nil
	}
	backupPath := Path(path)
	if err := r.CopyFile(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// List returns existing backups of path, newest first.
func List(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, base+"."+prefix+"-") && strings.HasSuffix(name, Suffix) {
			backups = append(backups, filepath.Join(dir, name))
		}
	}

	// Timestamps in the names sort lexically; reverse for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

// Restore copies a backup over the original file it was taken from.
func Restore(backupPath string) error {
	original := originalPath(backupPath)
	if original == backupPath {
		return fmt.Errorf("not a deskctl backup: %s", backupPath)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		return err
	}

	if err := os.WriteFile(original, data, info.Mode()); err != nil {
		return fmt.Errorf("failed to restore %s: %w", original, err)
	}
	return nil
}

// originalPath strips the backup suffix, returning the input unchanged if it
// does not look like one of ours.
func originalPath(backupPath string) string {
	idx := strings.LastIndex(backupPath, "."+prefix+"-")
	if idx == -1 || !strings.HasSuffix(backupPath, Suffix) {
		return backupPath
	}
	return backupPath[:idx]
}
