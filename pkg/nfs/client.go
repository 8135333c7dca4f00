package nfs

import (
	"fmt"

	"github.com/jaspreet-dot-casa/deskctl/pkg/backup"
	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
)

// FstabPath is the fstab file Setup edits; NewClientWithPath targets
// another file.
const FstabPath = "/etc/fstab"

// Client configures the host to mount NFS shares at boot.
type Client struct {
	runner    *execx.Runner
	fstabPath string
}

// NewClient creates a Client using the default fstab path.
func NewClient(runner *execx.Runner) *Client {
	return &Client{runner: runner, fstabPath: FstabPath}
}

// NewClientWithPath creates a Client writing to a custom fstab file.
func NewClientWithPath(runner *execx.Runner, fstabPath string) *Client {
	return &Client{runner: runner, fstabPath: fstabPath}
}

// Setup installs the client packages, registers the mounts in fstab, creates
// the mountpoints, and mounts everything. Entries already in fstab for the
// same source and mountpoint are skipped.
func (c *Client) Setup(mounts []*MountSpec) error {
	if len(mounts) == 0 {
		return fmt.Errorf("no mounts given")
	}

	if !c.runner.DpkgInstalled("nfs-common") {
		if err := c.runner.AptUpdate(); err != nil {
			return err
		}
		if err := c.runner.AptInstall("nfs-common"); err != nil {
			return err
		}
	}

	var newLines []string
	for _, m := range mounts {
		present, err := fstabContains(c.fstabPath, m)
		if err != nil {
			return err
		}
		if present {
			logx.Log.Info().Str("source", m.Source()).Msg("fstab entry already present")
			continue
		}
		newLines = append(newLines, m.Line())
	}

	if len(newLines) > 0 {
		backupPath, err := backup.CreateWith(c.runner, c.fstabPath)
		if err != nil {
			return fmt.Errorf("failed to back up fstab: %w", err)
		}
		if backupPath != "" {
			logx.Log.Info().Str("backup", backupPath).Msg("backed up fstab")
		}

		content, err := readFileOrEmpty(c.fstabPath)
		if err != nil {
			return err
		}
		updated := appendFstabLines(content, newLines)
		if err := c.runner.WriteFile(c.fstabPath, []byte(updated), 0644); err != nil {
			return err
		}
	}

	for _, m := range mounts {
		if err := c.runner.MkdirAll(m.LocalPath); err != nil {
			return err
		}
	}

	if _, err := c.runner.Sudo("mount", "-a", "-t", "nfs,nfs4"); err != nil {
		return fmt.Errorf("failed to mount NFS shares: %w", err)
	}

	return nil
}
