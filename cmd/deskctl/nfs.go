package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/deskctl/pkg/nfs"
	"github.com/jaspreet-dot-casa/deskctl/pkg/ui"
)

// newNFSCmd creates the nfs subcommand group
func newNFSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nfs",
		Short: "Configure NFS server exports and client mounts",
	}

	cmd.AddCommand(newNFSServerCmd(), newNFSClientCmd())
	return cmd
}

// newNFSServerCmd creates the nfs server subcommand
func newNFSServerCmd() *cobra.Command {
	var exports []string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Set up an NFS server",
		Long: `Install nfs-kernel-server, create export directories, append entries to
/etc/exports (after a timestamped backup), and enable the service.

Export format: DIR[:CLIENT[:OPTIONS]], e.g.
  --export /srv/media
  --export /srv/media:192.168.1.0/24
  --export /srv/media:192.168.1.0/24:ro,sync`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNFSServer(exports)
		},
	}

	cmd.Flags().StringArrayVar(&exports, "export", nil, "Directory to export (repeatable)")
	if err := cmd.MarkFlagRequired("export"); err != nil {
		panic(err)
	}
	return cmd
}

func runNFSServer(exportArgs []string) error {
	if _, err := detectSystem(); err != nil {
		return err
	}

	exports := make([]*nfs.Export, 0, len(exportArgs))
	for _, arg := range exportArgs {
		export, err := nfs.ParseExportArg(arg)
		if err != nil {
			return err
		}
		exports = append(exports, export)
	}

	if !confirm(fmt.Sprintf("Configure %d export(s) in %s?", len(exports), nfs.ExportsPath)) {
		return nil
	}

	server := nfs.NewServer(newRunner())
	if err := server.Setup(exports); err != nil {
		return err
	}
	fmt.Println(ui.Success("NFS server configured"))
	return nil
}

// newNFSClientCmd creates the nfs client subcommand
func newNFSClientCmd() *cobra.Command {
	var mounts []string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Mount NFS shares via /etc/fstab",
		Long: `Install nfs-common, append mount entries to /etc/fstab (after a
timestamped backup), create mountpoints, and mount everything.

Mount format: HOST:REMOTE:LOCAL[:OPTIONS], e.g.
  --mount nas.local:/volume1/media:/mnt/media
  --mount nas.local:/volume1/media:/mnt/media:ro,soft`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNFSClient(mounts)
		},
	}

	cmd.Flags().StringArrayVar(&mounts, "mount", nil, "NFS share to mount (repeatable)")
	if err := cmd.MarkFlagRequired("mount"); err != nil {
		panic(err)
	}
	return cmd
}

func runNFSClient(mountArgs []string) error {
	if _, err := detectSystem(); err != nil {
		return err
	}

	specs := make([]*nfs.MountSpec, 0, len(mountArgs))
	for _, arg := range mountArgs {
		spec, err := nfs.ParseMountArg(arg)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	if !confirm(fmt.Sprintf("Add %d mount(s) to %s?", len(specs), nfs.FstabPath)) {
		return nil
	}

	client := nfs.NewClient(newRunner())
	if err := client.Setup(specs); err != nil {
		return err
	}
	fmt.Println(ui.Success("NFS mounts configured"))
	return nil
}
