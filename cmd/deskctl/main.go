// Package main provides the deskctl CLI for provisioning desktop Linux
// workstations: application installs, NFS configuration, and dev setup.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/logx"
	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// version is set via -ldflags during build
var version = "dev"

// Global flags shared by all subcommands.
var (
	flagVerbose bool
	flagDryRun  bool
	flagYes     bool
)

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for deskctl
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deskctl",
		Short: "Desktop Linux provisioning tool",
		Long: `deskctl provisions an Ubuntu/Debian desktop workstation.

It supports:
  - Installing desktop applications (Cursor, Bambu Studio, Cura, RubyMine,
    GNOME extensions) with full desktop integration
  - Configuring NFS server exports and client mounts
  - Workstation setup: base packages, Docker, browsers, PostgreSQL,
    shell prompt, GNOME preferences
  - Environment diagnostics with automatic fixes`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.Setup(flagVerbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Print commands instead of executing them")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Assume yes for confirmation prompts")

	rootCmd.AddCommand(
		newAppsCmd(),
		newInstallCmd(),
		newUninstallCmd(),
		newNFSCmd(),
		newDevsetupCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// newVersionCmd creates the version subcommand
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the deskctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deskctl %s\n", version)
		},
	}
}

// newRunner builds the command runner, swapping in the dry-run executor when
// requested.
func newRunner() *execx.Runner {
	if flagDryRun {
		return execx.NewRunner(execx.NewDryRunExecutor())
	}
	return execx.NewRunner(&execx.RealExecutor{})
}

// detectSystem detects the host and rejects non-Debian distributions.
func detectSystem() (*sysinfo.Info, error) {
	sys, err := sysinfo.Detect()
	if err != nil {
		return nil, err
	}
	if !sys.IsDebianLike() {
		return nil, sysinfo.ErrUnsupported
	}
	return sys, nil
}

// confirm prompts before a mutating operation unless --yes or --dry-run.
func confirm(prompt string) bool {
	if flagYes || flagDryRun {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
