package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/deskctl/pkg/apps"
	"github.com/jaspreet-dot-casa/deskctl/pkg/desktop"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/deskctl/pkg/ui"
)

// newAppsCmd creates the apps subcommand
func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List installable applications",
		Long:  `List the application catalog along with each app's install state.`,
		RunE:  runApps,
	}
}

func runApps(_ *cobra.Command, _ []string) error {
	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, ui.TableHeaderStyle.Render("ID")+"\t"+
		ui.TableHeaderStyle.Render("NAME")+"\t"+
		ui.TableHeaderStyle.Render("CATEGORY")+"\t"+
		ui.TableHeaderStyle.Render("STATUS"))

	for _, app := range apps.Catalog() {
		status := ui.DimStyle.Render("not installed")
		if rec := cfg.FindApp(app.ID); rec != nil {
			status = ui.SuccessStyle.Render("installed " + rec.Version)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.ID, app.Name, app.Category, status)
	}
	return w.Flush()
}

// newInstallCmd creates the install subcommand
func newInstallCmd() *cobra.Command {
	var all, force, plain bool

	cmd := &cobra.Command{
		Use:   "install [app]...",
		Short: "Install applications from the catalog",
		Long: `Download, place, and desktop-integrate catalog applications.

Already-installed apps are skipped unless --force is given. Use
'deskctl apps' to see the catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(args, all, force, plain)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Install every catalog app")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinstall even when already installed")
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain line output instead of the progress UI")

	return cmd
}

func runInstall(args []string, all, force, plain bool) error {
	if all == (len(args) > 0) {
		return fmt.Errorf("specify app IDs or --all (see 'deskctl apps')")
	}
	ids := args
	if all {
		ids = apps.IDs()
	}

	installer, err := newInstaller(force)
	if err != nil {
		return err
	}

	events := make(chan apps.ProgressEvent, 16)
	installer.OnEvent = func(e apps.ProgressEvent) { events <- e }

	errCh := make(chan error, 1)
	go func() {
		errCh <- installer.InstallAll(context.Background(), ids)
		close(events)
	}()

	if plain || !isTTY() {
		ui.PrintEvents(os.Stdout, events)
	} else {
		uiErr := ui.RunInstallUI(events)
		// The UI can stop before the channel closes (ctrl+c); keep
		// draining so the installer goroutine is never blocked on a send.
		drainEvents(events)
		if uiErr != nil {
			return uiErr
		}
	}

	return <-errCh
}

// drainEvents discards remaining progress events after their consumer has
// stopped listening.
func drainEvents(events <-chan apps.ProgressEvent) {
	for range events {
	}
}

// newUninstallCmd creates the uninstall subcommand
func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <app>...",
		Short: "Uninstall applications",
		Long:  `Remove an app's artifacts, desktop entries, and MIME registrations.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			installer, err := newInstaller(false)
			if err != nil {
				return err
			}
			for _, id := range args {
				if !confirm(fmt.Sprintf("Uninstall %s?", id)) {
					continue
				}
				if err := installer.Uninstall(id); err != nil {
					return err
				}
				fmt.Println(ui.Success(id + " uninstalled"))
			}
			return nil
		},
	}
}

// newInstaller wires the installer engine to the host.
func newInstaller(force bool) (*apps.Installer, error) {
	sys, err := detectSystem()
	if err != nil {
		return nil, err
	}
	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return nil, err
	}

	runner := newRunner()
	scope := desktop.ScopeUser
	if cfg.SystemScope {
		scope = desktop.ScopeSystem
	}
	integ, err := desktop.NewIntegrator(runner, scope)
	if err != nil {
		return nil, err
	}

	installer := apps.NewInstaller(runner, cfg, sys, integ)
	installer.Force = force
	return installer, nil
}
