package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/deskctl/pkg/devsetup"
	"github.com/jaspreet-dot-casa/deskctl/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/deskctl/pkg/ui"
)

// newDevsetupCmd creates the devsetup subcommand
func newDevsetupCmd() *cobra.Command {
	var only []string
	var list bool

	cmd := &cobra.Command{
		Use:   "devsetup",
		Short: "Set up a development workstation",
		Long: `Run workstation setup groups: base packages, Docker, browsers,
PostgreSQL, shell prompt, and GNOME preferences.

All groups run by default; --only restricts the run. Groups are
idempotent and a failing group does not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return runDevsetupList()
			}
			return runDevsetup(only)
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only these groups (comma-separated)")
	cmd.Flags().BoolVar(&list, "list", false, "List setup groups")
	return cmd
}

func runDevsetupList() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, ui.TableHeaderStyle.Render("ID")+"\t"+ui.TableHeaderStyle.Render("DESCRIPTION"))
	for _, g := range devsetup.Groups() {
		fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Description)
	}
	return w.Flush()
}

func runDevsetup(only []string) error {
	sys, err := detectSystem()
	if err != nil {
		return err
	}
	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return err
	}

	what := "all setup groups"
	if len(only) > 0 {
		what = fmt.Sprintf("setup groups %v", only)
	}
	if !confirm("Run " + what + "?") {
		return nil
	}

	setup := devsetup.NewSetup(newRunner(), sys, cfg.DownloadDir)
	setup.OnStep = func(group, message string) {
		fmt.Println(ui.Step(fmt.Sprintf("[%s] %s", group, message)))
	}

	if err := setup.Run(context.Background(), only); err != nil {
		return err
	}
	fmt.Println(ui.Success("workstation setup complete"))
	return nil
}
