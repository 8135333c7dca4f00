package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/deskctl/pkg/doctor"
	"github.com/jaspreet-dot-casa/deskctl/pkg/ui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment for required tools",
		Long: `Check package managers, desktop integration tools, NFS utilities, and
development tooling. --fix runs the suggested install command for every
failed check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Attempt to fix failed checks")
	return cmd
}

func runDoctor(fix bool) error {
	checker := doctor.NewChecker()
	groups := checker.CheckAllAsync()

	for _, group := range groups {
		fmt.Println(ui.BoldStyle.Render(group.Name))
		for _, check := range group.Checks {
			fmt.Printf("  %s %s: %s\n", ui.StatusGlyph(check.Status.String()), check.Name, check.Message)
			if check.Status != doctor.StatusOK && check.FixCommand != nil && !fix {
				fmt.Printf("    %s\n", ui.DimStyle.Render("fix: "+check.FixCommand.Command))
			}
		}
		fmt.Println()
	}

	summary := checker.GetSummary(groups)
	fmt.Printf("%d checks: %d ok, %d missing, %d warnings, %d errors\n",
		summary.Total, summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if !checker.HasIssues(groups) {
		return nil
	}

	if !fix {
		return fmt.Errorf("environment has issues (re-run with --fix)")
	}

	if !confirm("Run fix commands for failed checks?") {
		return nil
	}
	fixer := doctor.NewFixerWithRunner(newRunner())
	if err := fixer.FixAll(groups); err != nil {
		return err
	}
	fmt.Println(ui.Success("fixes applied, re-run 'deskctl doctor' to verify"))
	return nil
}
