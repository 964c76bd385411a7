package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
	"github.com/jaspreet-dot-casa/ec2info/pkg/doctor"
	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
	"github.com/jaspreet-dot-casa/ec2info/pkg/ui"
)

type doctorOptions struct {
	runtime string
	fix     bool
}

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	opts := &doctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check this host can run the deployed artifact",
		Long: `Check for the tools deploy.sh and the systemd unit rely on, the python
interpreter when the python runtime is used, and the instance metadata service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher := metadata.NewIMDSClient(metadata.Options{Timeout: config.DefaultMetadataTimeout})
			checker := doctor.NewChecker()
			checker.SetFetcher(fetcher)
			return runDoctor(cmd, cmd.OutOrStdout(), checker, doctor.NewFixer(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.runtime, "runtime", string(config.RuntimeGo), "Artifact runtime ("+runtimeNames()+")")
	cmd.Flags().BoolVar(&opts.fix, "fix", false, "Run the suggested fix for missing tools")

	return cmd
}

func runDoctor(cmd *cobra.Command, out io.Writer, checker *doctor.Checker, fixer *doctor.Fixer, opts *doctorOptions) error {
	rt := config.Runtime(opts.runtime)
	if !rt.IsValid() {
		return fmt.Errorf("%w: %s (supported: %s)", config.ErrInvalidRuntime, opts.runtime, runtimeNames())
	}

	groups := checker.CheckGroups(cmd.Context(), doctor.GroupsForRuntime(rt))
	printGroups(out, groups)

	if opts.fix {
		fixed, failed := runFixes(out, fixer, groups)
		if failed > 0 {
			return fmt.Errorf("%d fix command(s) failed", failed)
		}
		if fixed > 0 {
			fmt.Fprintln(out)
			ui.Step(out, "Re-checking after %d fix(es)...", fixed)
			groups = checker.CheckGroups(cmd.Context(), doctor.GroupsForRuntime(rt))
			printGroups(out, groups)
		}
	}

	summary := doctor.GetSummary(groups)
	fmt.Fprintf(out, "%d checks: %d ok, %d missing, %d warnings, %d errors\n",
		summary.Total, summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if doctor.HasIssues(groups) {
		return fmt.Errorf("%d required tool(s) missing", summary.Missing+summary.Errors)
	}
	return nil
}

func printGroups(out io.Writer, groups []doctor.CheckGroup) {
	for _, group := range groups {
		fmt.Fprintln(out, ui.TitleStyle.Render(group.Name))
		for _, check := range group.Checks {
			line := fmt.Sprintf("  %-20s %s", check.Name, check.Message)
			switch check.Status {
			case doctor.StatusOK:
				fmt.Fprintln(out, ui.SuccessStyle.Render("✓")+line)
			case doctor.StatusWarning:
				fmt.Fprintln(out, ui.WarningStyle.Render("!")+line)
			default:
				fmt.Fprintln(out, ui.ErrorStyle.Render("✗")+line)
				if check.FixCommand != nil {
					fmt.Fprintf(out, "    fix: %s\n", check.FixCommand.Command)
				}
			}
		}
		fmt.Fprintln(out)
	}
}

// runFixes runs the fix command of every missing tool and counts the outcomes.
func runFixes(out io.Writer, fixer *doctor.Fixer, groups []doctor.CheckGroup) (fixed, failed int) {
	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status != doctor.StatusMissing || check.FixCommand == nil {
				continue
			}
			ui.Step(out, "%s: %s", check.Name, check.FixCommand.Description)
			if err := fixer.RunFix(check.FixCommand); err != nil {
				ui.Error(out, "%v", err)
				failed++
				continue
			}
			fixed++
		}
	}
	return fixed, failed
}

func runtimeNames() string {
	var names []string
	for _, rt := range config.Runtimes() {
		names = append(names, string(rt))
	}
	return strings.Join(names, ", ")
}
