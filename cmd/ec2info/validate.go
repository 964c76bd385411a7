package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/ec2info/pkg/ui"
	"github.com/jaspreet-dot-casa/ec2info/pkg/validation"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd() *cobra.Command {
	opts := &artifactOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the artifact configuration",
		Long:  `Check artifact.yaml (or the defaults) and the input files it references without building.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.OutOrStdout(), opts)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

// runValidate validates the artifact configuration and input files.
func runValidate(out io.Writer, opts *artifactOptions) error {
	root, cfg, err := opts.loadArtifactConfig()
	if err != nil {
		return err
	}

	result := validation.NewValidator(root).Validate(cfg)

	printIssues(out, result, validation.SeverityError)
	printIssues(out, result, validation.SeverityWarning)

	if result.HasErrors() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
	}

	if len(result.Issues) == 0 {
		ui.Success(out, "Artifact configuration is valid.")
	} else {
		fmt.Fprintf(out, "\nValidation passed with %d warning(s).\n", result.WarningCount())
	}

	return nil
}
