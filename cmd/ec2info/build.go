package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/ec2info/pkg/artifact"
	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
	"github.com/jaspreet-dot-casa/ec2info/pkg/ui"
	"github.com/jaspreet-dot-casa/ec2info/pkg/validation"
)

type artifactOptions struct {
	dir        string
	configPath string
	verbose    bool
}

func (o *artifactOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dir, "dir", "C", ".", "Directory containing the input files")
	cmd.Flags().StringVarP(&o.configPath, "config", "c", config.ArtifactConfigFileName, "Artifact config file, relative to --dir (optional)")
}

// loadArtifactConfig resolves the working directory and loads the artifact config from it.
func (o *artifactOptions) loadArtifactConfig() (string, *config.ArtifactConfig, error) {
	root := o.dir
	if root == "" || root == "." {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("could not determine working directory: %w", err)
		}
		root = cwd
	}

	cfg, err := config.LoadArtifactConfig(resolvePath(root, o.configPath))
	if err != nil {
		return "", nil, fmt.Errorf("failed to load artifact config: %w", err)
	}
	return root, cfg, nil
}

// newBuildCmd creates the build subcommand
func newBuildCmd() *cobra.Command {
	opts := &artifactOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the deployable artifact",
		Long: `Assemble build/<name>/ from the application and its manifest, generate
deploy.sh and <name>.service, and compress the directory into
build/<name>-YYYYMMDD_HHMMSS.zip.

The output directory is removed first. The build stops at the first failing step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.OutOrStdout(), opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// runBuild validates the configuration and builds the artifact.
func runBuild(out io.Writer, opts *artifactOptions) error {
	root, cfg, err := opts.loadArtifactConfig()
	if err != nil {
		return err
	}

	builder := artifact.NewBuilder(root)
	builder.SetOutput(out)
	builder.SetVerbose(opts.verbose)

	// Step 1: Validate configuration and inputs
	ui.Step(out, "Validating %s...", cfg.Name)
	result := validation.NewValidator(root).Validate(cfg)

	if result.HasErrors() {
		printIssues(out, result, validation.SeverityError)
		// A failed build leaves no archive from an earlier run behind.
		if err := builder.Clean(cfg); err != nil && !errors.Is(err, artifact.ErrUnsafeOutputDir) {
			ui.Error(out, "%v", err)
		}
		return fmt.Errorf("validation failed with %d error(s), fix errors before building", result.ErrorCount())
	}
	printIssues(out, result, validation.SeverityWarning)

	// Step 2: Build
	builder.SetProgress(func(event artifact.ProgressEvent) {
		switch {
		case event.IsError:
			ui.Error(out, "%s", event.Message)
		case event.Stage == artifact.StageComplete:
		default:
			ui.Step(out, "%s...", event.Message)
		}
	})

	res, err := builder.Build(cfg)
	if err != nil {
		return err
	}

	// Step 3: Report
	fmt.Fprintln(out)
	ui.Success(out, "Artifact created: %s", res.ArchivePath)
	fmt.Fprintf(out, "  Size:  %s\n", res.HumanSize())
	fmt.Fprintf(out, "  Files: %d\n", len(res.Files))
	for _, f := range res.Files {
		fmt.Fprintf(out, "    - %s\n", f)
	}

	return nil
}

// printIssues prints the issues of the given severity.
func printIssues(out io.Writer, result *validation.Result, severity validation.Severity) {
	for _, issue := range result.Issues {
		if issue.Severity != severity {
			continue
		}

		msg := fmt.Sprintf("%s: %s", issue.File, issue.Message)
		if issue.Field != "" {
			msg = fmt.Sprintf("%s: %s (%s)", issue.File, issue.Message, issue.Field)
		}

		if severity == validation.SeverityError {
			ui.Error(out, "%s", msg)
		} else {
			ui.Warn(out, "%s", msg)
		}
	}
}

// resolvePath joins p onto root unless it is already absolute.
func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
