// Package main provides the ec2info CLI: the instance metadata web service
// and the tooling that packages and ships it.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for ec2info
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ec2info",
		Short: "EC2 instance metadata web service",
		Long: `ec2info serves the region, availability zone, instance ID and instance
type of the EC2 instance it runs on, as an HTML page and a JSON API.

It also packages itself for deployment:
  - build:    assemble the app, its manifest, deploy.sh and a systemd unit into a zip
  - validate: check the artifact configuration and input files
  - doctor:   check a host has what deploy.sh and the unit need
  - publish:  upload an archive to S3
  - bake:     create an AMI from an instance running the app`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMetadataCmd(),
		newBuildCmd(),
		newValidateCmd(),
		newDoctorCmd(),
		newPublishCmd(),
		newBakeCmd(),
	)

	return rootCmd
}
