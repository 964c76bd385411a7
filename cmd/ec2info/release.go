package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/ec2info/pkg/release"
	"github.com/jaspreet-dot-casa/ec2info/pkg/ui"
)

type publishOptions struct {
	bucket string
	prefix string
	region string
}

// newPublishCmd creates the publish subcommand
func newPublishCmd() *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:   "publish <archive>",
		Short: "Upload a built archive to S3",
		Long: `Upload the zip produced by 'ec2info build' to s3://<bucket>/<prefix>/<archive name>.

Credentials and region come from the standard AWS configuration chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := release.NewClients(cmd.Context(), opts.region)
			if err != nil {
				return err
			}
			publisher := release.NewPublisher(clients.S3, opts.bucket, opts.prefix)
			return runPublish(cmd, cmd.OutOrStdout(), publisher, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.bucket, "bucket", "b", "", "Destination bucket (required)")
	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", "", "Key prefix")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (defaults to the configured region)")
	if err := cmd.MarkFlagRequired("bucket"); err != nil {
		panic(err)
	}

	return cmd
}

func runPublish(cmd *cobra.Command, out io.Writer, publisher *release.Publisher, archivePath string) error {
	ui.Step(out, "Uploading %s...", archivePath)

	up, err := publisher.Publish(cmd.Context(), archivePath)
	if err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}

	ui.Success(out, "Uploaded: %s", up.URI())
	if up.ETag != "" {
		fmt.Fprintf(out, "  ETag: %s\n", up.ETag)
	}
	return nil
}

type bakeOptions struct {
	instanceID  string
	name        string
	description string
	region      string
	noReboot    bool
	wait        bool
	waitTimeout time.Duration
	tags        map[string]string
}

// newBakeCmd creates the bake subcommand
func newBakeCmd() *cobra.Command {
	opts := &bakeOptions{}

	cmd := &cobra.Command{
		Use:   "bake",
		Short: "Create an AMI from an instance running the app",
		Long: `Create an AMI from an instance the artifact has been deployed to, so new
instances boot with the service already installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, err := release.NewClients(cmd.Context(), opts.region)
			if err != nil {
				return err
			}
			baker := release.NewBaker(clients.EC2)
			baker.SetWaitTimeout(opts.waitTimeout)
			return runBake(cmd, cmd.OutOrStdout(), baker, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.instanceID, "instance-id", "i", "", "Source instance ID (required)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "AMI name (defaults to ec2info-<timestamp>)")
	cmd.Flags().StringVar(&opts.description, "description", "", "AMI description")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (defaults to the configured region)")
	cmd.Flags().BoolVar(&opts.noReboot, "no-reboot", false, "Do not stop the instance before snapshotting")
	cmd.Flags().BoolVar(&opts.wait, "wait", false, "Wait until the AMI is available")
	cmd.Flags().DurationVar(&opts.waitTimeout, "wait-timeout", release.DefaultWaitTimeout, "Maximum time to wait with --wait")
	cmd.Flags().StringToStringVar(&opts.tags, "tag", nil, "Image tags as key=value (repeatable)")
	if err := cmd.MarkFlagRequired("instance-id"); err != nil {
		panic(err)
	}

	return cmd
}

func runBake(cmd *cobra.Command, out io.Writer, baker *release.Baker, opts *bakeOptions) error {
	name := opts.name
	if name == "" {
		name = "ec2info-" + time.Now().UTC().Format("20060102-150405")
	}

	ui.Step(out, "Creating image %s from %s...", name, opts.instanceID)
	img, err := baker.Bake(cmd.Context(), release.BakeInput{
		InstanceID:  opts.instanceID,
		Name:        name,
		Description: opts.description,
		NoReboot:    opts.noReboot,
		Wait:        opts.wait,
		Tags:        opts.tags,
	})
	if img != nil {
		fmt.Fprintf(out, "  Image: %s\n", img.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to bake image: %w", err)
	}

	if img.Ready {
		ui.Success(out, "Image %s is available", img.ID)
	} else {
		ui.Success(out, "Image %s is being created", img.ID)
	}
	return nil
}
