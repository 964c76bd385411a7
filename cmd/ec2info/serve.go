package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
	"github.com/jaspreet-dot-casa/ec2info/pkg/server"
)

type serveOptions struct {
	configPath string
	listen     string
	timeout    time.Duration
	endpoint   string
	logLevel   string
}

// newServeCmd creates the serve subcommand
func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the metadata web service",
		Long: `Serve the instance metadata over HTTP:

  GET /              HTML page
  GET /api/metadata  JSON object
  GET /health        health check for load balancers
  GET /metrics       Prometheus metrics

Every request to / or /api/metadata queries the instance metadata service
once. Nothing is cached.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.ServerConfigFileName, "Server config file (optional)")
	cmd.Flags().StringVar(&opts.listen, "listen", config.DefaultListenAddr, "Listen address")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", config.DefaultMetadataTimeout, "Metadata fetch timeout")
	cmd.Flags().StringVar(&opts.endpoint, "metadata-endpoint", "", "Override the instance metadata endpoint")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	return cmd
}

// loadServerConfig reads the config file and applies any flags set explicitly.
func loadServerConfig(cmd *cobra.Command, opts *serveOptions) (*config.ServerConfig, error) {
	cfg, err := config.LoadServerConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = opts.listen
	}
	if flags.Changed("timeout") {
		cfg.MetadataTimeout = opts.timeout
	}
	if flags.Changed("metadata-endpoint") {
		cfg.MetadataEndpoint = opts.endpoint
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the production JSON logger at the configured level.
func newLogger(cfg *config.ServerConfig) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func newFetcher(ctx context.Context, cfg *config.ServerConfig) (*metadata.Client, error) {
	client, err := metadata.NewIMDSClientFromConfig(ctx, metadata.Options{
		Endpoint: cfg.MetadataEndpoint,
		Timeout:  cfg.MetadataTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata client: %w", err)
	}
	return client, nil
}

// runServe runs the web service until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadServerConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger.Info("starting ec2info",
		zap.String("version", version),
		zap.String("listen", cfg.Listen),
		zap.Duration("metadata_timeout", cfg.MetadataTimeout))

	return server.New(fetcher, logger, registry).Run(ctx, cfg.Listen)
}

// newMetadataCmd creates the metadata subcommand
func newMetadataCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print the instance metadata record as JSON",
		Long:  `Fetch the instance identity once, exactly as the web service does, and print it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetadata(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.ServerConfigFileName, "Server config file (optional)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", config.DefaultMetadataTimeout, "Metadata fetch timeout")
	cmd.Flags().StringVar(&opts.endpoint, "metadata-endpoint", "", "Override the instance metadata endpoint")

	return cmd
}

func runMetadata(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadServerConfig(cmd, opts)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	rec, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
