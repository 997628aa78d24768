// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/config"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/updater"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
)

var (
	// ErrHostRequired indicates that neither --host nor --chain-file (nor the config file) named a chain source.
	ErrHostRequired = errors.New("cli: --host or --chain-file is required")

	// ErrBundleRequired indicates that no trust bundle path was configured.
	ErrBundleRequired = errors.New("cli: --bundle is required")

	// ErrConflictingOutput indicates that more than one of --tree, --table and --json was given.
	ErrConflictingOutput = errors.New("cli: --tree, --table and --json are mutually exclusive")
)

var (
	// OperationPerformed is set once a merge run has started.
	OperationPerformed bool
	// OperationPerformedSuccessfully is set once a merge run has finished without error.
	OperationPerformedSuccessfully bool
)

// options holds the parsed flags of one invocation.
type options struct {
	configFile             string
	host                   string
	port                   int
	timeout                time.Duration
	bundlePath             string
	includeSelfSignedRoots bool
	chainFile              string
	dryRun                 bool
	tree                   bool
	table                  bool
	json                   bool
}

// Execute runs the root command with the process arguments.
//
// Status lines go to log; a rendered chain or JSON report goes to standard output.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	OperationPerformed = false
	OperationPerformedSuccessfully = false

	return newRootCmd(version, log).ExecuteContext(ctx)
}

func newRootCmd(version string, log logger.Logger) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   posix.GetExecutableName(),
		Short: "Capture a TLS certificate chain and merge its CA certificates into a trust bundle",
		Long: `Connects to a TLS endpoint without verifying it, records the full certificate
chain (including certificates injected by a traffic-intercepting proxy), and
appends every CA certificate not already present to a PEM trust bundle.

The bundle is backed up to <bundle>.<YYYYMMDD_HHMMSS>.bak and replaced
atomically, and only when something is added.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, log)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "JSON or YAML config file (default: $"+config.EnvConfigFile+")")
	flags.StringVarP(&opts.host, "host", "H", "", "TLS host to capture the chain from")
	flags.IntVarP(&opts.port, "port", "p", 443, "TLS port")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "dial and handshake timeout")
	flags.StringVarP(&opts.bundlePath, "bundle", "b", "", "PEM trust bundle to update")
	flags.BoolVar(&opts.includeSelfSignedRoots, "include-self-signed-roots", true, "also add self-signed root certificates")
	flags.StringVarP(&opts.chainFile, "chain-file", "f", "", "read the chain from a PEM, DER or PKCS#7 file instead of connecting")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "report what would be added without writing")
	flags.BoolVar(&opts.tree, "tree", false, "print the chain as an ASCII tree")
	flags.BoolVar(&opts.table, "table", false, "print the chain as a markdown table")
	flags.BoolVar(&opts.json, "json", false, "print a JSON report")

	return rootCmd
}

// resolveConfig merges the config file with explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Target.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Target.Port = opts.port
	}
	if flags.Changed("timeout") {
		cfg.Target.TimeoutSeconds = int(opts.timeout.Round(time.Second) / time.Second)
		if cfg.Target.TimeoutSeconds < 1 {
			cfg.Target.TimeoutSeconds = 1
		}
	}
	if flags.Changed("bundle") {
		cfg.Bundle.Path = opts.bundlePath
	}
	if flags.Changed("include-self-signed-roots") {
		cfg.Bundle.IncludeSelfSignedRoots = opts.includeSelfSignedRoots
	}

	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, log logger.Logger) error {
	if countTrue(opts.tree, opts.table, opts.json) > 1 {
		return ErrConflictingOutput
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.Target.Host == "" && opts.chainFile == "" {
		return ErrHostRequired
	}
	if cfg.Bundle.Path == "" {
		return ErrBundleRequired
	}

	// Keep stdout machine-readable.
	if opts.json {
		log.SetOutput(cmd.ErrOrStderr())
	}

	OperationPerformed = true

	report, err := updater.New(log, cfg.Timeout()).Run(cmd.Context(), updater.Options{
		Host:       cfg.Target.Host,
		Port:       cfg.Target.Port,
		ChainFile:  opts.chainFile,
		BundlePath: cfg.Bundle.Path,
		Policy:     cfg.Policy(),
		DryRun:     opts.dryRun,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.tree:
		fmt.Fprint(out, report.Chain.RenderASCIITree(report.Annotations()))
	case opts.table:
		fmt.Fprint(out, report.Chain.RenderTable(report.Annotations()))
	case opts.json:
		data, err := report.JSON()
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	OperationPerformedSuccessfully = true
	return nil
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
