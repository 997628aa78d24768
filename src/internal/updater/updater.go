// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	x509bundle "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/bundle"
	x509chain "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
)

var (
	// ErrBundleRequired indicates that no trust bundle path was configured.
	ErrBundleRequired = errors.New("updater: trust bundle path is required")

	// ErrSourceRequired indicates that neither a host nor a chain file was configured.
	ErrSourceRequired = errors.New("updater: a host or a chain file is required")
)

// Collector captures a certificate chain from a TLS endpoint.
// [*x509chain.Collector] is the production implementation.
type Collector interface {
	Collect(ctx context.Context, host string, port int) (*x509chain.Chain, error)
}

// Options describe a single merge run.
type Options struct {
	// Host is the TLS endpoint to capture from. Ignored when ChainFile is set.
	Host string
	// Port defaults to 443.
	Port int
	// ChainFile, when set, replaces the live capture with a saved PEM, DER,
	// or PKCS#7 chain whose first certificate is the leaf.
	ChainFile string
	// BundlePath is the trust bundle to update.
	BundlePath string
	// Policy selects eligible certificates.
	Policy x509bundle.Policy
	// DryRun reports the decisions without writing anything.
	DryRun bool
}

// Source returns a human-readable description of where the chain comes from.
func (o Options) Source() string {
	if o.ChainFile != "" {
		return o.ChainFile
	}
	port := o.Port
	if port <= 0 {
		port = x509chain.DefaultPort
	}
	return fmt.Sprintf("%s:%d", o.Host, port)
}

func (o Options) validate() error {
	if o.BundlePath == "" {
		return ErrBundleRequired
	}
	if o.Host == "" && o.ChainFile == "" {
		return ErrSourceRequired
	}
	return nil
}

// Updater captures a chain and merges its new CA certificates into a trust bundle.
type Updater struct {
	log       logger.Logger
	collector Collector
	writer    *x509bundle.Writer
}

// New creates an Updater that reports progress to log and captures chains
// with an intercepting collector bounded by timeout.
func New(log logger.Logger, timeout time.Duration) *Updater {
	return &Updater{
		log:       log,
		collector: x509chain.NewInterceptingCollector(timeout),
		writer:    x509bundle.NewWriter(),
	}
}

// WithCollector replaces the chain collector.
func (u *Updater) WithCollector(c Collector) *Updater {
	u.collector = c
	return u
}

// WithWriter replaces the bundle writer.
func (u *Updater) WithWriter(w *x509bundle.Writer) *Updater {
	u.writer = w
	return u
}

// Run performs one capture-and-merge pass.
//
// The bundle is written only when at least one certificate is added and
// DryRun is false. Connectivity failures and bundle read failures abort the
// run before any file is touched. The returned Report is non-nil whenever the
// chain was obtained, even if a later step failed.
func (u *Updater) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	chain, err := u.obtainChain(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source:     opts.Source(),
		BundlePath: opts.BundlePath,
		DryRun:     opts.DryRun,
		Chain:      chain,
	}

	if len(chain.Candidates()) == 0 {
		report.NoIntermediates = true
		logger.Infof(u.log, "No intermediate certificates (server presented %d certificate).", chain.Len())
		return report, nil
	}

	logger.Infof(u.log, "Updating trust bundle at %s...", opts.BundlePath)
	existing, warnings, err := x509bundle.Load(opts.BundlePath)
	if err != nil {
		return report, err
	}
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, w)
		logger.Warnf(u.log, "Skipping unparsable bundle block: %v", w)
	}

	res := x509bundle.Merge(existing, chain.Candidates(), opts.Policy)
	report.Result = res
	u.logDecisions(report)

	if !res.Changed() {
		logger.Infof(u.log, "No certificates to add.")
		return report, nil
	}

	if opts.DryRun {
		logger.Infof(u.log, "Dry run: %d certificate(s) would be added; %s not modified.", res.Count(), opts.BundlePath)
		return report, nil
	}

	// Last point at which a signal can still abort without touching the bundle.
	if err := ctx.Err(); err != nil {
		return report, err
	}

	backup, err := u.writer.Write(opts.BundlePath, res.Bundle)
	report.BackupPath = backup
	if err != nil {
		return report, err
	}
	report.Written = true

	logger.Infof(u.log, "Backed up original bundle to %s", backup)
	logger.Infof(u.log, "Updated %s (added %d).", opts.BundlePath, res.Count())

	return report, nil
}

func (u *Updater) obtainChain(ctx context.Context, opts Options) (*x509chain.Chain, error) {
	if opts.ChainFile != "" {
		logger.Infof(u.log, "Loading certificate chain from %s...", opts.ChainFile)

		data, err := os.ReadFile(opts.ChainFile)
		if err != nil {
			return nil, fmt.Errorf("read chain file: %w", err)
		}
		chain, err := x509chain.Parse(data)
		if err != nil {
			return nil, err
		}

		logger.Infof(u.log, "Loaded %d certificates.", chain.Len())
		return chain, nil
	}

	logger.Infof(u.log, "Connecting to %s to retrieve full certificate chain...", opts.Source())
	chain, err := u.collector.Collect(ctx, opts.Host, opts.Port)
	if err != nil {
		return nil, err
	}

	logger.Infof(u.log, "Retrieved %d certificates from server.", chain.Len())
	return chain, nil
}

func (u *Updater) logDecisions(report *Report) {
	for _, c := range report.Result.Candidates {
		fp := c.Info.Fingerprint.Short()

		switch c.Decision {
		case x509bundle.DecisionAdded:
			logger.Infof(u.log, "Adding new CA certificate (fp=%s) %s", fp, c.Info.Subject)
		case x509bundle.DecisionNotCA:
			logger.Infof(u.log, "Skipping non-CA certificate (fp=%s) %s", fp, c.Info.Subject)
		case x509bundle.DecisionSelfSignedExcluded:
			logger.Infof(u.log, "Skipping self-signed root (fp=%s) %s", fp, c.Info.Subject)
		case x509bundle.DecisionDuplicate:
			logger.Infof(u.log, "Certificate already present at block %d (fp=%s) %s; skipping.", c.ExistingIndex, fp, c.Info.Subject)
		case x509bundle.DecisionCAParseError:
			report.Warnings = append(report.Warnings, c.Err)
			logger.Warnf(u.log, "Treating certificate as non-CA (fp=%s) %s: %v", fp, c.Info.Subject, c.Err)
		}
	}
}
