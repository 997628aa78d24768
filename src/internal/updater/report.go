// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package updater

import (
	"encoding/json"
	"fmt"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/gc"
	x509bundle "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/bundle"
	x509chain "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/chain"
)

// Report describes the outcome of a [Updater.Run].
type Report struct {
	Source     string
	BundlePath string
	DryRun     bool

	// Chain is the captured or loaded chain.
	Chain *x509chain.Chain
	// NoIntermediates is set when the chain held only the leaf; nothing else ran.
	NoIntermediates bool
	// Result is the merge outcome, nil when the bundle was never merged.
	Result *x509bundle.Result
	// Written reports whether the bundle file was replaced.
	Written bool
	// BackupPath is set once a backup was created.
	BackupPath string
	// Warnings collects recoverable problems: unparsable bundle blocks and
	// unreadable BasicConstraints.
	Warnings []error
}

// Added returns the number of certificates added (or, for a dry run, that would be added).
func (r *Report) Added() int {
	if r.Result == nil {
		return 0
	}
	return r.Result.Count()
}

// Skipped returns the number of candidates that were not added.
func (r *Report) Skipped() int {
	if r.Result == nil {
		return 0
	}
	return len(r.Result.Candidates) - r.Result.Count()
}

// Annotations maps each candidate to its decision, for chain rendering.
func (r *Report) Annotations() x509chain.Annotations {
	if r.Result == nil {
		return nil
	}
	return r.Result.Annotations()
}

// DecisionEntry is the JSON view of one candidate decision.
type DecisionEntry struct {
	ChainIndex  int    `json:"chainIndex"`
	Fingerprint string `json:"fingerprint"`
	Subject     string `json:"subject"`
	Decision    string `json:"decision"`
	Error       string `json:"error,omitempty"`
}

// Summary is the JSON view of a Report.
type Summary struct {
	Source          string          `json:"source"`
	BundlePath      string          `json:"bundlePath"`
	ChainLength     int             `json:"chainLength"`
	NoIntermediates bool            `json:"noIntermediates"`
	Candidates      int             `json:"candidates"`
	Added           int             `json:"added"`
	Skipped         int             `json:"skipped"`
	DryRun          bool            `json:"dryRun"`
	Written         bool            `json:"written"`
	BackupPath      string          `json:"backupPath,omitempty"`
	Decisions       []DecisionEntry `json:"decisions"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// Summary builds the JSON view of r.
func (r *Report) Summary() Summary {
	s := Summary{
		Source:          r.Source,
		BundlePath:      r.BundlePath,
		NoIntermediates: r.NoIntermediates,
		Added:           r.Added(),
		Skipped:         r.Skipped(),
		DryRun:          r.DryRun,
		Written:         r.Written,
		BackupPath:      r.BackupPath,
		Decisions:       []DecisionEntry{},
	}
	if r.Chain != nil {
		s.ChainLength = r.Chain.Len()
	}
	if r.Result != nil {
		s.Candidates = len(r.Result.Candidates)
		for i, c := range r.Result.Candidates {
			entry := DecisionEntry{
				// Candidates start after the leaf.
				ChainIndex:  i + 1,
				Fingerprint: string(c.Info.Fingerprint),
				Subject:     c.Info.Subject,
				Decision:    string(c.Decision),
			}
			if c.Err != nil {
				entry.Error = c.Err.Error()
			}
			s.Decisions = append(s.Decisions, entry)
		}
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}

// JSON encodes the summary of r as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Summary(), "", "  ")
}

// String renders a short multi-line text summary of r.
func (r *Report) String() string {
	buf := gc.Default.Get()
	defer gc.Release(gc.Default, buf)

	s := r.Summary()
	fmt.Fprintf(buf, "source: %s\n", s.Source)
	fmt.Fprintf(buf, "bundle: %s\n", s.BundlePath)
	fmt.Fprintf(buf, "certificates in chain: %d\n", s.ChainLength)

	if s.NoIntermediates {
		buf.WriteString("no intermediate certificates; bundle not modified\n")
		return buf.String()
	}

	fmt.Fprintf(buf, "candidates: %d, added: %d, skipped: %d\n", s.Candidates, s.Added, s.Skipped)
	for _, d := range s.Decisions {
		fmt.Fprintf(buf, "  #%d %s %s\n", d.ChainIndex, d.Decision, d.Subject)
	}

	switch {
	case s.Written:
		fmt.Fprintf(buf, "bundle updated; backup: %s\n", s.BackupPath)
	case s.DryRun && s.Added > 0:
		buf.WriteString("dry run; bundle not modified\n")
	default:
		buf.WriteString("bundle not modified\n")
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(buf, "warning: %s\n", w)
	}

	return buf.String()
}
