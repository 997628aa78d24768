// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509bundle

import (
	"crypto/x509"

	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

// Decision is the outcome of merging one candidate certificate.
type Decision string

const (
	// DecisionAdded means the certificate was appended to the bundle.
	DecisionAdded Decision = "added"
	// DecisionNotCA means the certificate does not assert cA=TRUE.
	DecisionNotCA Decision = "not-ca"
	// DecisionSelfSignedExcluded means the certificate looks self-signed and
	// the policy excludes such roots.
	DecisionSelfSignedExcluded Decision = "self-signed-excluded"
	// DecisionDuplicate means a certificate with the same fingerprint is already present.
	DecisionDuplicate Decision = "duplicate"
	// DecisionCAParseError means the BasicConstraints extension could not be
	// read, so the certificate is treated as non-CA.
	DecisionCAParseError Decision = "ca-parse-error"
)

// Policy controls which CA certificates are eligible for the bundle.
type Policy struct {
	// IncludeSelfSignedRoots allows certificates whose subject equals their
	// issuer. Intercepting proxies usually present their own root this way.
	IncludeSelfSignedRoots bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{IncludeSelfSignedRoots: true}
}

// CandidateResult records what happened to one candidate certificate.
type CandidateResult struct {
	Info     x509certs.Info
	Decision Decision
	// Err is set for [DecisionCAParseError].
	Err error
	// ExistingIndex is the block index of the matching certificate for
	// [DecisionDuplicate], or -1.
	ExistingIndex int
}

// Result is the outcome of [Merge].
type Result struct {
	// Bundle is the merged bundle. It shares nothing with the input bundle.
	Bundle *Bundle
	// Added lists the appended certificates, in chain order.
	Added []*x509.Certificate
	// Candidates holds one entry per candidate, in chain order.
	Candidates []CandidateResult
}

// Count returns the number of certificates added.
func (r *Result) Count() int { return len(r.Added) }

// Changed reports whether the merge added anything, and therefore whether the
// bundle must be written.
func (r *Result) Changed() bool { return len(r.Added) > 0 }

// Annotations maps each candidate fingerprint to its decision.
func (r *Result) Annotations() map[x509certs.Fingerprint]string {
	notes := make(map[x509certs.Fingerprint]string, len(r.Candidates))
	for _, c := range r.Candidates {
		notes[c.Info.Fingerprint] = string(c.Decision)
	}
	return notes
}

// Merge decides which candidates join the bundle and returns the merged result.
//
// Candidates are examined in order. A candidate is skipped if it is not a CA,
// if it looks self-signed and the policy excludes such certificates, or if its
// fingerprint is already present (including an earlier candidate of the same
// call). Every other candidate is appended as a new block after all existing
// blocks.
//
// The input bundle is never modified, and existing blocks keep their exact
// text and order. Merging the same candidates into the result again adds nothing.
func Merge(existing *Bundle, candidates []*x509.Certificate, policy Policy) *Result {
	if existing == nil {
		existing = &Bundle{}
	}
	merged := existing.Clone()
	res := &Result{Bundle: merged, Candidates: make([]CandidateResult, 0, len(candidates))}

	for _, cert := range candidates {
		info, err := x509certs.Classify(cert)
		cr := CandidateResult{Info: info, ExistingIndex: -1}

		switch {
		case err != nil:
			cr.Decision = DecisionCAParseError
			cr.Err = err
		case !info.IsCA:
			cr.Decision = DecisionNotCA
		case info.IsSelfSigned && !policy.IncludeSelfSignedRoots:
			cr.Decision = DecisionSelfSignedExcluded
		default:
			if idx, ok := merged.Lookup(info.Fingerprint); ok {
				cr.Decision = DecisionDuplicate
				cr.ExistingIndex = idx
				break
			}
			merged.Append(cert)
			res.Added = append(res.Added, cert)
			cr.Decision = DecisionAdded
		}

		res.Candidates = append(res.Candidates, cr)
	}

	return res
}
