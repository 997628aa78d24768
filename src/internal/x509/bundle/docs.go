// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509bundle reads, merges, and safely rewrites PEM trust bundles such
// as the cacert.pem shipped with language runtimes and HTTP clients.
//
// A bundle is handled as text, not as a certificate pool: every existing block
// is carried through a merge byte for byte, including blocks that fail to
// decode. New CA certificates are only ever appended, and certificates are
// compared by the SHA-256 fingerprint of their DER encoding.
//
// Example:
//
//	bundle, warnings, err := x509bundle.Load(path)
//	if err != nil {
//		return err
//	}
//	for _, w := range warnings {
//		logger.Warnf(log, "%v", w)
//	}
//
//	res := x509bundle.Merge(bundle, chain.Candidates(), x509bundle.DefaultPolicy())
//	if res.Changed() {
//		backup, err := x509bundle.NewWriter().Write(path, res.Bundle)
//		...
//	}
package x509bundle
