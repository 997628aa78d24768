// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain captures and describes [X.509] certificate chains as a TLS
// server presents them.
// It provides capabilities to:
//   - Capture the full chain from a TLS endpoint, including certificates injected
//     by a traffic-intercepting proxy, through an explicitly insecure [Collector].
//   - Load a chain previously saved as PEM, DER, or PKCS#7.
//   - Classify every certificate of a chain and select the merge candidates.
//   - Render a chain as an ASCII tree, a markdown table, or JSON.
//
// Capture never verifies the peer. The chain is recorded exactly as presented,
// leaf first, so that it can be inspected and merged into a trust bundle.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
