// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"errors"
	"fmt"

	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

// ErrEmptyChain indicates that no certificate could be found in the chain input.
var ErrEmptyChain = errors.New("x509chain: chain contains no certificates")

// Chain is an ordered list of [X.509] certificates as presented by a server.
// Index 0 is the leaf.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	Certs []*x509.Certificate
}

// New creates a Chain from certs, keeping their order.
//
// The slice is copied, so later changes by the caller do not affect the chain.
func New(certs []*x509.Certificate) *Chain {
	return &Chain{Certs: append([]*x509.Certificate(nil), certs...)}
}

// Parse decodes a saved chain (PEM, concatenated DER, or PKCS#7) into a Chain.
//
// The first certificate of data is treated as the leaf, the same way a live
// capture treats the first certificate of the handshake.
func Parse(data []byte) (*Chain, error) {
	certs, err := x509certs.DecodeChain(data)
	if err != nil {
		return nil, fmt.Errorf("decode chain: %w", err)
	}
	if len(certs) == 0 {
		return nil, ErrEmptyChain
	}
	return New(certs), nil
}

// Len returns the number of certificates in the chain.
func (ch *Chain) Len() int { return len(ch.Certs) }

// Leaf returns the first certificate of the chain, or nil if the chain is empty.
func (ch *Chain) Leaf() *x509.Certificate {
	if len(ch.Certs) == 0 {
		return nil
	}
	return ch.Certs[0]
}

// Candidates returns every certificate after the leaf, in chain order.
//
// These are the only certificates ever considered for a trust bundle; the leaf
// is never a candidate. A chain holding only its leaf has no candidates.
func (ch *Chain) Candidates() []*x509.Certificate {
	if len(ch.Certs) <= 1 {
		return nil
	}
	return ch.Certs[1:]
}

// Classify classifies every certificate in the chain.
//
// The returned slice always has one entry per certificate. Certificates whose
// BasicConstraints could not be read are still classified (as non-CA), and the
// matching *x509certs.ParseError, with its Index set to the chain position, is
// collected in errs.
func (ch *Chain) Classify() (infos []x509certs.Info, errs []error) {
	infos = make([]x509certs.Info, len(ch.Certs))
	for i, cert := range ch.Certs {
		info, err := x509certs.Classify(cert)
		if err != nil {
			var pe *x509certs.ParseError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			errs = append(errs, err)
		}
		infos[i] = info
	}
	return infos, errs
}

// getCertificateRole determines the role of a certificate from its position
// and classification.
func (ch *Chain) getCertificateRole(index int, info x509certs.Info) string {
	switch {
	case len(ch.Certs) == 1 && info.IsSelfSigned:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity (Server/Leaf) Certificate"
	case info.IsCA && info.IsSelfSigned:
		return "Root CA Certificate"
	case info.IsCA:
		return "Intermediate CA Certificate"
	default:
		return "Non-CA Certificate"
	}
}
