// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package testutil builds throwaway certificate hierarchies for tests.
// Nothing outside _test.go files should import it.
package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Kind selects the BasicConstraints shape of a generated certificate.
type Kind int

const (
	// Leaf has BasicConstraints with cA=FALSE.
	Leaf Kind = iota
	// CA has BasicConstraints with cA=TRUE.
	CA
	// NoConstraints has no BasicConstraints extension at all.
	NoConstraints
)

// Issued is a generated certificate together with its private key.
type Issued struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// Chain is a leaf → intermediate → root hierarchy as a server would present it.
type Chain struct {
	Leaf         Issued
	Intermediate Issued
	Root         Issued
}

// Certs returns the chain leaf-first.
func (c *Chain) Certs() []*x509.Certificate {
	return []*x509.Certificate{c.Leaf.Cert, c.Intermediate.Cert, c.Root.Cert}
}

// TLSCertificate returns a server certificate that presents the whole chain.
func (c *Chain) TLSCertificate() tls.Certificate {
	return tls.Certificate{
		Certificate: [][]byte{c.Leaf.Cert.Raw, c.Intermediate.Cert.Raw, c.Root.Cert.Raw},
		PrivateKey:  c.Leaf.Key,
		Leaf:        c.Leaf.Cert,
	}
}

// NewChain generates a fresh hierarchy whose names include label.
// The leaf is valid for "localhost" and 127.0.0.1.
func NewChain(tb testing.TB, label string) *Chain {
	tb.Helper()

	root := Issue(tb, pkix.Name{Organization: []string{"Test Proxy"}, CommonName: label + " Root CA"}, CA, nil)
	intermediate := Issue(tb, pkix.Name{Organization: []string{"Test Proxy"}, CommonName: label + " Intermediate CA"}, CA, &root)
	leaf := Issue(tb, pkix.Name{CommonName: "localhost"}, Leaf, &intermediate)

	return &Chain{Leaf: leaf, Intermediate: intermediate, Root: root}
}

// Issue creates a certificate for subject. A nil parent makes it self-signed.
func Issue(tb testing.TB, subject pkix.Name, kind Kind, parent *Issued) Issued {
	tb.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("generate key: %v", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		tb.Fatalf("generate serial: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      subject,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}

	switch kind {
	case CA:
		tmpl.IsCA = true
		tmpl.BasicConstraintsValid = true
		tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	case Leaf:
		tmpl.BasicConstraintsValid = true
		tmpl.KeyUsage = x509.KeyUsageDigitalSignature
		tmpl.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
		tmpl.DNSNames = []string{"localhost"}
		tmpl.IPAddresses = []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback}
	case NoConstraints:
		tmpl.KeyUsage = x509.KeyUsageDigitalSignature
	}

	issuerCert, issuerKey := tmpl, key
	if parent != nil {
		issuerCert, issuerKey = parent.Cert, parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuerCert, &key.PublicKey, issuerKey)
	if err != nil {
		tb.Fatalf("create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parse certificate: %v", err)
	}

	return Issued{Cert: cert, Key: key}
}

// PEM returns the PEM block of cert, ending with a single newline.
func PEM(cert *x509.Certificate) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
}

// WriteBundle writes the given PEM blocks, in order, to name inside dir and returns the path.
func WriteBundle(tb testing.TB, dir, name string, blocks ...string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(blocks, "")), 0o644); err != nil {
		tb.Fatalf("write bundle: %v", err)
	}
	return path
}
