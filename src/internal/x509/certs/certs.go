// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

// BlockType is the PEM type of every block in a trust bundle.
const BlockType = "CERTIFICATE"

var (
	// ErrInvalidBlockType indicates a PEM block that does not hold a certificate.
	ErrInvalidBlockType = errors.New("x509certs: PEM block is not a CERTIFICATE")

	// ErrParseCertificate indicates data that is neither PEM, DER nor PKCS#7.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrNoCertificates indicates input that decoded but held no certificate.
	ErrNoCertificates = errors.New("x509certs: no certificates found")
)

// DecodeChain decodes the certificates of a saved chain, keeping their order.
//
// PEM input may carry text between blocks, but every block must be a
// CERTIFICATE; a bad block fails with a [ParseError] naming its position.
// Binary input is tried as concatenated DER first and as a PKCS#7 (.p7b) bag
// second, which covers chains exported by browsers and Windows tooling.
func DecodeChain(data []byte) ([]*x509.Certificate, error) {
	if isPEM(data) {
		return decodePEMChain(data)
	}

	if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
		return certs, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParseCertificate
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificates
	}
	return p.Content.SignedData.Certificates, nil
}

func isPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

func decodePEMChain(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	for i := 0; ; i++ {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest

		if block.Type != BlockType {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("%w (got %q)", ErrInvalidBlockType, block.Type)}
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, &ParseError{Index: i, Fingerprint: FingerprintOf(block.Bytes), Err: fmt.Errorf("%w: %v", ErrParseCertificate, err)}
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}
	return certs, nil
}

// EncodePEM returns the bundle block for cert: base64 wrapped at 64 columns,
// ending with exactly one newline.
func EncodePEM(cert *x509.Certificate) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: BlockType, Bytes: cert.Raw}))
}

// EncodeChainPEM concatenates the bundle blocks of certs.
func EncodeChainPEM(certs []*x509.Certificate) []byte {
	var buf bytes.Buffer
	for _, cert := range certs {
		buf.WriteString(EncodePEM(cert))
	}
	return buf.Bytes()
}
