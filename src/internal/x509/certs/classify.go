// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformedBasicConstraints indicates a BasicConstraints extension whose value is not valid DER.
var ErrMalformedBasicConstraints = errors.New("x509certs: malformed basicConstraints extension")

// shortFingerprintLen is the number of hex characters shown in status output.
const shortFingerprintLen = 16

var oidBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}

// identityAttributes lists the distinguished-name attributes that make up an
// identity string, in output order.
var identityAttributes = []struct {
	key string
	oid asn1.ObjectIdentifier
}{
	{"C", asn1.ObjectIdentifier{2, 5, 4, 6}},
	{"ST", asn1.ObjectIdentifier{2, 5, 4, 8}},
	{"L", asn1.ObjectIdentifier{2, 5, 4, 7}},
	{"O", asn1.ObjectIdentifier{2, 5, 4, 10}},
	{"OU", asn1.ObjectIdentifier{2, 5, 4, 11}},
	{"CN", asn1.ObjectIdentifier{2, 5, 4, 3}},
	{"emailAddress", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}},
	{"serialNumber", asn1.ObjectIdentifier{2, 5, 4, 5}},
}

// Fingerprint is the lower-case hex SHA-256 digest of a certificate's DER encoding.
// It is the only identity key used to deduplicate certificates.
type Fingerprint string

// FingerprintOf computes the fingerprint of DER-encoded certificate bytes.
//
// PEM armor, line wrapping, and surrounding whitespace never reach this function,
// so two textual encodings of one certificate share a fingerprint.
func FingerprintOf(der []byte) Fingerprint {
	sum := sha256.Sum256(der)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Short returns the fingerprint prefix used in status lines.
func (f Fingerprint) Short() string {
	if len(f) <= shortFingerprintLen {
		return string(f)
	}
	return string(f[:shortFingerprintLen]) + "..."
}

// ParseError reports a certificate or certificate block that could not be
// interpreted. It is recoverable: callers skip the item, warn, and continue.
type ParseError struct {
	// Index is the item position in its chain or bundle, or -1 when not applicable.
	Index int
	// Fingerprint identifies the certificate when its DER was available.
	Fingerprint Fingerprint
	// Subject is the identity string when the certificate decoded far enough.
	Subject string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("certificate parse error")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.Fingerprint != "" {
		fmt.Fprintf(&b, " (fp=%s)", e.Fingerprint.Short())
	}
	if e.Subject != "" {
		fmt.Fprintf(&b, " [%s]", e.Subject)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// Info is the classification of a single certificate.
type Info struct {
	Cert         *x509.Certificate
	Fingerprint  Fingerprint
	Subject      string
	Issuer       string
	IsCA         bool
	IsSelfSigned bool
}

// Classify computes the fingerprint, identity strings, CA flag and self-signed
// flag of cert.
//
// A BasicConstraints extension that cannot be parsed yields IsCA == false and a
// *ParseError; the returned Info is still complete and usable.
func Classify(cert *x509.Certificate) (Info, error) {
	info := Info{
		Cert:        cert,
		Fingerprint: FingerprintOf(cert.Raw),
		Subject:     IdentityString(cert.Subject),
		Issuer:      IdentityString(cert.Issuer),
	}
	info.IsSelfSigned = IsSelfSigned(cert)

	isCA, err := IsCA(cert)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Fingerprint = info.Fingerprint
			pe.Subject = info.Subject
		}
		return info, err
	}
	info.IsCA = isCA

	return info, nil
}

// IdentityString renders name as "C=..,ST=..,L=..,O=..,OU=..,CN=..,emailAddress=..,serialNumber=..",
// keeping only the attributes present, in that fixed order.
//
// The string is a heuristic: when an attribute repeats (for example two OU
// values) only the last one survives, so distinct names can collapse. It is used
// to guess self-signed-ness and for display, never as an identity key.
func IdentityString(name pkix.Name) string {
	// Names is only populated for parsed names; hand-built ones go through ToRDNSequence.
	atvs := name.Names
	if len(atvs) == 0 {
		for _, rdn := range name.ToRDNSequence() {
			atvs = append(atvs, rdn...)
		}
	}

	values := make(map[string]string, len(identityAttributes))
	for _, atv := range atvs {
		for _, attr := range identityAttributes {
			if atv.Type.Equal(attr.oid) {
				values[attr.key] = fmt.Sprint(atv.Value)
				break
			}
		}
	}

	parts := make([]string, 0, len(values))
	for _, attr := range identityAttributes {
		if v, ok := values[attr.key]; ok {
			parts = append(parts, attr.key+"="+v)
		}
	}
	return strings.Join(parts, ",")
}

// IsSelfSigned reports whether the subject and issuer identity strings of cert coincide.
// No signature is checked.
func IsSelfSigned(cert *x509.Certificate) bool {
	return IdentityString(cert.Subject) == IdentityString(cert.Issuer)
}

// IsCA reports whether cert carries a BasicConstraints extension asserting cA=TRUE.
//
// The decision is deny-by-default: a missing extension gives false, and a
// malformed one gives false together with a *ParseError wrapping
// [ErrMalformedBasicConstraints].
func IsCA(cert *x509.Certificate) (bool, error) {
	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(oidBasicConstraints) {
			continue
		}

		isCA, err := parseBasicConstraints(ext.Value)
		if err != nil {
			return false, &ParseError{Index: -1, Err: err}
		}
		return isCA, nil
	}
	return false, nil
}

// parseBasicConstraints decodes
//
//	BasicConstraints ::= SEQUENCE {
//	     cA                      BOOLEAN DEFAULT FALSE,
//	     pathLenConstraint       INTEGER (0..MAX) OPTIONAL }
func parseBasicConstraints(der []byte) (bool, error) {
	input := cryptobyte.String(der)

	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return false, ErrMalformedBasicConstraints
	}

	isCA := false
	if seq.PeekASN1Tag(cbasn1.BOOLEAN) {
		if !seq.ReadASN1Boolean(&isCA) {
			return false, ErrMalformedBasicConstraints
		}
	}

	if seq.PeekASN1Tag(cbasn1.INTEGER) {
		var pathLen int64
		if !seq.ReadASN1Integer(&pathLen) || pathLen < 0 {
			return false, ErrMalformedBasicConstraints
		}
	}

	if !seq.Empty() {
		return false, ErrMalformedBasicConstraints
	}

	return isCA, nil
}
