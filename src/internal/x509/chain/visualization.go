// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

// Annotations maps a certificate fingerprint to a short note, typically the
// merge decision taken for it. A nil map is valid.
type Annotations map[x509certs.Fingerprint]string

func (a Annotations) lookup(fp x509certs.Fingerprint) string {
	if a == nil {
		return ""
	}
	return a[fp]
}

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// Each line shows whether the certificate is a CA, its common name (or full
// identity string when it has none), its role, the fingerprint prefix, and the
// annotation recorded for it, if any.
func (ch *Chain) RenderASCIITree(notes Annotations) string {
	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	infos, _ := ch.Classify()

	var result strings.Builder
	for i, info := range infos {
		connector := "├── "
		if i == len(infos)-1 {
			connector = "└── "
		}

		statusIcon := "·"
		if info.IsCA {
			statusIcon = "CA"
		}

		line := fmt.Sprintf("[%s] %s (%s) fp=%s", statusIcon, displayName(info), ch.getCertificateRole(i, info), info.Fingerprint.Short())
		if note := notes.lookup(info.Fingerprint); note != "" {
			line += " → " + note
		}

		result.WriteString(connector + line + "\n")
	}

	return result.String()
}

// RenderTable renders the certificate chain as a markdown table.
//
// Columns are position, role, subject, issuer, fingerprint prefix, CA flag,
// self-signed flag, expiry, key size, and annotation.
func (ch *Chain) RenderTable(notes Annotations) string {
	if len(ch.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"🔢 #", "🏷️ Role", "📛 Subject", "🏢 Issuer", "🔑 Fingerprint", "🏛️ CA", "🔁 Self-Signed", "📅 Valid Until", "🔐 Key Size", "📝 Decision"}
	table.Header(headers)

	infos, _ := ch.Classify()

	rows := make([][]string, 0, len(infos))
	for i, info := range infos {
		note := notes.lookup(info.Fingerprint)
		if note == "" {
			note = "-"
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.getCertificateRole(i, info),
			displayName(info),
			info.Cert.Issuer.CommonName,
			info.Fingerprint.Short(),
			yesNo(info.IsCA),
			yesNo(info.IsSelfSigned),
			info.Cert.NotAfter.Format("2006-01-02"),
			keySize(info.Cert),
			note,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// CertificateVizData is the JSON view of one chain certificate.
type CertificateVizData struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	CommonName         string    `json:"commonName"`
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	Fingerprint        string    `json:"fingerprint"`
	SerialNumber       string    `json:"serialNumber"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	IsCA               bool      `json:"isCA"`
	IsSelfSigned       bool      `json:"isSelfSigned"`
	Decision           string    `json:"decision,omitempty"`
	ParseError         string    `json:"parseError,omitempty"`
}

// RelationshipData links a certificate to the next one in the chain.
type RelationshipData struct {
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	Type      string `json:"type"`
}

// VisualizationData is the JSON view of a whole chain.
type VisualizationData struct {
	Timestamp     string               `json:"timestamp"`
	ChainLength   int                  `json:"chainLength"`
	Certificates  []CertificateVizData `json:"certificates"`
	Relationships []RelationshipData   `json:"relationships"`
}

// Visualization builds the structured view of the chain used by
// [Chain.ToVisualizationJSON].
func (ch *Chain) Visualization(notes Annotations) VisualizationData {
	infos, errs := ch.Classify()

	parseErrs := make(map[x509certs.Fingerprint]string, len(errs))
	for _, err := range errs {
		if pe, ok := err.(*x509certs.ParseError); ok {
			parseErrs[pe.Fingerprint] = pe.Err.Error()
		}
	}

	data := VisualizationData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChainLength:   len(infos),
		Certificates:  make([]CertificateVizData, len(infos)),
		Relationships: make([]RelationshipData, 0, len(infos)),
	}

	for i, info := range infos {
		size, algo := publicKeyDetails(info.Cert)
		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               ch.getCertificateRole(i, info),
			CommonName:         info.Cert.Subject.CommonName,
			Subject:            info.Subject,
			Issuer:             info.Issuer,
			Fingerprint:        string(info.Fingerprint),
			SerialNumber:       serialString(info.Cert),
			SignatureAlgorithm: info.Cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: algo,
			KeySize:            size,
			NotBefore:          info.Cert.NotBefore,
			NotAfter:           info.Cert.NotAfter,
			IsCA:               info.IsCA,
			IsSelfSigned:       info.IsSelfSigned,
			Decision:           notes.lookup(info.Fingerprint),
			ParseError:         parseErrs[info.Fingerprint],
		}
	}

	// Each certificate is expected to be signed by the next one.
	for i := 0; i < len(infos)-1; i++ {
		data.Relationships = append(data.Relationships, RelationshipData{
			FromIndex: i,
			ToIndex:   i + 1,
			Type:      "signed_by",
		})
	}

	return data
}

// ToVisualizationJSON converts the certificate chain to indented JSON.
func (ch *Chain) ToVisualizationJSON(notes Annotations) ([]byte, error) {
	return json.MarshalIndent(ch.Visualization(notes), "", "  ")
}

func displayName(info x509certs.Info) string {
	if cn := info.Cert.Subject.CommonName; cn != "" {
		return cn
	}
	if info.Subject != "" {
		return info.Subject
	}
	return "<empty subject>"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func serialString(cert *x509.Certificate) string {
	if cert.SerialNumber == nil {
		return ""
	}
	return cert.SerialNumber.String()
}

func publicKeyDetails(cert *x509.Certificate) (int, string) {
	switch pubKey := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return pubKey.Size() * 8, "RSA"
	case *ecdsa.PublicKey:
		return pubKey.Curve.Params().BitSize, "ECDSA"
	case ed25519.PublicKey:
		return 256, "Ed25519"
	default:
		return 0, "unknown"
	}
}

func keySize(cert *x509.Certificate) string {
	size, algo := publicKeyDetails(cert)
	if size == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d-bit %s", size, algo)
}
