// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509bundle

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cloudflare/cfssl/helpers"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

const (
	beginMarker = "-----BEGIN CERTIFICATE-----"
	endMarker   = "-----END CERTIFICATE-----"
)

const (
	// OpRead marks a failure to read the bundle.
	OpRead = "read"
	// OpBackup marks a failure to create the backup copy.
	OpBackup = "backup"
	// OpWrite marks a failure to write the temporary file.
	OpWrite = "write"
	// OpReplace marks a failure to move the temporary file over the bundle.
	OpReplace = "replace"
)

// IOError reports a failed file operation on a trust bundle. The original
// bundle is never left partially written when one is returned.
type IOError struct {
	// Op is one of [OpRead], [OpBackup], [OpWrite] or [OpReplace].
	Op string
	// Path is the file the operation was acting on.
	Path string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("x509bundle: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// Bundle is a trust bundle held as ordered, verbatim text blocks.
//
// Every block is one "BEGIN CERTIFICATE" to "END CERTIFICATE" span, trimmed and
// terminated by exactly one newline. Blocks that do not decode are kept as they
// are; they simply have no entry in the fingerprint index.
type Bundle struct {
	// Blocks holds the normalized PEM blocks in file order.
	Blocks []string

	certs []*x509.Certificate
	index map[x509certs.Fingerprint]int
}

// Parse splits text into certificate blocks and indexes every block that decodes.
//
// Text outside the markers is not part of any block. A BEGIN marker without a
// matching END ends the scan. The returned errors are *x509certs.ParseError
// values, one per block that could not be decoded; they are warnings, not failures.
func Parse(text string) (*Bundle, []error) {
	b := &Bundle{index: make(map[x509certs.Fingerprint]int)}
	var errs []error

	for _, block := range splitBlocks(text) {
		idx := len(b.Blocks)
		b.Blocks = append(b.Blocks, block)

		cert, err := helpers.ParseCertificatePEM([]byte(block))
		if err != nil {
			b.certs = append(b.certs, nil)
			errs = append(errs, &x509certs.ParseError{Index: idx, Err: err})
			continue
		}

		b.certs = append(b.certs, cert)
		fp := x509certs.FingerprintOf(cert.Raw)
		if _, seen := b.index[fp]; !seen {
			b.index[fp] = idx
		}
	}

	return b, errs
}

// splitBlocks extracts every certificate block of text, normalized to its
// trimmed content plus one trailing newline.
func splitBlocks(text string) []string {
	var blocks []string
	for {
		i := strings.Index(text, beginMarker)
		if i < 0 {
			break
		}
		j := strings.Index(text[i:], endMarker)
		if j < 0 {
			break
		}
		end := i + j + len(endMarker)
		blocks = append(blocks, strings.TrimSpace(text[i:end])+"\n")
		text = text[end:]
	}
	return blocks
}

// Load reads and parses the bundle at path.
//
// A failure to read the file is returned as an *[IOError] with Op [OpRead].
// Undecodable blocks are reported through warnings.
func Load(path string) (bundle *Bundle, warnings []error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &IOError{Op: OpRead, Path: path, Err: err}
	}
	defer f.Close()

	buf := gc.Default.Get()
	defer gc.Release(gc.Default, buf)

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, nil, &IOError{Op: OpRead, Path: path, Err: err}
	}

	bundle, warnings = Parse(buf.String())
	return bundle, warnings, nil
}

// Len returns the number of blocks, parsable or not.
func (b *Bundle) Len() int { return len(b.Blocks) }

// Lookup returns the index of the first block holding the certificate with fingerprint fp.
func (b *Bundle) Lookup(fp x509certs.Fingerprint) (int, bool) {
	idx, ok := b.index[fp]
	return idx, ok
}

// Certificate returns the decoded certificate of block i, or nil if the block
// did not decode or i is out of range.
func (b *Bundle) Certificate(i int) *x509.Certificate {
	if i < 0 || i >= len(b.certs) {
		return nil
	}
	return b.certs[i]
}

// Clone returns a deep copy of b that can be extended without affecting b.
func (b *Bundle) Clone() *Bundle {
	c := &Bundle{
		Blocks: append([]string(nil), b.Blocks...),
		certs:  append([]*x509.Certificate(nil), b.certs...),
		index:  make(map[x509certs.Fingerprint]int, len(b.index)),
	}
	for fp, idx := range b.index {
		c.index[fp] = idx
	}
	return c
}

// Append adds cert as a new PEM block after all existing blocks and indexes it.
func (b *Bundle) Append(cert *x509.Certificate) {
	if b.index == nil {
		b.index = make(map[x509certs.Fingerprint]int)
	}

	idx := len(b.Blocks)
	b.Blocks = append(b.Blocks, x509certs.EncodePEM(cert))
	b.certs = append(b.certs, cert)

	fp := x509certs.FingerprintOf(cert.Raw)
	if _, seen := b.index[fp]; !seen {
		b.index[fp] = idx
	}
}

// Bytes returns the serialized bundle: every block in order, each ending in
// exactly one newline.
func (b *Bundle) Bytes() []byte {
	return []byte(strings.Join(b.Blocks, ""))
}

// Summary describes the content of a bundle.
type Summary struct {
	Total      int `json:"total"`
	Parsable   int `json:"parsable"`
	Unparsable int `json:"unparsable"`
	Unique     int `json:"unique"`
	CA         int `json:"ca"`
	SelfSigned int `json:"selfSigned"`
}

// Summarize counts the blocks of b by kind.
func (b *Bundle) Summarize() Summary {
	s := Summary{Total: len(b.Blocks), Unique: len(b.index)}
	for _, cert := range b.certs {
		if cert == nil {
			s.Unparsable++
			continue
		}
		s.Parsable++

		info, err := x509certs.Classify(cert)
		if err == nil && info.IsCA {
			s.CA++
		}
		if info.IsSelfSigned {
			s.SelfSigned++
		}
	}
	return s
}

// IsNotExist reports whether err is an [IOError] caused by a missing file.
func IsNotExist(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr) && errors.Is(ioErr.Err, os.ErrNotExist)
}
