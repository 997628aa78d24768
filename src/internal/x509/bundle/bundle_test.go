// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509bundle_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/testutil"
	x509bundle "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/bundle"
	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

// brokenBlock has valid markers around content that is not a certificate.
const brokenBlock = "-----BEGIN CERTIFICATE-----\nbm90IGEgY2VydGlmaWNhdGU=\n-----END CERTIFICATE-----\n"

func TestParse(t *testing.T) {
	fixture := testutil.NewChain(t, "parse")
	inter := testutil.PEM(fixture.Intermediate.Cert)
	root := testutil.PEM(fixture.Root.Cert)

	tests := []struct {
		name     string
		text     string
		testFunc func(t *testing.T, b *x509bundle.Bundle, warnings []error)
	}{
		{
			name: "Empty input",
			text: "",
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				assert.Equal(t, 0, b.Len())
				assert.Empty(t, warnings)
				assert.Empty(t, b.Bytes())
			},
		},
		{
			name: "Comments and whitespace are not blocks",
			text: "# Intercept Root\n\n  " + strings.TrimSpace(root) + "  \n\n# Intermediate\n" + inter + "trailing text\n",
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				require.Equal(t, 2, b.Len())
				assert.Empty(t, warnings)
				assert.Equal(t, root, b.Blocks[0])
				assert.Equal(t, inter, b.Blocks[1])
				assert.Equal(t, root+inter, string(b.Bytes()))
			},
		},
		{
			name: "CRLF line endings are trimmed at the edges only",
			text: strings.ReplaceAll(root, "\n", "\r\n"),
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				require.Equal(t, 1, b.Len())
				assert.Empty(t, warnings)
				assert.True(t, strings.HasSuffix(b.Blocks[0], "-----END CERTIFICATE-----\n"))

				idx, ok := b.Lookup(x509certs.FingerprintOf(fixture.Root.Cert.Raw))
				assert.True(t, ok)
				assert.Equal(t, 0, idx)
			},
		},
		{
			name: "Unterminated block ends the scan",
			text: root + "-----BEGIN CERTIFICATE-----\nMIIB\n" + inter,
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				// The dangling BEGIN swallows everything up to the next END marker.
				require.Equal(t, 2, b.Len())
				assert.Equal(t, root, b.Blocks[0])
				assert.True(t, strings.HasPrefix(b.Blocks[1], "-----BEGIN CERTIFICATE-----\nMIIB\n"))
				assert.True(t, strings.HasSuffix(b.Blocks[1], strings.TrimSpace(inter)+"\n"))
			},
		},
		{
			name: "Dangling BEGIN at end of file",
			text: root + "-----BEGIN CERTIFICATE-----\nMIIB\n",
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				require.Equal(t, 1, b.Len())
				assert.Empty(t, warnings)
			},
		},
		{
			name: "Unparsable block is kept but not indexed",
			text: root + brokenBlock + inter,
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				require.Equal(t, 3, b.Len())
				assert.Equal(t, brokenBlock, b.Blocks[1])
				assert.Nil(t, b.Certificate(1))
				assert.NotNil(t, b.Certificate(2))

				require.Len(t, warnings, 1)
				var pe *x509certs.ParseError
				require.True(t, errors.As(warnings[0], &pe))
				assert.Equal(t, 1, pe.Index)

				idx, ok := b.Lookup(x509certs.FingerprintOf(fixture.Intermediate.Cert.Raw))
				assert.True(t, ok)
				assert.Equal(t, 2, idx)
			},
		},
		{
			name: "First occurrence wins",
			text: inter + root + inter,
			testFunc: func(t *testing.T, b *x509bundle.Bundle, warnings []error) {
				require.Equal(t, 3, b.Len())
				idx, ok := b.Lookup(x509certs.FingerprintOf(fixture.Intermediate.Cert.Raw))
				assert.True(t, ok)
				assert.Equal(t, 0, idx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, warnings := x509bundle.Parse(tt.text)
			require.NotNil(t, b)
			tt.testFunc(t, b, warnings)
		})
	}
}

func TestLoad(t *testing.T) {
	fixture := testutil.NewChain(t, "load")
	dir := t.TempDir()

	t.Run("Existing bundle", func(t *testing.T) {
		path := testutil.WriteBundle(t, dir, "cacert.pem", testutil.PEM(fixture.Root.Cert), brokenBlock)

		b, warnings, err := x509bundle.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Len())
		assert.Len(t, warnings, 1)
	})

	t.Run("Missing bundle", func(t *testing.T) {
		path := filepath.Join(dir, "missing.pem")

		b, _, err := x509bundle.Load(path)
		require.Error(t, err)
		assert.Nil(t, b)

		var ioErr *x509bundle.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, x509bundle.OpRead, ioErr.Op)
		assert.Equal(t, path, ioErr.Path)
		assert.True(t, x509bundle.IsNotExist(err))
	})
}

func TestSummarize(t *testing.T) {
	fixture := testutil.NewChain(t, "summary")

	b, _ := x509bundle.Parse(strings.Join([]string{
		testutil.PEM(fixture.Root.Cert),
		testutil.PEM(fixture.Intermediate.Cert),
		testutil.PEM(fixture.Leaf.Cert),
		testutil.PEM(fixture.Root.Cert),
		brokenBlock,
	}, ""))

	assert.Equal(t, x509bundle.Summary{
		Total:      5,
		Parsable:   4,
		Unparsable: 1,
		Unique:     3,
		CA:         3,
		SelfSigned: 2,
	}, b.Summarize())
}

func TestClone_IsIndependent(t *testing.T) {
	fixture := testutil.NewChain(t, "clone")

	original, _ := x509bundle.Parse(testutil.PEM(fixture.Root.Cert))
	clone := original.Clone()
	clone.Append(fixture.Intermediate.Cert)

	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, clone.Len())

	_, ok := original.Lookup(x509certs.FingerprintOf(fixture.Intermediate.Cert.Raw))
	assert.False(t, ok)
	_, ok = clone.Lookup(x509certs.FingerprintOf(fixture.Intermediate.Cert.Raw))
	assert.True(t, ok)
}
