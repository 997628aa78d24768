// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs_test

import (
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/testutil"
	x509certs "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/certs"
)

// Test certificate from www.google.com (valid until February 16, 2026)
const testCertPEM = `
-----BEGIN CERTIFICATE-----
MIIEVzCCAz+gAwIBAgIRAIsnDh7AqstVCQTDZO49FUQwDQYJKoZIhvcNAQELBQAw
OzELMAkGA1UEBhMCVVMxHjAcBgNVBAoTFUdvb2dsZSBUcnVzdCBTZXJ2aWNlczEM
MAoGA1UEAxMDV1IyMB4XDTI1MTEyNDA4NDEwNVoXDTI2MDIxNjA4NDEwNFowGTEX
MBUGA1UEAxMOd3d3Lmdvb2dsZS5jb20wWTATBgcqhkjOPQIBBggqhkjOPQMBBwNC
AASpOrUKgQJxuBGxizx+kmyx5RrD4jQmo8qLKSuwJqGHq32bVzWZGD67H9R4OZrU
dvyPaKf5c8xcR0dfErljBgc9o4ICQTCCAj0wDgYDVR0PAQH/BAQDAgeAMBMGA1Ud
JQQMMAoGCCsGAQUFBwMBMAwGA1UdEwEB/wQCMAAwHQYDVR0OBBYEFB/jnLpRtZ7i
zZrj5pmoPbY4QlomMB8GA1UdIwQYMBaAFN4bHu15FdQ+NyTDIbvsNDltQrIwMFgG
CCsGAQUFBwEBBEwwSjAhBggrBgEFBQcwAYYVaHR0cDovL28ucGtpLmdvb2cvd3Iy
MCUGCCsGAQUFBzAChhlodHRwOi8vaS5wa2kuZ29vZy93cjIuY3J0MBkGA1UdEQQS
MBCCDnd3dy5nb29nbGUuY29tMBMGA1UdIAQMMAowCAYGZ4EMAQIBMDYGA1UdHwQv
MC0wK6ApoCeGJWh0dHA6Ly9jLnBraS5nb29nL3dyMi9HU3lUMU40UEJyZy5jcmww
ggEEBgorBgEEAdZ5AgQCBIH1BIHyAPAAdwCWl2S/VViXrfdDh2g3CEJ36fA61fak
8zZuRqQ/D8qpxgAAAZq1PQh6AAAEAwBIMEYCIQDkvhCgZXnoybm66RiqqWXZN6qE
VzPoPHn/kyXZ7Y55yAIhALTMfGlCgnC9W0iu+cR9qCmOwsEr5k6Bl7Ub2w7GCUIu
AHUASZybad4dfOz8Nt7Nh2SmuFuvCoeAGdFVUvvp6ynd+MMAAAGatT0IWAAABAMA
RjBEAiBQITcviDubQYQiIxBwjcgmkl4CH1x4RzykXJrp8cCLKwIgFpdUBEBwTjCw
wTjI3H2paYucltfUre6q/vBei3HhNqcwDQYJKoZIhvcNAQELBQADggEBAE+UAURG
T3JZxq6fjAK5Espfe49Wb0mz1kCTwNY56sbYP/Fa+Kb7kVluDIFbMN2rspADwKBu
FR7QVda3zEIu4Hj1DUmD7ecmVYCxLQ241OYdice4AfJTwDVJVymdQPFoLBP27dWK
3izwcfkPSgXIT8nHcEvDvXljn7n+n3XXuzh1Y1vFnFUa5E69JQFXXDuu/a7LiEXx
uB5j0Xga7DgFyHHHnz7zSiFr37NBb0/CH/31fkgaQPj7Fr5dyCMzMg1rQe1FGOM6
fXT8WHASUpqRebQfDy2TPE7sjve2NenS36NeiiVZXhBo5MHvGCBY3W8OYljK4zeU
uugY3q/5At03UHw=
-----END CERTIFICATE-----
`

const (
	invalidPEM = `
-----BEGIN INVALID-----
MIIEmTCCBD+gAwIBAgIRANFjRCmF+Y2bUYHbhxwkEpowCgYIKoZIzj0EAwIwgY8x
-----END INVALID-----
`

	invalidCERT = `
-----BEGIN CERTIFICATE-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAz6e5VV5F8rF2sFJ0Q4vA
-----END CERTIFICATE-----
`
)

func parseFixture(t *testing.T) *x509.Certificate {
	t.Helper()

	block, _ := pem.Decode([]byte(testCertPEM))
	require.NotNil(t, block, "failed to parse certificate PEM for test setup")

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err, "failed to parse test certificate")
	return cert
}

func TestEncodePEM(t *testing.T) {
	cert := parseFixture(t)

	encoded := x509certs.EncodePEM(cert)
	require.NotEmpty(t, encoded)
	assert.True(t, strings.HasSuffix(encoded, "-----END CERTIFICATE-----\n"))
	assert.False(t, strings.HasSuffix(encoded, "\n\n"))

	block, rest := pem.Decode([]byte(encoded))
	require.NotNil(t, block)
	assert.Empty(t, rest)
	assert.Equal(t, x509certs.BlockType, block.Type)
	assert.Equal(t, cert.Raw, block.Bytes)

	// Fixture text, trimmed and terminated the way bundle blocks are.
	assert.Equal(t, strings.TrimSpace(testCertPEM)+"\n", encoded)
}

func TestDecodeChain(t *testing.T) {
	chain := testutil.NewChain(t, "decode")

	var der []byte
	for _, c := range chain.Certs() {
		der = append(der, c.Raw...)
	}

	tests := []struct {
		name        string
		input       []byte
		expectCount int
		expectError error
		testFunc    func(t *testing.T, err error)
	}{
		{
			name:        "Single PEM Certificate",
			input:       []byte(testCertPEM),
			expectCount: 1,
		},
		{
			name:        "PEM Chain",
			input:       x509certs.EncodeChainPEM(chain.Certs()),
			expectCount: 3,
		},
		{
			name:        "PEM Chain With Commentary",
			input:       []byte("# leaf\n" + x509certs.EncodePEM(chain.Leaf.Cert) + "# issuer\n" + x509certs.EncodePEM(chain.Intermediate.Cert)),
			expectCount: 2,
		},
		{
			name:        "Concatenated DER Chain",
			input:       der,
			expectCount: 3,
		},
		{
			name:        "Invalid PEM Type",
			input:       []byte(x509certs.EncodePEM(chain.Leaf.Cert) + invalidPEM),
			expectError: x509certs.ErrInvalidBlockType,
			testFunc: func(t *testing.T, err error) {
				var parseErr *x509certs.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 1, parseErr.Index)
			},
		},
		{
			name:        "Invalid Certificate Data",
			input:       []byte(invalidCERT),
			expectError: x509certs.ErrParseCertificate,
			testFunc: func(t *testing.T, err error) {
				var parseErr *x509certs.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 0, parseErr.Index)
				assert.NotEmpty(t, parseErr.Fingerprint)
			},
		},
		{
			name:        "Garbage Binary",
			input:       []byte{0x01, 0x02, 0x03},
			expectError: x509certs.ErrParseCertificate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certs, err := x509certs.DecodeChain(tt.input)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, certs)
				if tt.testFunc != nil {
					tt.testFunc(t, err)
				}
				return
			}

			require.NoError(t, err)
			assert.Len(t, certs, tt.expectCount)
		})
	}
}

func TestDecodeChain_PreservesOrder(t *testing.T) {
	chain := testutil.NewChain(t, "order")

	certs, err := x509certs.DecodeChain(x509certs.EncodeChainPEM(chain.Certs()))
	require.NoError(t, err)
	require.Len(t, certs, 3)

	assert.True(t, chain.Leaf.Cert.Equal(certs[0]))
	assert.True(t, chain.Intermediate.Cert.Equal(certs[1]))
	assert.True(t, chain.Root.Cert.Equal(certs[2]))
}
