// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding, decoding, and classification of [X.509] certificates.
//
// Decoding supports [PEM], DER, and [PKCS7] input. Classification computes the
// SHA-256 fingerprint of the DER encoding (the only identity key used for
// deduplication), a heuristic identity string for subject and issuer, the
// self-signed flag derived from those strings, and a deny-by-default CA flag read
// from the BasicConstraints extension.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
