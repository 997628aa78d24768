// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// trust-bundle-merger captures the certificate chain a TLS endpoint presents
// and appends its CA certificates to a PEM trust bundle.
//
// It is meant for hosts behind a traffic-intercepting proxy: the proxy's
// injected CA certificates become trusted by every tool that reads the
// bundle (for example a Python certifi cacert.pem or a system CA file).
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-trust-bundle-merger/cmd/trust-bundle-merger@latest
//
// # Usage
//
//	trust-bundle-merger --host HOST --bundle BUNDLE [FLAGS]
//	trust-bundle-merger --chain-file CHAIN --bundle BUNDLE [FLAGS]
//
// # Flags
//
//	-c, --config                    JSON or YAML config file (default: $TRUST_MERGER_CONFIG_FILE)
//	-H, --host                      TLS host to capture the chain from
//	-p, --port                      TLS port (default: 443)
//	    --timeout                   Dial and handshake timeout (default: 10s)
//	-b, --bundle                    PEM trust bundle to update [required]
//	    --include-self-signed-roots Also add self-signed roots (default: true)
//	-f, --chain-file                Read the chain from a PEM, DER or PKCS#7 file
//	    --dry-run                   Report what would be added without writing
//	    --tree                      Print the chain as an ASCII tree
//	    --table                     Print the chain as a markdown table
//	    --json                      Print a JSON report
//
// # Examples
//
// Trust whatever CA a corporate proxy injects for www.google.com:
//
//	trust-bundle-merger -H www.google.com -b "$(python -m certifi)"
//
// Preview the change and show the captured chain:
//
//	trust-bundle-merger -H www.google.com -b /etc/ssl/cert.pem --dry-run --tree
//
// The original bundle is kept as BUNDLE.YYYYMMDD_HHMMSS.bak next to the
// bundle. The exit status is 1 on failure and 130 when interrupted.
package main
