// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads trust-bundle-merger settings from JSON or YAML files.
//
// Every document is validated against an embedded JSON Schema before it is
// applied, so misspelled keys and out-of-range ports are rejected instead of
// silently ignored.
//
// Example (YAML):
//
//	target:
//	  host: www.example.com
//	  port: 443
//	  timeoutSeconds: 10
//	bundle:
//	  path: /etc/ssl/certs/cacert.pem
//	  includeSelfSignedRoots: true
//	log:
//	  file: /var/log/trust-bundle-merger.log
package config
