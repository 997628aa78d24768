// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the TLS trust bundle merger.
// It implements a Cobra-based CLI that captures a certificate chain from a TLS
// endpoint (or reads one from a file), merges new CA certificates into a PEM trust
// bundle, and can print the classified chain as an ASCII tree, a markdown table,
// or a JSON report. Settings come from an optional config file, overridden by flags.
package cli
