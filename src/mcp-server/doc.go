// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the trust bundle merger as an [MCP] server over stdio.
//
// Tools:
//   - inspect_remote_chain: capture and render the chain an endpoint presents
//   - merge_trust_bundle: merge the chain's CA certificates into a bundle
//   - summarize_trust_bundle: count the blocks of a bundle by kind
//
// Settings come from the file named by the TRUST_MERGER_CONFIG_FILE
// environment variable. When log.file is set, structured logs are written
// there and rotated; otherwise the server logs nothing, since stdout carries
// the protocol.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
