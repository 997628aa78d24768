// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	toolInspectRemoteChain   = "inspect_remote_chain"
	toolMergeTrustBundle     = "merge_trust_bundle"
	toolSummarizeTrustBundle = "summarize_trust_bundle"
)

// createTools defines every tool and binds it to h.
// Defaults shown to clients come from the loaded configuration.
func createTools(h *toolHandlers) []server.ServerTool {
	cfg := h.cfg

	return []server.ServerTool{
		{
			Tool: mcp.NewTool(toolInspectRemoteChain,
				mcp.WithDescription("Capture the certificate chain a TLS endpoint presents, without verifying it, and render it"),
				mcp.WithString("host",
					mcp.Required(),
					mcp.Description("Hostname to connect to"),
				),
				mcp.WithNumber("port",
					mcp.Description("TLS port"),
					mcp.DefaultNumber(float64(cfg.Target.Port)),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'tree', 'table', or 'json' (default: tree)"),
					mcp.DefaultString(formatTree),
					mcp.Enum(formatTree, formatTable, formatJSON),
				),
			),
			Handler: h.handleInspectRemoteChain,
		},
		{
			Tool: mcp.NewTool(toolMergeTrustBundle,
				mcp.WithDescription("Append the CA certificates of a captured chain to a PEM trust bundle, with backup and atomic replace"),
				mcp.WithString("host",
					mcp.Description("Hostname to capture the chain from (required unless chain_file is given)"),
				),
				mcp.WithNumber("port",
					mcp.Description("TLS port"),
					mcp.DefaultNumber(float64(cfg.Target.Port)),
				),
				mcp.WithString("chain_file",
					mcp.Description("PEM, DER or PKCS#7 file holding the chain, leaf first; replaces the live capture"),
				),
				mcp.WithString("bundle",
					mcp.Description("Trust bundle path (default: configured bundle)"),
					mcp.DefaultString(cfg.Bundle.Path),
				),
				mcp.WithBoolean("include_self_signed_roots",
					mcp.Description("Also add self-signed root certificates"),
					mcp.DefaultBool(cfg.Bundle.IncludeSelfSignedRoots),
				),
				mcp.WithBoolean("dry_run",
					mcp.Description("Report the decisions without writing the bundle"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'text' or 'json' (default: text)"),
					mcp.DefaultString(formatText),
					mcp.Enum(formatText, formatJSON),
				),
			),
			Handler: h.handleMergeTrustBundle,
		},
		{
			Tool: mcp.NewTool(toolSummarizeTrustBundle,
				mcp.WithDescription("Count the certificate blocks of a PEM trust bundle by kind"),
				mcp.WithString("bundle",
					mcp.Description("Trust bundle path (default: configured bundle)"),
					mcp.DefaultString(cfg.Bundle.Path),
				),
			),
			Handler: h.handleSummarizeTrustBundle,
		},
	}
}
