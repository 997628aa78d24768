// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/config"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/updater"
	x509bundle "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/bundle"
	x509chain "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
)

// Output formats accepted by the tools.
const (
	formatTree  = "tree"
	formatTable = "table"
	formatJSON  = "json"
	formatText  = "text"
)

// toolHandlers carries what every tool call needs.
type toolHandlers struct {
	cfg *config.Config
	log logger.Logger
}

// handleInspectRemoteChain captures a chain and renders it without touching any bundle.
func (h *toolHandlers) handleInspectRemoteChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := request.RequireString("host")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("host parameter required: %v", err)), nil
	}
	port := request.GetInt("port", h.cfg.Target.Port)
	format := request.GetString("format", formatTree)

	logger.Infof(h.log, "Inspecting certificate chain of %s:%d", host, port)

	chain, err := x509chain.NewInterceptingCollector(h.cfg.Timeout()).Collect(ctx, host, port)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to capture certificate chain: %v", err)), nil
	}

	switch format {
	case formatTable:
		return mcp.NewToolResultText(chain.RenderTable(nil)), nil
	case formatJSON:
		data, err := chain.ToVisualizationJSON(nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode chain: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	default:
		return mcp.NewToolResultText(chain.RenderASCIITree(nil)), nil
	}
}

// handleMergeTrustBundle runs one merge.
//
// Failures are reported as tool errors rather than protocol errors so the
// client sees which step failed.
func (h *toolHandlers) handleMergeTrustBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := updater.Options{
		Host:       request.GetString("host", ""),
		Port:       request.GetInt("port", h.cfg.Target.Port),
		ChainFile:  request.GetString("chain_file", ""),
		BundlePath: request.GetString("bundle", h.cfg.Bundle.Path),
		Policy: x509bundle.Policy{
			IncludeSelfSignedRoots: request.GetBool("include_self_signed_roots", h.cfg.Bundle.IncludeSelfSignedRoots),
		},
		DryRun: request.GetBool("dry_run", false),
	}
	format := request.GetString("format", formatText)

	report, err := updater.New(h.log, h.cfg.Timeout()).Run(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to merge trust bundle: %v", err)), nil
	}

	if format == formatJSON {
		data, err := report.JSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	return mcp.NewToolResultText(report.String() + "\n" + report.Chain.RenderASCIITree(report.Annotations())), nil
}

// bundleSummary is the JSON answer of summarize_trust_bundle.
type bundleSummary struct {
	Path     string   `json:"path"`
	Warnings []string `json:"warnings,omitempty"`
	x509bundle.Summary
}

// handleSummarizeTrustBundle loads a bundle and counts its blocks.
func (h *toolHandlers) handleSummarizeTrustBundle(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("bundle", h.cfg.Bundle.Path)
	if path == "" {
		return mcp.NewToolResultError("bundle parameter required: no bundle configured"), nil
	}

	bundle, warnings, err := x509bundle.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load trust bundle: %v", err)), nil
	}

	out := bundleSummary{Path: path, Summary: bundle.Summarize()}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
