// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"text/template"

	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/config"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/mcp-server/templates"
)

// toolInfo is a tool as listed in the instructions.
type toolInfo struct {
	Name        string
	Description string
}

// instructionsData feeds the instructions template.
type instructionsData struct {
	Version       string
	Tools         []toolInfo
	Inspect       string
	Merge         string
	Summarize     string
	DefaultBundle string
}

// loadInstructions renders the instructions template for tools.
func loadInstructions(fsys templates.EmbedFS, version string, cfg *config.Config, tools []server.ServerTool) (string, error) {
	templateBytes, err := fsys.ReadFile(templates.InstructionsFile)
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	tmpl, err := template.New("instructions").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse MCP server instructions template: %w", err)
	}

	data := instructionsData{
		Version:       version,
		Inspect:       toolInspectRemoteChain,
		Merge:         toolMergeTrustBundle,
		Summarize:     toolSummarizeTrustBundle,
		DefaultBundle: cfg.Bundle.Path,
	}
	for _, t := range tools {
		data.Tools = append(data.Tools, toolInfo{Name: t.Tool.Name, Description: t.Tool.Description})
	}

	buf := gc.Default.Get()
	defer gc.Release(gc.Default, buf)

	if err := tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to execute MCP server instructions template: %w", err)
	}
	return buf.String(), nil
}
