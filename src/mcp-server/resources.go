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
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/config"
)

// Resource URIs.
const (
	resourceConfigSchema = "config://schema"
	resourceVersion      = "info://version"
)

// resourceDefinition pairs a resource with its read handler.
type resourceDefinition struct {
	Resource mcp.Resource
	Handler  server.ResourceHandlerFunc
}

func createResources(version string) []resourceDefinition {
	return []resourceDefinition{
		{
			Resource: mcp.NewResource(resourceConfigSchema, "Configuration Schema",
				mcp.WithResourceDescription("JSON Schema of the configuration file named by "+config.EnvConfigFile),
				mcp.WithMIMEType("application/schema+json"),
			),
			Handler: handleConfigSchemaResource,
		},
		{
			Resource: mcp.NewResource(resourceVersion, "Server Version",
				mcp.WithResourceDescription("Server name, version and tools"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return handleVersionResource(ctx, request, version)
			},
		},
	}
}

func handleConfigSchemaResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      resourceConfigSchema,
			MIMEType: "application/schema+json",
			Text:     config.Schema(),
		},
	}, nil
}

func handleVersionResource(_ context.Context, _ mcp.ReadResourceRequest, version string) ([]mcp.ResourceContents, error) {
	info := map[string]any{
		"name":    serverName,
		"version": version,
		"tools":   []string{toolInspectRemoteChain, toolMergeTrustBundle, toolSummarizeTrustBundle},
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      resourceVersion,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
