// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and provides two implementations: CLILogger for
// human-readable [INFO]/[WARN] status lines and MCPLogger for structured JSON logging
// in MCP server environments. MCPLogger formats through pooled buffers and is safe
// for concurrent use.
package logger
