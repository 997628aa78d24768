// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/config"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/version"
)

const serverName = "TLS Trust Bundle Merger"

var appVersion = version.Version // default version

// GetVersion returns the version the server reports to clients.
// It is the package default until [Run] sets it.
func GetVersion() string {
	return appVersion
}

// Run serves MCP on stdin and stdout until the input ends or the process
// receives SIGINT or SIGTERM. A signal-triggered shutdown returns nil.
func Run(version string) error {
	appVersion = version

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closer := newLogger(cfg)
	defer closer.Close()

	s, err := newServer(cfg, log, version)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof(log, "%s MCP server %s started.", serverName, version)

	stdioServer := server.NewStdioServer(s)
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Infof(log, "%s MCP server stopped.", serverName)
	return nil
}

// newLogger returns a rotating file logger when cfg names a log file and a
// silent logger otherwise. The closer releases the file.
func newLogger(cfg *config.Config) (*logger.MCPLogger, io.Closer) {
	if cfg.Log.File == "" {
		return logger.NewMCPLogger(nil, true), nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB, // megabytes
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   true,
	}
	return logger.NewMCPLogger(lj, false), lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newServer registers the tools and resources on a fresh MCP server.
func newServer(cfg *config.Config, log logger.Logger, version string) (*server.MCPServer, error) {
	h := &toolHandlers{cfg: cfg, log: log}
	tools := createTools(h)

	instructions, err := loadInstructions(templates.MagicEmbed, version, cfg, tools)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(instructions),
	)

	s.AddTools(tools...)
	for _, r := range createResources(version) {
		s.AddResource(r.Resource, r.Handler)
	}

	return s, nil
}
