// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/cli"
	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
	verpkg "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/version"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = verpkg.Version
	}
}

func main() {
	log := logger.NewCLILogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- cli.Execute(ctx, version, log)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Trust bundle update failed: %v", err)
			os.Exit(1)
		}
		if cli.OperationPerformed {
			log.Println("Trust bundle update completed successfully.")
		}
	case <-ctx.Done():
		log.Println("Operation cancelled by signal. Exiting...")
		// The context is checked once before the write starts. A write cut short
		// here may leave a backup or temporary file, but the rename keeps the
		// bundle whole.
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		os.Exit(130) // Standard exit code for SIGINT
	}

	if cli.OperationPerformedSuccessfully {
		log.Println("Trust bundle merger finished.")
	}
}
