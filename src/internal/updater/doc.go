// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package updater runs the capture, classify, merge, and write pipeline that
// brings a trust bundle up to date with the CA certificates a TLS endpoint
// (usually a traffic-intercepting proxy) presents.
//
// Progress is reported as [INFO] and [WARN] status lines through a
// [logger.Logger]. Every run returns a [Report] that can be rendered as text or JSON.
package updater
