// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// OpConnect marks a failure to open the TCP connection.
	OpConnect = "connect"
	// OpHandshake marks a failure during TLS negotiation.
	OpHandshake = "handshake"

	// DefaultPort is the port used when none is configured.
	DefaultPort = 443
	// DefaultTimeout bounds dialing plus handshaking when none is configured.
	DefaultTimeout = 10 * time.Second
)

// ErrNoPeerCertificates indicates a completed handshake in which the server sent no certificates.
var ErrNoPeerCertificates = errors.New("x509chain: no certificates received from server")

// ConnectivityError reports that a chain could not be captured from a TLS endpoint.
// It is returned before any file is touched and is never retried.
type ConnectivityError struct {
	// Op is [OpConnect] or [OpHandshake].
	Op string
	// Addr is the host:port that was dialed.
	Addr string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("x509chain: %s %s: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectivityError) Unwrap() error { return e.Err }

// Collector captures certificate chains from TLS endpoints without verifying
// them. It exists to record what a traffic-intercepting proxy presents, and
// must never be used to carry application data.
type Collector struct {
	timeout time.Duration
}

// NewInterceptingCollector returns a Collector whose handshakes skip peer
// verification. A non-positive timeout selects [DefaultTimeout].
func NewInterceptingCollector(timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Collector{timeout: timeout}
}

// Timeout returns the dial plus handshake budget of the collector.
func (c *Collector) Timeout() time.Duration { return c.timeout }

// Collect connects to host:port, performs a TLS handshake with SNI set to host,
// and returns the chain exactly as presented, leaf first.
//
// Failures are reported as *[ConnectivityError]. The connection is closed on
// every path; nothing is ever written to it.
func (c *Collector) Collect(ctx context.Context, host string, port int) (*Chain, error) {
	if port <= 0 {
		port = DefaultPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var dialer net.Dialer
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectivityError{Op: OpConnect, Addr: addr, Err: err}
	}

	// Capture only; the chain is inspected, not trusted.
	conn := tls.Client(rawConn, &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true, //nolint:gosec // chain capture only, never trusted
	})
	defer conn.Close()

	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, &ConnectivityError{Op: OpHandshake, Addr: addr, Err: err}
	}

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, &ConnectivityError{Op: OpHandshake, Addr: addr, Err: ErrNoPeerCertificates}
	}

	return New(peerCerts), nil
}
