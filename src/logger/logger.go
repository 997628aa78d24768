// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/gc"
)

// Status line prefixes understood by every Logger implementation.
const (
	// InfoPrefix marks progress and result lines.
	InfoPrefix = "[INFO] "
	// WarnPrefix marks recoverable problems such as an unparsable bundle block.
	WarnPrefix = "[WARN] "
)

// Logger is where a merge run reports its progress.
//
// The CLI prints plain status lines for a person; the [MCP] server writes JSON
// lines to a file, or nothing, because stdout carries the protocol.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	Printf(format string, v ...any)
	Println(v ...any)
	// SetOutput redirects subsequent lines to w.
	SetOutput(w io.Writer)
}

// Infof logs an [InfoPrefix] status line.
func Infof(l Logger, format string, v ...any) { l.Printf(InfoPrefix+format, v...) }

// Warnf logs a [WarnPrefix] status line.
func Warnf(l Logger, format string, v ...any) { l.Printf(WarnPrefix+format, v...) }

// CLILogger prints status lines verbatim, one per call, without timestamps.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger returns a CLILogger writing to standard output.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stdout, "", 0)}
}

func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger writes each status line as a JSON object:
//
//	{"level":"warn","message":"...","time":"2026-01-02T15:04:05Z"}
//
// Lines carrying [WarnPrefix] get level "warn", all others "info"; the prefix
// is stripped from the message. A silent MCPLogger drops everything.
// MCPLogger is safe for concurrent use.
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
	now    func() time.Time
}

// NewMCPLogger returns an MCPLogger writing to writer (discarded when nil).
// Pass silent=true when no destination other than the protocol stream exists.
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{writer: writer, silent: silent, now: time.Now}
}

func (m *MCPLogger) Printf(format string, v ...any) {
	if !m.silent {
		m.write(fmt.Sprintf(format, v...))
	}
}

func (m *MCPLogger) Println(v ...any) {
	if !m.silent {
		m.write(fmt.Sprint(v...))
	}
}

// write encodes one JSON line through a pooled buffer and flushes it under the lock.
func (m *MCPLogger) write(msg string) {
	level := "info"
	if rest, ok := strings.CutPrefix(msg, WarnPrefix); ok {
		level, msg = "warn", rest
	} else {
		msg = strings.TrimPrefix(msg, InfoPrefix)
	}

	buf := gc.Default.Get()
	defer gc.Release(gc.Default, buf)

	// json.Encoder appends the trailing newline.
	if err := json.NewEncoder(buf).Encode(map[string]string{
		"level":   level,
		"message": msg,
		"time":    m.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = buf.WriteTo(m.writer)
}

func (m *MCPLogger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}

	m.mu.Lock()
	m.writer = w
	m.mu.Unlock()
}
