// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, output string) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "failed to parse JSON line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestCLILogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Printf("retrieved %d certificates", 3)

				assert.Equal(t, "retrieved 3 certificates\n", buf.String())
			},
		},
		{
			name: "Println",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Println("bundle", "updated")

				assert.Equal(t, "bundle updated\n", buf.String())
			},
		},
		{
			name: "Status helpers",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				logger.Infof(log, "added %d", 2)
				logger.Warnf(log, "skipping block %d", 7)

				assert.Equal(t, "[INFO] added 2\n[WARN] skipping block 7\n", buf.String())
			},
		},
		{
			name: "SetOutput",
			testFunc: func(t *testing.T) {
				var buf1, buf2 bytes.Buffer
				log := logger.NewCLILogger()

				log.SetOutput(&buf1)
				log.Println("first")

				log.SetOutput(&buf2)
				log.Println("second")

				assert.Contains(t, buf1.String(), "first")
				assert.Contains(t, buf2.String(), "second")
				assert.NotContains(t, buf1.String(), "second")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestMCPLogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Silent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewMCPLogger(&buf, true)

				log.Printf("test message: %s", "hello")
				log.Println("another message")
				logger.Warnf(log, "warning")

				assert.Equal(t, 0, buf.Len(), "expected no output in silent mode")
			},
		},
		{
			name: "Printf_JSON",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewMCPLogger(&buf, false)

				log.Printf("test message: %s", "hello")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "info", entries[0]["level"])
				assert.Equal(t, "test message: hello", entries[0]["message"])

				stamp, ok := entries[0]["time"].(string)
				require.True(t, ok)
				_, err := time.Parse(time.RFC3339, stamp)
				assert.NoError(t, err)
			},
		},
		{
			name: "Level from status prefix",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewMCPLogger(&buf, false)

				logger.Infof(log, "retrieved %d certificates", 3)
				logger.Warnf(log, "skipping unparsable block at index %d", 4)

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 2)
				assert.Equal(t, "info", entries[0]["level"])
				assert.Equal(t, "retrieved 3 certificates", entries[0]["message"])
				assert.Equal(t, "warn", entries[1]["level"])
				assert.Equal(t, "skipping unparsable block at index 4", entries[1]["message"])
			},
		},
		{
			name: "JSON escaping",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewMCPLogger(&buf, false)

				log.Printf("%s", "CN=\"quoted\"\tO=tab\nnext")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "CN=\"quoted\"\tO=tab\nnext", entries[0]["message"])
			},
		},
		{
			name: "SetOutput_Nil",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewMCPLogger(&buf, false)

				log.Println("before")
				log.SetOutput(nil)
				log.Println("after")

				assert.Contains(t, buf.String(), "before")
				assert.NotContains(t, buf.String(), "after")
			},
		},
		{
			name: "NilWriter",
			testFunc: func(t *testing.T) {
				log := logger.NewMCPLogger(nil, false)
				assert.NotPanics(t, func() {
					log.Printf("test")
					log.Println("test")
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestMCPLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewMCPLogger(&buf, false)

	const numGoroutines = 50
	const messagesPerGoroutine = 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			for j := range messagesPerGoroutine {
				log.Printf("goroutine %d message %d", id, j)
			}
		}(i)
	}
	wg.Wait()

	entries := decodeLines(t, buf.String())
	assert.Len(t, entries, numGoroutines*messagesPerGoroutine)
}
