// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/testutil"
)

func TestWrite_TempFileFailureLeavesBundleUntouched(t *testing.T) {
	errDiskFull := errors.New("no space left on device")

	tests := []struct {
		name       string
		createTemp func(dir, pattern string) (*os.File, error)
		wantCause  bool
	}{
		{
			name: "Create fails",
			createTemp: func(string, string) (*os.File, error) {
				return nil, errDiskFull
			},
			wantCause: true,
		},
		{
			name: "Write fails after create",
			createTemp: func(dir, pattern string) (*os.File, error) {
				f, err := os.CreateTemp(dir, pattern)
				if err != nil {
					return nil, err
				}
				// A closed file makes the following Write fail.
				require.NoError(t, f.Close())
				return f, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := createTemp
			t.Cleanup(func() { createTemp = orig })
			createTemp = tt.createTemp

			fixture := testutil.NewChain(t, "tmpfail")
			dir := t.TempDir()
			path := testutil.WriteBundle(t, dir, "cacert.pem", testutil.PEM(fixture.Root.Cert))

			old := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local)
			require.NoError(t, os.Chtimes(path, old, old))
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			b, warnings := Parse(string(before))
			require.Empty(t, warnings)
			b.Append(fixture.Intermediate.Cert)

			w := &Writer{Now: func() time.Time { return old }}
			backupPath, err := w.Write(path, b)

			var ioErr *IOError
			require.ErrorAs(t, err, &ioErr)
			assert.Equal(t, OpWrite, ioErr.Op)
			if tt.wantCause {
				assert.ErrorIs(t, err, errDiskFull)
			}

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after, "bundle must be untouched")

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(old), "bundle mtime must be untouched")

			// The backup made in step 1 is kept and reported.
			assert.Equal(t, BackupPath(path, old), backupPath)
			backup, err := os.ReadFile(backupPath)
			require.NoError(t, err)
			assert.Equal(t, before, backup)

			matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
			require.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}
