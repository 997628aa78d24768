// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ReplaceFile atomically moves src over dst.
//
// Both paths must live on the same filesystem; callers guarantee this by creating
// src in filepath.Dir(dst). On POSIX systems this is a single rename(2), so a
// concurrent reader of dst observes either the old or the new content, never a mix.
// After the rename the parent directory is synced so the new directory entry
// survives a crash.
//
// Parameters:
//   - src: Fully written and closed temporary file
//   - dst: File to replace
//
// Returns:
//   - error: Rename failure (dst is untouched in that case)
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return err
	}
	// The rename already happened; a failed directory sync only weakens durability.
	_ = SyncDir(filepath.Dir(dst))
	return nil
}

// SyncDir flushes directory metadata for dir.
// It is a no-op on Windows, where directories cannot be opened for sync.
func SyncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open directory %s: %w", dir, err)
	}
	defer d.Close()

	return d.Sync()
}
