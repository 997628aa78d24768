// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix holds small OS-facing helpers shared by the binaries and the bundle writer.
//
//   - [GetExecutableName] and [ExecutableName] give cobra the program name as invoked
//     ("/usr/bin/merger" and "C:\bin\merger.exe" both become "merger").
//   - [ReplaceFile] renames a finished temporary file over its target and syncs the
//     directory, so readers see either the old bundle or the new one.
//   - [SyncDir] flushes directory metadata after a rename on [POSIX] systems; it is a
//     no-op where directories cannot be opened for sync.
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
