// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509bundle

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/helper/posix"
)

// BackupTimeLayout is the timestamp format embedded in backup file names.
const BackupTimeLayout = "20060102_150405"

// createTemp creates the temporary file of step 2.
var createTemp = os.CreateTemp

// Writer replaces a bundle file in place after backing it up.
//
// Writer does not coordinate with other processes. Two writers racing on the
// same bundle each produce a complete file; the last replace wins.
type Writer struct {
	// Now returns the time used for backup names. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter returns a Writer using the local clock.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// BackupPath returns the backup name used for path at time t:
// "<path>.<YYYYMMDD_HHMMSS>.bak".
func BackupPath(path string, t time.Time) string {
	return path + "." + t.Format(BackupTimeLayout) + ".bak"
}

// Write backs up the file at path, then atomically replaces it with b.
//
// Steps:
//  1. copy path to [BackupPath], keeping its mode and modification time; an
//     existing file with that name is never overwritten
//  2. write b to a temporary file in the same directory and fsync it
//  3. rename the temporary file over path
//
// Any failure is an *[IOError]. If step 1 or 2 fails, path is untouched and
// the temporary file is removed. A backup made before a failure in step 2 or 3
// stays on disk and its path is returned with the error, even though nothing
// was added to path.
func (w *Writer) Write(path string, b *Bundle) (backupPath string, err error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &IOError{Op: OpRead, Path: path, Err: err}
	}

	backupPath = BackupPath(path, now())
	if err := copyFile(path, backupPath, info); err != nil {
		return "", &IOError{Op: OpBackup, Path: backupPath, Err: err}
	}

	tmpPath, err := writeTemp(path, b.Bytes(), info.Mode().Perm())
	if err != nil {
		return backupPath, &IOError{Op: OpWrite, Path: path, Err: err}
	}

	if err := posix.ReplaceFile(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return backupPath, &IOError{Op: OpReplace, Path: path, Err: err}
	}

	return backupPath, nil
}

// copyFile copies src to a new file dst with the mode and times of src.
// dst must not exist; a partially written dst is removed.
func copyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask; set the mode explicitly.
	if err = os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// writeTemp writes data to a new temporary file next to path and returns its name.
func writeTemp(path string, data []byte, perm os.FileMode) (name string, err error) {
	tmp, err := createTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name = tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", err
	}
	if err = tmp.Sync(); err != nil {
		return "", err
	}
	if err = tmp.Chmod(perm); err != nil {
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}

	return name, nil
}
