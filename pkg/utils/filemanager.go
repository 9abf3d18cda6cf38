// =============================================================================
// Record Converter - File Manager Utility
// =============================================================================
//
// This module provides the small set of file helpers the codecs and the
// dispatcher share:
//   - Extension lookup for format dispatch
//   - Existence and size checks
//   - Whole-file writes, optionally atomic
//
// ATOMIC WRITES:
//   With atomic writes enabled the data is written to a hidden temporary file
//   next to the target (".<name>.<uuid>.tmp") and renamed over the target
//   once it is fully written and closed. A failure at any point removes the
//   temporary file and leaves the previous target untouched.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// PATH HELPERS
// =============================================================================

// Extension returns the lower-cased extension of path without the dot.
// It returns "" when the file name has no extension.
func Extension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileExists reports whether path names an existing regular file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFile writes data to path, creating or truncating it.
//
// PARAMETERS:
//   - path: The destination file.
//   - data: The complete file content.
//   - atomic: Write through a temporary file and rename it into place. The
//     permission bits of an existing file at path are kept.
//
// RETURNS:
//   - An error if the file cannot be created, written or renamed.
func WriteFile(path string, data []byte, atomic bool) error {
	if !atomic {
		return os.WriteFile(path, data, 0644)
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, tempFileName(path))

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		if err := file.Chmod(info.Mode().Perm()); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return err
		}
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", tmpPath, err)
	}

	return nil
}

// tempFileName builds the hidden temporary name used for atomic writes.
func tempFileName(path string) string {
	return fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String())
}
