package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thorn-jmh/errorst"
)

// Suffix replaces ".go" in the name of an input file to name its output.
const Suffix = "_builder_gen.go"

// PathFor returns the default output path for input.
func PathFor(input string) string {
	return strings.TrimSuffix(input, ".go") + Suffix
}

// IsGenerated reports whether path looks like one of our outputs.
func IsGenerated(path string) bool {
	return strings.HasSuffix(path, Suffix)
}

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// WriteFile writes data to a temporary file next to targetPath and renames
// it into place, so readers never observe a partially written file.
func WriteFile(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmp, err := createTempFile(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return errorst.NewError("failed to create temp file for %s: %w", targetPath, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errorst.NewError("failed to write %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return errorst.NewError("failed to close %s: %w", tmpPath, err)
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return errorst.NewError("failed to chmod %s: %w", tmpPath, err)
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return errorst.NewError("failed to rename %s: %w", tmpPath, err)
	}
	return nil
}
