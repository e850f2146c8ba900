package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxSuffix bounds the "name (N).ext" search in UniquePath
const MaxSuffix = 10000

// ErrResolutionExhausted is returned when every candidate up to MaxSuffix
// is already taken
var ErrResolutionExhausted = errors.New("no free destination name")

// ExistsFunc reports whether something occupies path
type ExistsFunc func(path string) bool

// Exists reports whether anything, including a dangling symlink, is at path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// UniquePath returns desired when it is free on disk, otherwise the first
// free "stem (N)ext" sibling starting at N=1.
func UniquePath(desired string) (string, error) {
	return UniquePathFunc(desired, Exists)
}

// UniquePathFunc is UniquePath with a caller-supplied existence check
func UniquePathFunc(desired string, exists ExistsFunc) (string, error) {
	if !exists(desired) {
		return desired, nil
	}

	dir, name := filepath.Split(desired)
	stem, ext := SplitExt(name)
	for i := 1; i <= MaxSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", desired, ErrResolutionExhausted)
}

// SplitExt splits a file name into stem and extension (with the dot).
// A leading dot does not start an extension (".bashrc" has none) and
// neither does a trailing one ("notes." has none).
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// IsInside reports whether path equals parent or lies below it.
// Both paths are compared as given, so callers resolve symlinks first.
func IsInside(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Resolve returns the absolute path with every symlink evaluated
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IsUnsafePath checks if the given path is unsafe to organize
func IsUnsafePath(path string) (bool, error) {
	// First check the original path before any normalization
	// This preserves the original input like "." or ".."
	originalBase := filepath.Base(path)
	if originalBase == ".." {
		return true, nil
	}

	// Clean the path to check for normalized root paths
	cleaned := filepath.Clean(path)

	// Check root path
	if cleaned == "/" {
		return true, nil
	}

	// Check double slashes and similar patterns
	if strings.HasPrefix(path, "//") {
		return true, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	return abs == filepath.VolumeName(abs)+string(filepath.Separator), nil
}
