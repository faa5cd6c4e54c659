// Package fileutil provides file and path helpers for wiki sources and
// rendered output.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
)

// ErrOutsideRoot indicates a path that does not live under the given root.
var ErrOutsideRoot = errors.New("path is outside root")

// WikiExtensions lists the extensions of wiki source files.
var WikiExtensions = []string{".wiki", ".txt"}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "trac" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.yaml" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS reports whether s looks like CSS content rather than a style name
// or path: it contains an opening brace.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsWikiFile reports whether path has one of WikiExtensions, ignoring case.
func IsWikiFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range WikiExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReplaceExtension swaps the extension of path for ext (".html").
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// PageName derives the wiki page name of a source file: its path relative
// to root, without extension, with forward slashes.
//
// Examples, for root "docs":
//   - "docs/WikiStart.wiki" -> "WikiStart"
//   - "docs/Guide/Install.txt" -> "Guide/Install"
func PageName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutsideRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.ToSlash(ReplaceExtension(rel, "")), nil
}

// WriteFileAtomic writes data to path through a temporary file renamed
// into place, creating parent directories as needed. Readers never see a
// partially written file.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
