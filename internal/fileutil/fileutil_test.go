package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-wiki2html/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Stat helpers
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "WikiStart.wiki")
	if err := os.WriteFile(file, []byte("= Home ="), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{"regular file", file, true, false},
		{"directory", dir, false, true},
		{"missing", filepath.Join(dir, "missing"), false, false},
		{"empty path", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Name vs path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple name returns false", "trac", false},
		{"relative path with dot-slash returns true", "./custom.css", true},
		{"parent path returns true", "../shared/style.css", true},
		{"absolute Unix path returns true", "/absolute/path.yaml", true},
		{"Windows path with backslash returns true", "C:\\windows\\path.css", true},
		{"hyphenated name returns false", "my-config", false},
		{"empty string returns false", "", false},
		{"name with dots but no slash returns false", "name.with.dots", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsCSS - CSS content detection
// ---------------------------------------------------------------------------

func TestIsCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"style name returns false", "trac", false},
		{"file path returns false", "./custom.css", false},
		{"rule returns true", "body { color: red; }", true},
		{"open brace only returns true", "body {", true},
		{"empty string returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsCSS(tt.input); got != tt.want {
				t.Errorf("IsCSS(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsWikiFile / TestReplaceExtension - Source discovery
// ---------------------------------------------------------------------------

func TestIsWikiFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"WikiStart.wiki", true},
		{"notes.txt", true},
		{"UPPER.WIKI", true},
		{"dir/page.Txt", true},
		{"readme.md", false},
		{"wiki", false},
		{"archive.wiki.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsWikiFile(tt.path); got != tt.want {
				t.Errorf("IsWikiFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, ext, want string
	}{
		{"page.wiki", ".html", "page.html"},
		{"dir/page.txt", ".html", "dir/page.html"},
		{"noext", ".html", "noext.html"},
		{"a.b.wiki", "", "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ReplaceExtension(tt.path, tt.ext); got != tt.want {
				t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPageName - Page names from source paths
// ---------------------------------------------------------------------------

func TestPageName(t *testing.T) {
	t.Parallel()

	root := filepath.Join("docs", "wiki")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"top level", filepath.Join(root, "WikiStart.wiki"), "WikiStart", nil},
		{"nested", filepath.Join(root, "Guide", "Install.txt"), "Guide/Install", nil},
		{"outside root", filepath.Join("docs", "Other.wiki"), "", fileutil.ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.PageName(root, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("PageName() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PageName() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PageName() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Output writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "Guide", "Install.html")
		if err := fileutil.WriteFileAtomic(path, []byte("<p>hi</p>")); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path) // #nosec G304 -- test path
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if string(got) != "<p>hi</p>" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		if err := os.WriteFile(path, []byte("old content that is longer"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := fileutil.WriteFileAtomic(path, []byte("new")); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		got, _ := os.ReadFile(path) // #nosec G304 -- test path
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}
	})
}
