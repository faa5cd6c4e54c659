package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wiki2html "github.com/alnah/go-wiki2html"
	"github.com/alnah/go-wiki2html/internal/config"
)

// runConvertArgs parses args like the convert command and runs them.
func runConvertArgs(t *testing.T, env *testEnv, args ...string) error {
	t.Helper()
	flags, positional, err := parseConvertFlags(args)
	require.NoError(t, err)
	return runConvert(context.Background(), positional, flags, env.Environment)
}

// ---------------------------------------------------------------------------
// TestRunConvert - End-to-end conversion with real converters
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	t.Run("directory resolves links against the page index", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"WikiStart.wiki":    "= Welcome =\n\nSee [wiki:Guide/Install] and [wiki:Nowhere].",
			"Guide/Install.txt": "= Install =\n\n * step one\n * step two",
		})
		out := filepath.Join(t.TempDir(), "site")
		env := newTestEnv("")

		err := runConvertArgs(t, env, dir, "-o", out)
		require.NoError(t, err)

		start := readFile(t, filepath.Join(out, "WikiStart.html"))
		assert.Contains(t, start, `<h1 id="Welcome">Welcome</h1>`)
		assert.Contains(t, start, `<a class="wiki" href="/wiki/Guide/Install">`)
		assert.Contains(t, start, `class="missing wiki"`)

		install := readFile(t, filepath.Join(out, "Guide", "Install.html"))
		assert.Contains(t, install, "<li>step one</li>")

		assert.Contains(t, env.stdout.String(), "2 succeeded, 0 failed")
	})

	t.Run("single file next to source", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"Page.wiki": "Some '''bold''' text."})
		env := newTestEnv("")

		err := runConvertArgs(t, env, filepath.Join(dir, "Page.wiki"))
		require.NoError(t, err)

		got := readFile(t, filepath.Join(dir, "Page.html"))
		assert.Contains(t, got, "<strong>bold</strong>")
		assert.Contains(t, env.stdout.String(), "Created ")
	})

	t.Run("standalone document with title and style", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"Page.wiki": "= Head ="})
		env := newTestEnv("")

		err := runConvertArgs(t, env, filepath.Join(dir, "Page.wiki"),
			"--standalone", "--title", "My Page", "--lang", "fr", "--style", "plain")
		require.NoError(t, err)

		got := readFile(t, filepath.Join(dir, "Page.html"))
		assert.Contains(t, got, "<!DOCTYPE html>")
		assert.Contains(t, got, `<html lang="fr">`)
		assert.Contains(t, got, "<title>My Page</title>")
		assert.Contains(t, got, "<style>")
	})

	t.Run("outline mode to stdout", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"Page.wiki": "= One =\n== Two ==\n=== Three ==="})
		env := newTestEnv("")

		err := runConvertArgs(t, env, filepath.Join(dir, "Page.wiki"),
			"-o", "-", "--mode", "outline", "--outline-max", "2")
		require.NoError(t, err)

		assert.Contains(t, env.stdout.String(), `href="#One"`)
		assert.Contains(t, env.stdout.String(), `href="#Two"`)
		assert.NotContains(t, env.stdout.String(), "Three")
		assert.NoFileExists(t, filepath.Join(dir, "Page.html"))
	})

	t.Run("stdin to stdout", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("Hello ''world''")

		err := runConvertArgs(t, env, "--mode", "oneliner")
		require.NoError(t, err)

		assert.Equal(t, "Hello <em>world</em>", env.stdout.String())
	})

	t.Run("explicit dash reads stdin", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("[wiki:Anything]")
		env.StdinIsTerminal = func() bool { return true }

		err := runConvertArgs(t, env, "-", "--mode", "link")
		require.NoError(t, err)

		// Without a page index every page exists.
		assert.Contains(t, env.stdout.String(), `<a class="wiki" href="/wiki/Anything">`)
	})

	t.Run("stdout needs a single file", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"A.wiki": "a", "B.wiki": "b"})
		env := newTestEnv("")

		err := runConvertArgs(t, env, dir, "-o", "-")
		assert.ErrorIs(t, err, ErrInvalidFlag)
	})

	t.Run("no wiki files", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"notes.md": "# md"})
		env := newTestEnv("")

		err := runConvertArgs(t, env, dir)
		assert.ErrorIs(t, err, ErrNoInput)
		assert.Contains(t, err.Error(), "hint:")
	})

	t.Run("no input and terminal stdin", func(t *testing.T) {
		t.Parallel()

		err := runConvertArgs(t, newTestEnv(""))
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("unknown style fails once with hint", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"A.wiki": "a", "B.wiki": "b"})
		env := newTestEnv("")

		err := runConvertArgs(t, env, dir, "--style", "nope")
		require.ErrorIs(t, err, wiki2html.ErrStyleNotFound)
		assert.Contains(t, err.Error(), "available: plain, trac")
		assert.NotContains(t, env.stderr.String(), "FAILED")
	})

	t.Run("invalid mode with hint", func(t *testing.T) {
		t.Parallel()

		err := runConvertArgs(t, newTestEnv("x"), "--mode", "pdf")
		require.ErrorIs(t, err, wiki2html.ErrInvalidMode)
		assert.Contains(t, err.Error(), "valid modes: html, oneliner, outline, link")
	})

	t.Run("invalid outline depth", func(t *testing.T) {
		t.Parallel()

		err := runConvertArgs(t, newTestEnv("x"), "--outline-min", "9")
		assert.ErrorIs(t, err, config.ErrInvalidValue)
	})

	t.Run("invalid workers", func(t *testing.T) {
		t.Parallel()

		err := runConvertArgs(t, newTestEnv("x"), "-w", "99")
		assert.ErrorIs(t, err, ErrInvalidWorkerCount)
	})

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()

		err := runConvertArgs(t, newTestEnv("x"), "--config", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, config.ErrConfigNotFound)
	})

	t.Run("config file drives options", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{
			"wiki.yaml": "wiki:\n  baseHref: /docs\ninterwiki:\n  wp:\n    url: https://en.wikipedia.org/wiki/\n    title: Wikipedia\n",
		})
		env := newTestEnv("[wiki:Page] and [wp:Go]")

		err := runConvertArgs(t, env, "--config", filepath.Join(dir, "wiki.yaml"))
		require.NoError(t, err)

		assert.Contains(t, env.stdout.String(), `href="/docs/Page"`)
		assert.Contains(t, env.stdout.String(), `href="https://en.wikipedia.org/wiki/Go"`)
	})

	t.Run("failed conversions are counted", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"Empty.wiki": "", "Full.wiki": "text"})
		env := newTestEnv("")

		err := runConvertArgs(t, env, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 conversion(s) failed")
		assert.Contains(t, env.stderr.String(), "FAILED")
		assert.Contains(t, env.stderr.String(), "wiki text cannot be empty")
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	flags := &convertFlags{
		output:  outputFlags{mode: "outline", standalone: true, lang: "de", shorten: 40},
		style:   styleFlags{style: "plain", highlight: "monokai", assetPath: "./assets"},
		wiki:    wikiFlags{baseHref: "/w", projectURL: "https://example.org", unsafe: true, ignoreMissing: true},
		outline: outlineFlags{minDepth: 2, maxDepth: 3},
	}

	mergeFlags(flags, cfg)

	assert.Equal(t, "outline", cfg.Output.Mode)
	assert.True(t, cfg.Output.Standalone)
	assert.Equal(t, "de", cfg.Output.Lang)
	assert.Equal(t, 40, cfg.OneLiner.ShortenWidth)
	assert.Equal(t, "plain", cfg.Output.Style)
	assert.Equal(t, "monokai", cfg.Highlight.Style)
	assert.Equal(t, "./assets", cfg.Assets.BasePath)
	assert.Equal(t, "/w", cfg.Wiki.BaseHref)
	assert.Equal(t, "https://example.org", cfg.Wiki.ProjectURL)
	assert.True(t, cfg.Wiki.RenderUnsafeContent)
	assert.True(t, cfg.Wiki.IgnoreMissingPages)
	assert.Equal(t, 2, cfg.Outline.MinDepth)
	assert.Equal(t, 3, cfg.Outline.MaxDepth)
}

func TestMergeFlags_EmptyKeepsConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	want := *config.DefaultConfig()

	mergeFlags(&convertFlags{}, cfg)

	assert.Equal(t, want, *cfg)
}

// ---------------------------------------------------------------------------
// TestBuildConverterOptions - Options build a working converter
// ---------------------------------------------------------------------------

func TestBuildConverterOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.InterTrac = map[string]config.RemoteConfig{"other": {URL: "https://other.example/", Title: "Other"}}
	cfg.Wiki.IgnoreMissingPages = true
	env := newTestEnv("")
	pages := wiki2html.NewPageList("Known")

	opts := buildConverterOptions(cfg, &convertFlags{style: styleFlags{disabled: true}}, pages,
		newLogger(env.Stderr, commonFlags{}), env.Environment)

	conv, err := wiki2html.NewConverter(opts...)
	require.NoError(t, err)

	res, err := conv.Convert(context.Background(), wiki2html.Input{
		Text:       "[wiki:Known] UnknownPage [[Timestamp(iso)]]",
		Standalone: true,
	})
	require.NoError(t, err)

	html := string(res.HTML)
	assert.Contains(t, html, `<a class="wiki" href="/wiki/Known">`)
	assert.NotContains(t, html, "missing")
	assert.Contains(t, html, "2024-03-15")
	assert.NotContains(t, html, "<style>")
}

// ---------------------------------------------------------------------------
// TestResolveInputPath - Argument and stdin resolution
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr error
	}{
		{name: "argument", args: []string{"Page.wiki"}, want: "Page.wiki"},
		{name: "argument wins over piped stdin", args: []string{"Page.wiki"}, stdin: "x", want: "Page.wiki"},
		{name: "piped stdin", stdin: "x", want: "-"},
		{name: "terminal without argument", wantErr: ErrNoInput},
		{name: "too many arguments", args: []string{"a.wiki", "b.wiki"}, wantErr: ErrInvalidFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveInputPath(tt.args, newTestEnv(tt.stdin).Environment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveInputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx := context.Background()

	quiet := newLogger(&buf, commonFlags{quiet: true})
	assert.False(t, quiet.Enabled(ctx, -4))
	assert.False(t, quiet.Enabled(ctx, 4))

	normal := newLogger(&buf, commonFlags{})
	assert.True(t, normal.Enabled(ctx, 4))
	assert.False(t, normal.Enabled(ctx, 0))

	verbose := newLogger(&buf, commonFlags{verbose: true})
	assert.True(t, verbose.Enabled(ctx, -4))
}

// ---------------------------------------------------------------------------
// TestWithHint - Actionable hints
// ---------------------------------------------------------------------------

func TestWithHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"style", wiki2html.ErrStyleNotFound, "available:"},
		{"mode", wiki2html.ErrInvalidMode, "valid modes:"},
		{"outline", wiki2html.ErrInvalidOutlineDepth, "depths range from 1 to 6"},
		{"write", ErrWriteHTML, "writable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := withHint(tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, withHint(nil))
	plain := errors.New("plain")
	assert.Equal(t, plain, withHint(plain))
}

// TestRunConvert_WritesNothingOnFailure checks atomic writes leave no
// partial output when the target cannot be created.
func TestRunConvert_WritesNothingOnFailure(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"A.wiki": "a", "out": "not a directory"})
	env := newTestEnv("")

	err := runConvertArgs(t, env, filepath.Join(dir, "A.wiki"), "-o", filepath.Join(dir, "out", "A.html"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out", "A.html"))
	assert.Error(t, statErr)
}
