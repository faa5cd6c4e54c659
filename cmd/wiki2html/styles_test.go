package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	wiki2html "github.com/alnah/go-wiki2html"
)

// ---------------------------------------------------------------------------
// TestRunStyles - Stylesheet listing
// ---------------------------------------------------------------------------

func TestRunStyles(t *testing.T) {
	t.Parallel()

	t.Run("json with asset path", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"styles/brand.css": "body { color: red }"})
		env := newTestEnv("")

		if err := runStyles([]string{"--asset-path", dir, "--json"}, env.Environment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got stylesResult
		if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", env.stdout.String(), err)
		}
		if got.Default != "trac" || got.AssetPath != dir {
			t.Errorf("result = %+v", got)
		}
		for _, name := range []string{"brand", "plain", "trac"} {
			if !slices.Contains(got.Styles, name) {
				t.Errorf("styles %v missing %q", got.Styles, name)
			}
		}
	})

	t.Run("invalid asset path", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		err := runStyles([]string{"--asset-path", filepath.Join(t.TempDir(), "missing")}, env.Environment)
		if !errors.Is(err, wiki2html.ErrInvalidAssetPath) {
			t.Errorf("error = %v, want ErrInvalidAssetPath", err)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if err := runStyles([]string{"--bogus"}, env.Environment); !errors.Is(err, ErrInvalidFlag) {
			t.Errorf("error = %v, want ErrInvalidFlag", err)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv("")
		if err := runStyles([]string{"--help"}, env.Environment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(env.stderr.String(), "Usage: wiki2html styles") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
	})
}
