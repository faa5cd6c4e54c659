package main

import (
	"bytes"
	"testing"

	"github.com/alnah/go-wiki2html/internal/config"
)

// Tests here use t.Setenv and cannot run in parallel.

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("WIKI2HTML_CONFIG", "team")
	t.Setenv("WIKI2HTML_STYLE", "plain")
	t.Setenv("WIKI2HTML_MODE", "outline")
	t.Setenv("WIKI2HTML_OUTPUT_DIR", "site")
	t.Setenv("WIKI2HTML_BASE_HREF", "/docs")
	t.Setenv("WIKI2HTML_LANG", "fr")
	t.Setenv("WIKI2HTML_WORKERS", "3")

	got := loadEnvConfig()

	want := envConfig{
		ConfigPath: "team",
		Style:      "plain",
		Mode:       "outline",
		OutputDir:  "site",
		BaseHref:   "/docs",
		Lang:       "fr",
		Workers:    3,
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_InvalidWorkers(t *testing.T) {
	for _, value := range []string{"abc", "0", "-2"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("WIKI2HTML_WORKERS", value)

			if got := loadEnvConfig().Workers; got != 0 {
				t.Errorf("Workers = %d, want 0", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env vars override the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			Style:     "plain",
			Mode:      "link",
			OutputDir: "out",
			BaseHref:  "/w",
			Lang:      "de",
		}, cfg)

		if cfg.Output.Style != "plain" || cfg.Output.Mode != "link" || cfg.Output.DefaultDir != "out" ||
			cfg.Wiki.BaseHref != "/w" || cfg.Output.Lang != "de" {
			t.Errorf("config not updated: %+v", cfg)
		}
	})

	t.Run("empty values keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Output.Style != "trac" || cfg.Wiki.BaseHref != "/wiki" {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"HOME=/root",
		"WIKI2HTML_STYLE=plain",
		"WIKI2HTML_STYEL=plain",
		"WIKI2HTML_BASEHREF=/w",
	})

	want := "warning: unknown environment variable WIKI2HTML_BASEHREF (typo?)\n" +
		"warning: unknown environment variable WIKI2HTML_STYEL (typo?)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
