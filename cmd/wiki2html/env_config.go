package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-wiki2html/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "WIKI2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // WIKI2HTML_CONFIG: config file path
	Style      string // WIKI2HTML_STYLE: stylesheet name or path
	Mode       string // WIKI2HTML_MODE: rendering mode
	OutputDir  string // WIKI2HTML_OUTPUT_DIR: default output directory
	BaseHref   string // WIKI2HTML_BASE_HREF: URL prefix of wiki pages
	Lang       string // WIKI2HTML_LANG: document language
	Workers    int    // WIKI2HTML_WORKERS: parallel workers
}

// knownEnvVars lists valid WIKI2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WIKI2HTML_CONFIG":     true,
	"WIKI2HTML_STYLE":      true,
	"WIKI2HTML_MODE":       true,
	"WIKI2HTML_OUTPUT_DIR": true,
	"WIKI2HTML_BASE_HREF":  true,
	"WIKI2HTML_LANG":       true,
	"WIKI2HTML_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// A malformed or non-positive WIKI2HTML_WORKERS is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("WIKI2HTML_CONFIG"),
		Style:      os.Getenv("WIKI2HTML_STYLE"),
		Mode:       os.Getenv("WIKI2HTML_MODE"),
		OutputDir:  os.Getenv("WIKI2HTML_OUTPUT_DIR"),
		BaseHref:   os.Getenv("WIKI2HTML_BASE_HREF"),
		Lang:       os.Getenv("WIKI2HTML_LANG"),
	}

	if workers := os.Getenv("WIKI2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized WIKI2HTML_*
// variable in environ, in sorted order.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies set environment variables over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Output.Style = env.Style
	}
	if env.Mode != "" {
		cfg.Output.Mode = env.Mode
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.BaseHref != "" {
		cfg.Wiki.BaseHref = env.BaseHref
	}
	if env.Lang != "" {
		cfg.Output.Lang = env.Lang
	}
}
