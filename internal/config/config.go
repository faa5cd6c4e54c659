package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-wiki2html/internal/fileutil"
	"github.com/alnah/go-wiki2html/internal/hints"
	"github.com/alnah/go-wiki2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength    = 2048 // Browser limit
	MaxPrefixLength = 50   // "trac", "wikipedia"
	MaxTitleLength  = 200  // Remote site title
	MaxStyleLength  = 64   // Style name
	MaxPathLength   = 4096 // PATH_MAX
	MaxLangLength   = 35   // BCP 47
	MaxShortenWidth = 1000
)

// Valid rendering modes, mirrored by the root package.
var Modes = []string{"html", "oneliner", "outline", "link"}

var (
	schemeRe = regexp.MustCompile(`^[a-zA-Z][-a-zA-Z0-9+._]*$`)
	prefixRe = regexp.MustCompile(`^[a-zA-Z][-a-zA-Z0-9_.+]*$`)
)

// Config holds all configuration for wiki rendering.
type Config struct {
	Wiki      WikiConfig              `yaml:"wiki"`
	InterWiki map[string]RemoteConfig `yaml:"interwiki"`
	InterTrac map[string]RemoteConfig `yaml:"intertrac"`
	Outline   OutlineConfig           `yaml:"outline"`
	OneLiner  OneLinerConfig          `yaml:"oneliner"`
	Highlight HighlightConfig         `yaml:"highlight"`
	Output    OutputConfig            `yaml:"output"`
	Assets    AssetsConfig            `yaml:"assets"`
}

// WikiConfig defines link and safety options of the formatter.
type WikiConfig struct {
	BaseHref            string   `yaml:"baseHref"`            // URL prefix of wiki pages (default: "/wiki")
	ProjectURL          string   `yaml:"projectURL"`          // Prefix of server-relative links
	SafeSchemes         []string `yaml:"safeSchemes"`         // Empty = built-in list
	RenderUnsafeContent bool     `yaml:"renderUnsafeContent"` // Raw HTML bypasses the sanitizer
	IgnoreMissingPages  bool     `yaml:"ignoreMissingPages"`  // Missing pages render as plain text
}

// RemoteConfig maps an InterWiki prefix or InterTrac alias to a site.
type RemoteConfig struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

// OutlineConfig defines the heading range of outline mode.
type OutlineConfig struct {
	MinDepth int `yaml:"minDepth"` // 1-6 (default: 1)
	MaxDepth int `yaml:"maxDepth"` // 1-6 (default: 6)
}

// OneLinerConfig defines one-liner options.
type OneLinerConfig struct {
	ShortenWidth int `yaml:"shortenWidth"` // 0 = no shortening
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Style string `yaml:"style"` // Chroma style name (default: "github")
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the source
	Mode       string `yaml:"mode"`       // html, oneliner, outline, link (default: html)
	Standalone bool   `yaml:"standalone"` // Wrap output in an HTML5 document
	Style      string `yaml:"style"`      // Stylesheet name or path, used when standalone
	Lang       string `yaml:"lang"`       // Document language (default: "en")
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("wiki.baseHref", c.Wiki.BaseHref, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("wiki.projectURL", c.Wiki.ProjectURL, MaxURLLength); err != nil {
		return err
	}
	for i, s := range c.Wiki.SafeSchemes {
		if !schemeRe.MatchString(s) {
			return fmt.Errorf("%w: wiki.safeSchemes[%d]: %q is not a URL scheme", ErrInvalidValue, i, s)
		}
	}

	if err := validateRemotes("interwiki", c.InterWiki); err != nil {
		return err
	}
	if err := validateRemotes("intertrac", c.InterTrac); err != nil {
		return err
	}

	if err := validateDepth("outline.minDepth", c.Outline.MinDepth); err != nil {
		return err
	}
	if err := validateDepth("outline.maxDepth", c.Outline.MaxDepth); err != nil {
		return err
	}
	if c.Outline.MinDepth != 0 && c.Outline.MaxDepth != 0 && c.Outline.MinDepth > c.Outline.MaxDepth {
		return fmt.Errorf("%w: outline.minDepth %d exceeds outline.maxDepth %d",
			ErrInvalidValue, c.Outline.MinDepth, c.Outline.MaxDepth)
	}

	if c.OneLiner.ShortenWidth < 0 || c.OneLiner.ShortenWidth > MaxShortenWidth {
		return fmt.Errorf("%w: oneliner.shortenWidth: must be between 0 and %d, got %d",
			ErrInvalidValue, MaxShortenWidth, c.OneLiner.ShortenWidth)
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.style", c.Output.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.lang", c.Output.Lang, MaxLangLength); err != nil {
		return err
	}
	if c.Output.Mode != "" && !isMode(c.Output.Mode) {
		return fmt.Errorf("%w: output.mode %q (must be %s)", ErrInvalidValue, c.Output.Mode, strings.Join(Modes, ", "))
	}

	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

func validateRemotes(section string, remotes map[string]RemoteConfig) error {
	for prefix, r := range remotes {
		if len(prefix) > MaxPrefixLength || !prefixRe.MatchString(prefix) {
			return fmt.Errorf("%w: %s: invalid prefix %q", ErrInvalidValue, section, prefix)
		}
		if r.URL == "" {
			return fmt.Errorf("%w: %s.%s.url: required", ErrInvalidValue, section, prefix)
		}
		if err := validateFieldLength(section+"."+prefix+".url", r.URL, MaxURLLength); err != nil {
			return err
		}
		if err := validateFieldLength(section+"."+prefix+".title", r.Title, MaxTitleLength); err != nil {
			return err
		}
	}
	return nil
}

func validateDepth(field string, depth int) error {
	if depth != 0 && (depth < 1 || depth > 6) {
		return fmt.Errorf("%w: %s: must be between 1 and 6, got %d", ErrInvalidValue, field, depth)
	}
	return nil
}

func isMode(mode string) bool {
	for _, m := range Modes {
		if strings.EqualFold(m, mode) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Wiki:      WikiConfig{BaseHref: "/wiki"},
		Outline:   OutlineConfig{MinDepth: 1, MaxDepth: 6},
		Highlight: HighlightConfig{Style: "github"},
		Output:    OutputConfig{Mode: "html", Style: "trac", Lang: "en"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in SearchPaths.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cfg Config
	if err := yamlutil.DecodeStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// name.yaml and name.yml in the current directory, then in the
// go-wiki2html directory under the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, hints.ConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(paths, ", "), hints.ForConfigNotFound(paths))
}
