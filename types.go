package wiki2html

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Mode selects what Convert renders.
type Mode string

// Rendering modes.
const (
	ModeHTML     Mode = "html"     // Full block HTML
	ModeOneLiner Mode = "oneliner" // Inline markup only, e.g. for titles and summaries
	ModeOutline  Mode = "outline"  // Nested list of the headings
	ModeLink     Mode = "link"     // The link at the start of the text
)

// Modes lists every rendering mode.
var Modes = []Mode{ModeHTML, ModeOneLiner, ModeOutline, ModeLink}

// ParseMode reads a mode name case-insensitively. An empty name is
// ModeHTML.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeHTML, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate checks that m names a known mode. The empty mode is valid and
// means ModeHTML.
func (m Mode) Validate() error {
	switch m {
	case "", ModeHTML, ModeOneLiner, ModeOutline, ModeLink:
		return nil
	}
	return fmt.Errorf("%w: %q (must be html, oneliner, outline, or link)", ErrInvalidMode, string(m))
}

// Outline depth bounds.
const (
	MinOutlineDepth = 1
	MaxOutlineDepth = 6
)

// MaxShortenWidth caps the one-liner shortening width.
const MaxShortenWidth = 1000

// Input contains conversion parameters.
type Input struct {
	Text       string // Wiki text (required)
	Page       string // Page being rendered; relative links resolve against it
	Mode       Mode   // Empty = ModeHTML
	Title      string // Document title when Standalone (default: Page)
	Standalone bool   // Wrap the output in an HTML5 document with CSS
	CSS        string // Extra CSS appended after the converter style
	Shorten    int    // One-liner width; 0 = converter setting
	OutlineMin int    // Outline depth range; 0 = converter setting
	OutlineMax int
}

// Result holds the rendered output.
type Result struct {
	HTML []byte
}

// PageIndex reports which wiki pages exist. Links to pages it does not
// know are rendered as missing.
type PageIndex interface {
	PageExists(name string) bool
	PageNames() []string
}

// Renderer converts code blocks of a MIME type to HTML. A block
// {{{#!text/x-foo ... }}} goes to the renderer with the highest
// QualityRatio for its type.
type Renderer interface {
	QualityRatio(mimetype string) int
	Render(mimetype, text string) (string, error)
}

// MacroCall describes one macro invocation.
type MacroCall struct {
	Page   string            // Page being rendered
	Args   string            // Text between the parentheses, or the block body
	Params map[string]string // Shebang parameters of a #!Name block; nil for calls
}

// Macro is a user-defined macro. Expand returns HTML; an error made with
// NewMacroError is shown to the reader as is, any other error is logged
// and shown as a generic failure.
type Macro struct {
	Name        string
	Description string // Wiki text shown by [[MacroList]]
	Inline      bool   // Output may sit inside a paragraph
	Expand      func(call MacroCall) (string, error)
}

// Option configures a Converter.
type Option func(*Converter)

// remoteSite is an InterWiki prefix or InterTrac alias target.
type remoteSite struct {
	url   string
	title string
}

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	logger         *slog.Logger
	baseHref       string
	projectURL     string
	safeSchemes    []string
	unsafe         bool
	ignoreMissing  bool
	interWiki      map[string]remoteSite
	interTrac      map[string]remoteSite
	pages          PageIndex
	macros         []Macro
	renderers      []Renderer
	clock          func() time.Time
	styleInput     string
	noStyle        bool
	assetPath      string
	highlightStyle string
	lang           string
	shortenWidth   int
	outlineMin     int
	outlineMax     int
}

// WithLogger sets the logger macro and processor failures are reported to.
// The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.cfg.logger = l }
}

// WithBaseHref sets the URL prefix of wiki page links (default: "/wiki").
func WithBaseHref(href string) Option {
	return func(c *Converter) { c.cfg.baseHref = href }
}

// WithProjectURL sets the prefix of server-relative links such as [/about].
func WithProjectURL(url string) Option {
	return func(c *Converter) { c.cfg.projectURL = url }
}

// WithSafeSchemes replaces the URL schemes rendered as external links.
func WithSafeSchemes(schemes ...string) Option {
	return func(c *Converter) { c.cfg.safeSchemes = append([]string(nil), schemes...) }
}

// WithUnsafeContent lets raw HTML and links of any scheme through
// unsanitized. Only use it for trusted input.
func WithUnsafeContent(allow bool) Option {
	return func(c *Converter) { c.cfg.unsafe = allow }
}

// WithIgnoreMissingPages renders links to missing pages as plain text.
func WithIgnoreMissingPages(ignore bool) Option {
	return func(c *Converter) { c.cfg.ignoreMissing = ignore }
}

// WithInterWiki maps a link prefix to a remote site. A URL containing
// $1..$9 receives the colon separated parts of the target; otherwise the
// target is appended.
func WithInterWiki(prefix, url, title string) Option {
	return func(c *Converter) {
		if c.cfg.interWiki == nil {
			c.cfg.interWiki = make(map[string]remoteSite)
		}
		c.cfg.interWiki[prefix] = remoteSite{url: url, title: title}
	}
}

// WithInterTrac maps a link prefix to another wiki installation, so that
// [alias:wiki:Page] links there.
func WithInterTrac(alias, url, title string) Option {
	return func(c *Converter) {
		if c.cfg.interTrac == nil {
			c.cfg.interTrac = make(map[string]remoteSite)
		}
		c.cfg.interTrac[alias] = remoteSite{url: url, title: title}
	}
}

// WithPages sets the index of existing pages. Without one, every page
// is assumed to exist and [[TitleIndex]] reports an error.
func WithPages(pages PageIndex) Option {
	return func(c *Converter) { c.cfg.pages = pages }
}

// WithMacros registers macros next to the builtin ones. Builtins win on
// a name clash.
func WithMacros(macros ...Macro) Option {
	return func(c *Converter) { c.cfg.macros = append(c.cfg.macros, macros...) }
}

// WithRenderers registers MIME-type renderers. They are consulted before
// the builtin syntax highlighter.
func WithRenderers(renderers ...Renderer) Option {
	return func(c *Converter) { c.cfg.renderers = append(c.cfg.renderers, renderers...) }
}

// WithClock sets the time source of the [[Timestamp]] macro.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.cfg.clock = now }
}

// WithStyle sets the stylesheet of standalone documents: a style name
// ("trac", "plain"), a file path, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) { c.cfg.styleInput = style }
}

// WithoutStyle drops the stylesheet and highlight CSS from standalone
// documents. Input.CSS is still applied.
func WithoutStyle() Option {
	return func(c *Converter) { c.cfg.noStyle = true }
}

// WithAssetPath sets a directory whose styles/ and templates/ override
// the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) { c.cfg.assetPath = path }
}

// WithHighlightStyle sets the chroma style of highlighted code blocks
// (default: "github").
func WithHighlightStyle(style string) Option {
	return func(c *Converter) { c.cfg.highlightStyle = style }
}

// WithLang sets the language of standalone documents (default: "en").
func WithLang(lang string) Option {
	return func(c *Converter) { c.cfg.lang = lang }
}

// WithShortenWidth sets the default one-liner width. Zero disables
// shortening.
func WithShortenWidth(width int) Option {
	return func(c *Converter) { c.cfg.shortenWidth = width }
}

// WithOutlineDepth sets the default heading range of ModeOutline.
func WithOutlineDepth(minDepth, maxDepth int) Option {
	return func(c *Converter) { c.cfg.outlineMin, c.cfg.outlineMax = minDepth, maxDepth }
}
