package wiki

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

// DefaultSafeSchemes lists the URL schemes rendered as external links
// when unsafe content is not allowed.
var DefaultSafeSchemes = []string{
	"cvs", "file", "ftp", "git", "irc", "http", "https", "news",
	"sftp", "smb", "ssh", "svn", "svn+ssh",
}

// DefaultBaseHref is the URL prefix of wiki pages when none is configured.
const DefaultBaseHref = "/wiki"

// InterWikiEntry maps a link prefix to a remote URL.
// A URL containing $1..$9 placeholders receives the colon-separated
// parts of the target; otherwise the target is appended.
type InterWikiEntry struct {
	URL   string
	Title string
}

// InterTracAlias maps a link prefix to a remote wiki installation.
type InterTracAlias struct {
	URL   string
	Title string
}

// PageIndex reports which wiki pages exist.
type PageIndex interface {
	PageExists(name string) bool
	PageNames() []string
}

// Sanitizer strips unsafe tags, attributes and CSS from raw HTML.
type Sanitizer interface {
	Sanitize(raw string) string
}

// SyntaxRule plugs an additional inline token into the scanner.
// Rules are tried after the font-style tokens and before links.
// Pattern must not use the group names of the built-in rules.
type SyntaxRule struct {
	Name    string
	Pattern string
	Handle  func(f *Formatter, t Token) string
}

// Config describes an Env. Maps and slices are copied by NewEnv.
type Config struct {
	Logger              *slog.Logger
	BaseHref            string
	ProjectURL          string
	SafeSchemes         []string
	RenderUnsafeContent bool
	IgnoreMissingPages  bool
	InterWiki           map[string]InterWikiEntry
	InterTrac           map[string]InterTracAlias
	Pages               PageIndex
	Sanitizer           Sanitizer
	LinkResolvers       map[string]LinkResolver
	Macros              []MacroProvider
	Renderers           []Renderer
	Syntax              []SyntaxRule
}

// Env is the immutable rendering environment shared by every Formatter
// rendering a document, including the child formatters used for nested
// content.
type Env struct {
	logger      *slog.Logger
	baseHref    string
	projectURL  string
	safeSchemes map[string]bool
	unsafe      bool
	ignoreMiss  bool
	interWiki   map[string]InterWikiEntry
	interTrac   map[string]InterTracAlias
	pages       PageIndex
	sanitizer   Sanitizer
	resolvers   map[string]LinkResolver
	macros      map[string]MacroProvider
	macroNames  []string
	renderers   []Renderer
	syntax      []SyntaxRule
	rules       *Rules
}

// NewEnv builds an Env from cfg. It fails only when a SyntaxRule pattern
// does not compile.
func NewEnv(cfg Config) (*Env, error) {
	e := &Env{
		logger:      cfg.Logger,
		baseHref:    strings.TrimRight(cfg.BaseHref, "/"),
		projectURL:  cfg.ProjectURL,
		safeSchemes: make(map[string]bool),
		unsafe:      cfg.RenderUnsafeContent,
		ignoreMiss:  cfg.IgnoreMissingPages,
		interWiki:   make(map[string]InterWikiEntry, len(cfg.InterWiki)),
		interTrac:   make(map[string]InterTracAlias, len(cfg.InterTrac)),
		pages:       cfg.Pages,
		sanitizer:   cfg.Sanitizer,
		resolvers:   make(map[string]LinkResolver, len(cfg.LinkResolvers)+1),
		macros:      make(map[string]MacroProvider),
		renderers:   append([]Renderer(nil), cfg.Renderers...),
		syntax:      append([]SyntaxRule(nil), cfg.Syntax...),
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.logger = e.logger.With(slog.String("component", "wiki"))
	if cfg.BaseHref == "" {
		e.baseHref = DefaultBaseHref
	}

	schemes := cfg.SafeSchemes
	if schemes == nil {
		schemes = DefaultSafeSchemes
	}
	for _, s := range schemes {
		e.safeSchemes[strings.ToLower(s)] = true
	}
	for k, v := range cfg.InterWiki {
		e.interWiki[strings.ToLower(k)] = v
	}
	for k, v := range cfg.InterTrac {
		e.interTrac[strings.ToLower(k)] = v
	}

	e.resolvers["wiki"] = LinkResolverFunc(resolveWikiLink)
	for ns, r := range cfg.LinkResolvers {
		e.resolvers[ns] = r
	}

	for _, p := range cfg.Macros {
		for _, name := range p.Macros() {
			if _, dup := e.macros[name]; dup {
				continue
			}
			e.macros[name] = p
			e.macroNames = append(e.macroNames, name)
		}
	}
	sort.Strings(e.macroNames)

	rules, err := NewRules(e.syntax)
	if err != nil {
		return nil, fmt.Errorf("compiling wiki syntax: %w", err)
	}
	e.rules = rules
	return e, nil
}

// MustEnv is like NewEnv but panics on error.
func MustEnv(cfg Config) *Env {
	e, err := NewEnv(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Logger returns the logger failures are reported to.
func (e *Env) Logger() *slog.Logger { return e.logger }

// Pages returns the page index, or nil when none is configured.
func (e *Env) Pages() PageIndex { return e.pages }

// Rules returns the compiled token rules.
func (e *Env) Rules() *Rules { return e.rules }

// MacroNames returns the registered macro names, sorted.
func (e *Env) MacroNames() []string {
	return append([]string(nil), e.macroNames...)
}

// Macro returns the provider registered for name.
func (e *Env) Macro(name string) (MacroProvider, bool) {
	p, ok := e.macros[name]
	return p, ok
}

// RenderUnsafeContent reports whether raw HTML bypasses the sanitizer.
func (e *Env) RenderUnsafeContent() bool { return e.unsafe }

// IsSafeScheme reports whether scheme may be rendered as a link.
func (e *Env) IsSafeScheme(scheme string) bool {
	return e.unsafe || e.safeSchemes[strings.ToLower(scheme)]
}

// PageHref returns the URL of a wiki page.
func (e *Env) PageHref(page string) string {
	if page == "" {
		return e.baseHref
	}
	segs := strings.Split(page, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return e.baseHref + "/" + strings.Join(segs, "/")
}

// Sanitize applies the configured sanitizer. Without one, the markup is
// escaped so it renders as text.
func (e *Env) Sanitize(raw string) string {
	if e.unsafe {
		return raw
	}
	if e.sanitizer == nil {
		return escapeHTML(raw)
	}
	return e.sanitizer.Sanitize(raw)
}
