package wiki2html

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alnah/go-wiki2html/internal/assets"
	"github.com/alnah/go-wiki2html/internal/fileutil"
	"github.com/alnah/go-wiki2html/internal/highlight"
	"github.com/alnah/go-wiki2html/internal/macros"
	"github.com/alnah/go-wiki2html/internal/pipeline"
	"github.com/alnah/go-wiki2html/internal/sanitize"
	"github.com/alnah/go-wiki2html/internal/wiki"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Preprocessor    = (*pipeline.WikiPreprocessor)(nil)
	_ pipeline.DocumentBuilder = (*pipeline.Document)(nil)
	_ pipeline.CSSInjector     = (*pipeline.CSSInjection)(nil)
	_ wiki.Renderer            = (*highlight.Renderer)(nil)
	_ wiki.Renderer            = (*pipeline.MarkdownRenderer)(nil)
	_ wiki.Sanitizer           = (*sanitize.Policy)(nil)
)

// Converter renders wiki text to HTML. Create with NewConverter and call
// Convert; a Converter is safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	logger       *slog.Logger
	env          *wiki.Env
	assetLoader  assets.AssetLoader
	preprocessor pipeline.Preprocessor
	document     pipeline.DocumentBuilder
	cssInjector  pipeline.CSSInjector
	css          string // stylesheet plus highlight CSS for standalone output
}

// NewConverter creates a Converter. Options set link targets, page index,
// macros and the look of standalone documents.
// Returns an error if an option value is invalid or an asset cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			outlineMin: MinOutlineDepth,
			outlineMax: MaxOutlineDepth,
		},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.WikiPreprocessor{},
		document:     &pipeline.Document{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validateConfig(); err != nil {
		return nil, err
	}

	c.logger = c.cfg.logger
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver

		// A custom directory may override the document template.
		text, err := resolver.LoadTemplate(assets.DocumentTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading document template: %w", err)
		}
		if c.document, err = pipeline.NewDocument(text); err != nil {
			return nil, err
		}
	}

	highlighter, err := highlight.New(c.cfg.highlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHighlightStyle, err)
	}

	if err := c.resolveStyle(highlighter); err != nil {
		return nil, err
	}

	providers := []wiki.MacroProvider{macros.NewBuiltinRegistry(c.cfg.clock)}
	if len(c.cfg.macros) > 0 {
		user, err := newMacroRegistry(c.cfg.macros)
		if err != nil {
			return nil, err
		}
		providers = append(providers, user)
	}

	renderers := make([]wiki.Renderer, 0, len(c.cfg.renderers)+2)
	for _, r := range c.cfg.renderers {
		renderers = append(renderers, r)
	}
	renderers = append(renderers, pipeline.NewMarkdownRenderer(), highlighter)

	schemes := c.cfg.safeSchemes
	if schemes == nil {
		schemes = wiki.DefaultSafeSchemes
	}

	c.env, err = wiki.NewEnv(wiki.Config{
		Logger:              c.logger,
		BaseHref:            c.cfg.baseHref,
		ProjectURL:          c.cfg.projectURL,
		SafeSchemes:         schemes,
		RenderUnsafeContent: c.cfg.unsafe,
		IgnoreMissingPages:  c.cfg.ignoreMissing,
		InterWiki:           toInterWiki(c.cfg.interWiki),
		InterTrac:           toInterTrac(c.cfg.interTrac),
		Pages:               c.cfg.pages,
		Sanitizer:           sanitize.New(sanitize.WithSchemes(append([]string{"mailto"}, schemes...)...)),
		Macros:              providers,
		Renderers:           renderers,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	return c, nil
}

// Convert renders input and returns the HTML.
// The context is checked between stages; formatting itself never blocks.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrConversion, r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	text := c.preprocessor.Preprocess(ctx, input.Text)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	body := c.format(input, text)
	if !input.Standalone {
		return &Result{HTML: []byte(body)}, nil
	}

	title := input.Title
	if title == "" {
		title = input.Page
	}
	doc, err := c.document.BuildDocument(ctx, pipeline.DocumentData{
		Title: title,
		Lang:  c.cfg.lang,
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}

	// Converter style first, user CSS last so it can override.
	css := c.css
	switch {
	case css == "":
		css = input.CSS
	case input.CSS != "":
		css += "\n" + input.CSS
	}
	doc = c.cssInjector.InjectCSS(ctx, doc, css)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &Result{HTML: []byte(doc)}, nil
}

// format runs the formatter variant of input.Mode over text.
func (c *Converter) format(input Input, text string) string {
	opts := []wiki.Option{wiki.WithPage(input.Page)}

	switch input.Mode {
	case ModeOneLiner:
		width := input.Shorten
		if width == 0 {
			width = c.cfg.shortenWidth
		}
		if width > 0 {
			opts = append(opts, wiki.WithShorten(width))
		}
		return wiki.NewOneLinerFormatter(c.env, opts...).Format(text)

	case ModeOutline:
		minDepth, maxDepth := c.cfg.outlineMin, c.cfg.outlineMax
		if input.OutlineMin != 0 {
			minDepth = input.OutlineMin
		}
		if input.OutlineMax != 0 {
			maxDepth = input.OutlineMax
		}
		opts = append(opts, wiki.WithOutlineDepth(minDepth, maxDepth))
		return wiki.NewOutlineFormatter(c.env, opts...).Format(text)

	case ModeLink:
		return wiki.NewLinkFormatter(c.env, opts...).Format(text)

	default:
		return wiki.NewFormatter(c.env, opts...).Format(text)
	}
}

// resolveStyle resolves the style input (name, path, or CSS content) to
// CSS content and appends the highlight stylesheet.
func (c *Converter) resolveStyle(highlighter *highlight.Renderer) error {
	if c.cfg.noStyle {
		return nil
	}

	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	switch {
	case fileutil.IsFilePath(input):
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.css = string(content)
	case fileutil.IsCSS(input):
		c.css = input
	default:
		css, err := c.assetLoader.LoadStyle(input)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
		}
		c.css = css
	}

	codeCSS, err := highlighter.CSS()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHighlightStyle, err)
	}
	c.css += "\n" + codeCSS
	return nil
}

// Styles lists the stylesheet names WithStyle accepts, including those of
// the asset directory.
func (c *Converter) Styles() ([]string, error) {
	return c.assetLoader.ListStyles()
}

// validateConfig checks option values once, at construction.
func (c *Converter) validateConfig() error {
	if c.cfg.shortenWidth < 0 || c.cfg.shortenWidth > MaxShortenWidth {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidShorten, c.cfg.shortenWidth, MaxShortenWidth)
	}
	return validateDepthRange(c.cfg.outlineMin, c.cfg.outlineMax, false)
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
// Both paths converge here, ensuring all inputs are validated before processing.
func (c *Converter) validateInput(input Input) error {
	if input.Text == "" {
		return ErrEmptyText
	}
	if err := input.Mode.Validate(); err != nil {
		return err
	}
	if input.Shorten < 0 || input.Shorten > MaxShortenWidth {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidShorten, input.Shorten, MaxShortenWidth)
	}
	return validateDepthRange(input.OutlineMin, input.OutlineMax, true)
}

// validateDepthRange checks an outline range. With allowZero, a zero bound
// means "not set" and is skipped.
func validateDepthRange(minDepth, maxDepth int, allowZero bool) error {
	for _, d := range []int{minDepth, maxDepth} {
		if allowZero && d == 0 {
			continue
		}
		if d < MinOutlineDepth || d > MaxOutlineDepth {
			return fmt.Errorf("%w: %d (must be between %d and %d)",
				ErrInvalidOutlineDepth, d, MinOutlineDepth, MaxOutlineDepth)
		}
	}
	if minDepth != 0 && maxDepth != 0 && minDepth > maxDepth {
		return fmt.Errorf("%w: minimum %d exceeds maximum %d", ErrInvalidOutlineDepth, minDepth, maxDepth)
	}
	return nil
}

// newMacroRegistry adapts public macros to the engine registry.
func newMacroRegistry(ms []Macro) (*macros.Registry, error) {
	adapted := make([]macros.Macro, 0, len(ms))
	for _, m := range ms {
		if m.Expand == nil {
			return nil, fmt.Errorf("%w: %q has no Expand function", ErrInvalidMacro, m.Name)
		}
		expand := m.Expand
		adapted = append(adapted, macros.Macro{
			Name:        m.Name,
			Description: m.Description,
			Inline:      m.Inline,
			Expand: func(f *wiki.Formatter, text string, args map[string]string) (string, error) {
				return expand(MacroCall{Page: f.Page(), Args: text, Params: args})
			},
		})
	}
	r, err := macros.NewRegistry(adapted...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMacro, err)
	}
	return r, nil
}

// NewMacroError returns an error whose message a Macro wants shown to the
// reader verbatim.
func NewMacroError(format string, args ...any) error {
	return wiki.NewMacroError(format, args...)
}

// toInterWiki converts configured prefixes to engine entries.
func toInterWiki(sites map[string]remoteSite) map[string]wiki.InterWikiEntry {
	out := make(map[string]wiki.InterWikiEntry, len(sites))
	for prefix, s := range sites {
		out[prefix] = wiki.InterWikiEntry{URL: s.url, Title: s.title}
	}
	return out
}

// toInterTrac converts configured aliases to engine entries.
func toInterTrac(sites map[string]remoteSite) map[string]wiki.InterTracAlias {
	out := make(map[string]wiki.InterTracAlias, len(sites))
	for alias, s := range sites {
		out[alias] = wiki.InterTracAlias{URL: s.url, Title: s.title}
	}
	return out
}
