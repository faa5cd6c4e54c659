// Package highlight renders source code blocks with chroma. It plugs into
// the wiki engine as a MIME-type renderer, so that {{{#!python ... }}}
// blocks come out highlighted.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// ErrUnknownStyle indicates the requested chroma style does not exist.
var ErrUnknownStyle = errors.New("unknown highlight style")

// ErrNoLexer indicates no lexer handles the requested MIME type.
var ErrNoLexer = errors.New("no lexer for mimetype")

// Renderer highlights code by MIME type. It is safe for concurrent use.
type Renderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New returns a Renderer using the named chroma style.
func New(style string) (*Renderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	s, ok := styles.Registry[strings.ToLower(style)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return &Renderer{
		style:     s,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}, nil
}

// QualityRatio is 2 for MIME types chroma has a lexer for. Dedicated
// renderers should rate themselves higher.
func (r *Renderer) QualityRatio(mimetype string) int {
	if lexers.MatchMimeType(mimetype) != nil {
		return 2
	}
	return 0
}

// MimeType maps a processor name such as "python" or "go" to the first
// MIME type of the matching lexer.
func (r *Renderer) MimeType(name string) string {
	l := lexers.Get(name)
	if l == nil {
		return ""
	}
	if mts := l.Config().MimeTypes; len(mts) > 0 {
		return mts[0]
	}
	return ""
}

// Render highlights text and wraps it in a div of class "code".
func (r *Renderer) Render(mimetype, text string) (string, error) {
	lexer := lexers.MatchMimeType(mimetype)
	if lexer == nil {
		return "", fmt.Errorf("%w: %s", ErrNoLexer, mimetype)
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", mimetype, err)
	}
	var buf bytes.Buffer
	buf.WriteString(`<div class="code">`)
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", mimetype, err)
	}
	buf.WriteString(`</div>`)
	return buf.String(), nil
}

// CSS returns the stylesheet for the class names Render emits.
func (r *Renderer) CSS() (string, error) {
	var buf bytes.Buffer
	if err := r.formatter.WriteCSS(&buf, r.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
