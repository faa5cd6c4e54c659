package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownMimeType is the MIME type handled by MarkdownRenderer.
const MarkdownMimeType = "text/x-markdown"

// ErrMarkdownConversion indicates goldmark failed to convert a block.
var ErrMarkdownConversion = errors.New("markdown conversion failed")

// markdownNames are the processor names that select MarkdownRenderer.
var markdownNames = map[string]bool{"markdown": true, "md": true}

// MarkdownRenderer converts {{{#!markdown}}} blocks to HTML with goldmark.
// Raw HTML in the Markdown source is dropped.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a MarkdownRenderer with GFM extensions and
// syntax highlighting.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // same class names as the wiki highlighter
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &MarkdownRenderer{md: md}
}

// QualityRatio rates goldmark above the generic highlighter for Markdown.
func (r *MarkdownRenderer) QualityRatio(mimetype string) int {
	if strings.EqualFold(mimetype, MarkdownMimeType) {
		return 8
	}
	return 0
}

// MimeType maps "markdown" and "md" to MarkdownMimeType.
func (r *MarkdownRenderer) MimeType(name string) string {
	if markdownNames[strings.ToLower(name)] {
		return MarkdownMimeType
	}
	return ""
}

// Render converts Markdown text to an HTML fragment.
func (r *MarkdownRenderer) Render(_, text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownConversion, err)
	}
	return `<div class="markdown">` + buf.String() + `</div>`, nil
}
