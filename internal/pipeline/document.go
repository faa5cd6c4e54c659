package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alnah/go-wiki2html/internal/assets"
)

// ErrDocumentRender indicates the standalone document template failed.
var ErrDocumentRender = errors.New("document template rendering failed")

// embeddedDocument parses the embedded page template once.
var embeddedDocument = sync.OnceValues(func() (*template.Template, error) {
	text, err := assets.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, err
	}
	return template.New("document").Parse(text)
})

// DocumentData holds what a standalone page is built from.
type DocumentData struct {
	Title string
	Lang  string
	Body  string // rendered wiki HTML, inserted verbatim
}

// DocumentBuilder assembles standalone HTML documents.
type DocumentBuilder interface {
	BuildDocument(ctx context.Context, data DocumentData) (string, error)
}

// Document implements DocumentBuilder with html/template. The zero value
// uses the embedded document template.
type Document struct {
	tmpl *template.Template
}

// NewDocument parses a custom page template. The template receives
// .Title, .Lang and .Body.
func NewDocument(text string) (*Document, error) {
	tmpl, err := template.New("document").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return &Document{tmpl: tmpl}, nil
}

// BuildDocument renders data into a complete HTML5 document. An empty
// title becomes "Untitled" and an empty language "en".
func (d *Document) BuildDocument(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data.Title == "" {
		data.Title = "Untitled"
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	tmpl := d.tmpl
	if tmpl == nil {
		var err error
		if tmpl, err = embeddedDocument(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
		}
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Title string
		Lang  string
		Body  template.HTML
	}{data.Title, data.Lang, template.HTML(data.Body)}) // #nosec G203 -- body is engine output
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
