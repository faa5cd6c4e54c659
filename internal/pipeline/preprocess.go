package pipeline

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\ufeff"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Trailing blanks at the end of the document
	trailingBlankLines = regexp.MustCompile(`\n[ \t\n]*$`)
)

// Preprocessor prepares raw wiki text for formatting.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// WikiPreprocessor normalizes line endings, drops a leading byte order
// mark and composes Unicode to NFC, so that visually equal page names
// resolve to the same page.
type WikiPreprocessor struct{}

// Preprocess applies all normalizations to content.
func (p *WikiPreprocessor) Preprocess(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	content = trimTrailingBlankLines(content)
	return norm.NFC.String(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// trimTrailingBlankLines keeps a single final newline.
func trimTrailingBlankLines(content string) string {
	return trailingBlankLines.ReplaceAllString(content, "\n")
}
