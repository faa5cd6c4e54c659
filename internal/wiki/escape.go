package wiki

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// plainText returns the text content of an HTML fragment.
func plainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

var linkTagRe = regexp.MustCompile(`</?a(?: [^>]*)?>`)

// stripLinks removes anchor tags, keeping their content.
func stripLinks(fragment string) string {
	return linkTagRe.ReplaceAllString(fragment, "")
}
