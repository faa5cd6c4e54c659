// Package sanitize cleans raw HTML embedded in wiki text.
//
// A bluemonday user-content policy removes scripts, event handlers and
// links with unsafe schemes. Inline style attributes are then filtered
// declaration by declaration, dropping those that can move content out of
// its box or load remote code.
package sanitize

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aymerick/douceur/parser"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	expressionRe = regexp.MustCompile(`(?i)e\s*x\s*p\s*r\s*e\s*s\s*s\s*i\s*o\s*n\s*\(`)
	cssURLRe     = regexp.MustCompile(`(?i)u\s*r\s*l\s*\(\s*(?:"([^"]*)"|'([^']*)'|([^)]*?))\s*\)`)
	cssSchemeRe  = regexp.MustCompile(`^([a-zA-Z][-a-zA-Z0-9+.]*):`)
)

// unsafeProperties never pass, whatever their value.
var unsafeProperties = map[string]bool{
	"position":     true,
	"behavior":     true,
	"-moz-binding": true,
}

// Policy sanitizes HTML fragments. It is safe for concurrent use.
type Policy struct {
	bm      *bluemonday.Policy
	schemes map[string]bool
}

// Option configures a Policy.
type Option func(*options)

type options struct {
	schemes []string
}

// WithSchemes sets the URL schemes allowed in href, src and CSS url().
func WithSchemes(schemes ...string) Option {
	return func(o *options) { o.schemes = schemes }
}

// New returns a Policy built on the bluemonday UGC policy.
func New(opts ...Option) *Policy {
	o := &options{schemes: []string{"http", "https", "mailto"}}
	for _, opt := range opts {
		opt(o)
	}

	bm := bluemonday.UGCPolicy()
	bm.AllowURLSchemes(o.schemes...)
	bm.AllowAttrs("class", "id", "title", "dir", "lang").Globally()
	bm.AllowAttrs("style").Globally()
	bm.AllowElements("div", "span", "section", "details", "summary")

	schemes := make(map[string]bool, len(o.schemes))
	for _, s := range o.schemes {
		schemes[strings.ToLower(s)] = true
	}
	return &Policy{bm: bm, schemes: schemes}
}

// Sanitize returns raw with unsafe markup removed.
func (p *Policy) Sanitize(raw string) string {
	clean := p.bm.Sanitize(raw)
	if !strings.Contains(clean, "style=") {
		return clean
	}
	return p.filterStyles(clean)
}

// filterStyles rewrites every style attribute of fragment through
// CleanStyle, dropping the attributes left empty.
func (p *Policy) filterStyles(fragment string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return html.EscapeString(fragment)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		p.walk(n)
		if err := html.Render(&buf, n); err != nil {
			return html.EscapeString(fragment)
		}
	}
	return buf.String()
}

func (p *Policy) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "style" {
				if a.Val = p.CleanStyle(a.Val); a.Val == "" {
					continue
				}
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

// CleanStyle returns the declarations of an inline style that are safe to
// render, or "" when none is.
func (p *Policy) CleanStyle(style string) string {
	// The parser drops the value of a last declaration without ";" and
	// fails on an empty one. Declarations before a failure are kept.
	style = strings.TrimRight(strings.TrimSpace(style), "; \t\n")
	if style == "" {
		return ""
	}
	decls, _ := parser.ParseDeclarations(style + ";")
	var kept []string
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if value == "" || !p.safeValue(prop, value) {
			continue
		}
		decl := prop + ": " + value
		if d.Important {
			decl += " !important"
		}
		kept = append(kept, decl)
	}
	return strings.Join(kept, "; ")
}

// safeValue checks value both with its escapes decoded and with its
// backslashes dropped, as older engines read them.
func (p *Policy) safeValue(prop, value string) bool {
	return p.safeDeclaration(prop, decodeCSS(value)) &&
		p.safeDeclaration(prop, strings.ReplaceAll(value, `\`, ""))
}

func (p *Policy) safeDeclaration(prop, value string) bool {
	switch {
	case prop == "" || unsafeProperties[prop]:
		return false
	case strings.HasPrefix(prop, "margin") && strings.Contains(value, "-"):
		return false
	case expressionRe.MatchString(value):
		return false
	}
	for _, m := range cssURLRe.FindAllStringSubmatch(value, -1) {
		target := strings.TrimSpace(m[1] + m[2] + m[3])
		if s := cssSchemeRe.FindStringSubmatch(target); s != nil && !p.schemes[strings.ToLower(s[1])] {
			return false
		}
	}
	return true
}

// decodeCSS resolves CSS escapes and removes comments, giving the text a
// browser would see.
func decodeCSS(value string) string {
	if !strings.ContainsAny(value, `\/`) {
		return value
	}
	var b strings.Builder
	for i := 0; i < len(value); {
		c := value[i]
		switch {
		case c == '/' && strings.HasPrefix(value[i:], "/*"):
			end := strings.Index(value[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 4
		case c == '\\' && i+1 < len(value):
			n := 0
			for n < 6 && i+1+n < len(value) && isHex(value[i+1+n]) {
				n++
			}
			if n == 0 {
				r, size := utf8.DecodeRuneInString(value[i+1:])
				if r != '\n' {
					b.WriteRune(r)
				}
				i += 1 + size
				continue
			}
			code, _ := strconv.ParseUint(value[i+1:i+1+n], 16, 32)
			r := rune(code)
			if r == 0 || r > unicode.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
				r = unicode.ReplacementChar
			}
			b.WriteRune(r)
			i += 1 + n
			if i < len(value) && strings.IndexByte(" \t\n\r\f", value[i]) >= 0 {
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
