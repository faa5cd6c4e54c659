package wiki

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type handlerFunc func(f *Formatter, t Token) string

const (
	strongOpen  = "<strong>"
	strongClose = "</strong>"
	emOpen      = "<em>"
	emClose     = "</em>"
)

var (
	macroCallRe  = regexp.MustCompile(`^([\w/+-]+\??|\?)(?:\((.*)\))?$`)
	creoleLinkRe = regexp.MustCompile(`^\s*([^|]+?)\s*(?:\|\s*(.*?)\s*)?$`)
	anchorWCRe   = regexp.MustCompile(`^=#(` + xmlNamePattern + `)(?:\s+(.*))?$`)
	relTargetRe  = regexp.MustCompile(`^(?:[/#]|\.\.?(?:[/#]|$))`)
	nsTargetRe   = regexp.MustCompile(`^(` + schemePattern + `):(.*)$`)
	anchorStrip  = regexp.MustCompile(`[^\p{L}\p{N}_:.-]+`)
)

func styleHandler(open, close string) handlerFunc {
	return func(f *Formatter, _ Token) string {
		return f.tags.toggle(open, close)
	}
}

// handleBoldItalic toggles bold and italic together. When both are open
// they close innermost first.
func handleBoldItalic(f *Formatter, _ Token) string {
	bold := f.tags.index(strongClose)
	italic := f.tags.index(emClose)
	switch {
	case bold < 0 && italic < 0:
		return f.tags.push(strongOpen, strongClose) + f.tags.push(emOpen, emClose)
	case bold >= 0 && italic >= 0:
		if bold > italic {
			return f.tags.closeTag(strongClose) + f.tags.closeTag(emClose)
		}
		return f.tags.closeTag(emClose) + f.tags.closeTag(strongClose)
	case bold >= 0:
		return f.tags.closeTag(strongClose) + f.tags.push(emOpen, emClose)
	default:
		return f.tags.closeTag(emClose) + f.tags.push(strongOpen, strongClose)
	}
}

// handleItalicWC ignores // right after a colon, as in URLs.
func handleItalicWC(f *Formatter, t Token) string {
	if t.Start > 0 && t.line[t.Start-1] == ':' {
		return t.Match()
	}
	return f.tags.toggle(emOpen, emClose)
}

func inlineCodeHandler(group string) handlerFunc {
	return func(_ *Formatter, t Token) string {
		code, _ := t.Group(group)
		return "<code>" + escapeHTML(code) + "</code>"
	}
}

func handleHTMLEscape(_ *Formatter, t Token) string {
	return escapeHTML(t.Match())
}

func handleLineBreak(f *Formatter, _ Token) string {
	return f.flavor.lineBreak
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// handlePageName links CamelCase page names that stand as whole words.
func handlePageName(f *Formatter, t Token) string {
	name := t.Match()
	if t.Start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(t.line[:t.Start]); isWordRune(r) || r == '/' {
			return escapeHTML(name)
		}
	}
	if after := t.line[t.End:]; after != "" {
		r, size := utf8.DecodeRuneInString(after)
		if isWordRune(r) {
			return escapeHTML(name)
		}
		if r == ':' && len(after) > size && !unicode.IsSpace(rune(after[size])) {
			return escapeHTML(name)
		}
	}
	var trail string
	if strings.HasSuffix(name, "/") {
		name, trail = strings.TrimRight(name, "/"), "/"
	}
	return f.wikiPageLink(name, escapeHTML(name), true) + trail
}

func handleShortLink(f *Formatter, t Token) string {
	ns, _ := t.Group("sns")
	target, _ := t.Group("stgt")
	match := t.Match()
	return f.MakeLink(ns, unquote(target), match, escapeHTML(match))
}

func handleShortLinkBracket(f *Formatter, t Token) string {
	ns, _ := t.Group("snsbr")
	target, _ := t.Group("stgtbr")
	match := t.Match()
	match = match[1 : len(match)-1]
	return "&lt;" + f.MakeLink(ns, unquote(target), match, escapeHTML(match)) + "&gt;"
}

func handleLongLink(f *Formatter, t Token) string {
	rel, _ := t.Group("rel")
	ns, _ := t.Group("lns")
	target, _ := t.Group("ltgt")
	label, _ := t.Group("label")
	return f.longLink(t.Match(), rel, ns, unquote(target), unquote(strings.TrimSpace(label)))
}

// longLink renders [ns:target label] and [[target|label]] links. rel is
// set for site-relative and page-relative targets.
func (f *Formatter) longLink(match, rel, ns, target, label string) string {
	if label == "" {
		switch {
		case rel != "":
			label = strings.TrimPrefix(rel, "./")
		case target != "" && ns != "" && strings.HasPrefix(target, "//"):
			label = ns + ":" + target
		case target != "":
			label = strings.TrimLeft(target, "/")
		default:
			label = ns
		}
	}
	escaped := escapeHTML(label)
	if rel != "" {
		path, suffix := splitQueryFragment(rel)
		switch {
		case strings.HasPrefix(path, "//"):
			path = "/" + strings.TrimLeft(path, "/")
		case path == "" || strings.HasPrefix(path, "/"):
		default:
			page := resolveRelativePage(path, f.page)
			return f.MakeLink("wiki", "/"+page+suffix, match, escaped)
		}
		return `<a href="` + escapeAttr(path+suffix) + `">` + escaped + `</a>`
	}
	if ns == "" {
		ns = "wiki"
	}
	return f.MakeLink(ns, target, match, escaped)
}

func handleAnchor(f *Formatter, t Token) string {
	name, _ := t.Group("anchorname")
	label, _ := t.Group("anchorlabel")
	return f.anchor(name, label)
}

func (f *Formatter) anchor(name, label string) string {
	f.anchors[name] = true
	if label = strings.TrimSpace(label); label != "" {
		label = f.RenderOneLiner(label)
	}
	return `<span class="wikianchor" id="` + escapeAttr(name) + `">` + label + `</span>`
}

// handleMacroLink dispatches [[...]]: anchors, macro calls, then creole
// links. A bare [[Name]] naming no macro links to the page when the page
// index knows it, and reports an unknown macro otherwise.
func handleMacroLink(f *Formatter, t Token) string {
	match := t.Match()
	inner := match[2 : len(match)-2]
	if strings.HasPrefix(inner, "=#") {
		if m := anchorWCRe.FindStringSubmatch(inner); m != nil {
			return f.anchor(m[1], m[2])
		}
	}
	if m := macroCallRe.FindStringSubmatch(inner); m != nil {
		if out, ok := f.macroCall(match, m[1], m[2], strings.Contains(inner, "(")); ok {
			return out
		}
	}
	if m := creoleLinkRe.FindStringSubmatch(inner); m != nil {
		return f.creoleLink(match, m[1], m[2])
	}
	return escapeHTML(match)
}

func (f *Formatter) macroCall(match, name, args string, hasArgs bool) (string, bool) {
	if strings.EqualFold(name, "br") {
		return f.flavor.lineBreak, true
	}
	switch {
	case name == "?":
		name, args = "MacroList", "*"
	case strings.HasSuffix(name, "?"):
		name, args = "MacroList", name[:len(name)-1]
	}
	p := f.NewProcessor(name, nil)
	if !p.Resolved() && !hasArgs && f.env.pages != nil && f.env.pages.PageExists(name) {
		return "", false
	}
	return f.flavor.macro(f, p, match, args), true
}

func (f *Formatter) creoleLink(match, target, label string) string {
	switch {
	case relTargetRe.MatchString(target):
		return f.longLink(match, target, "", "", label)
	default:
		if m := nsTargetRe.FindStringSubmatch(target); m != nil {
			return f.longLink(match, "", m[1], m[2], label)
		}
		return f.longLink(match, "", "wiki", target, label)
	}
}

// expandMacro renders a macro call in place. Block output met inside a
// paragraph closes the paragraph around it.
func expandMacro(f *Formatter, p *Processor, _, args string) string {
	out := p.call(args)
	if !p.Resolved() || p.IsInline() || !f.inParagraphContext() {
		return out
	}
	f.interruptParagraph(out)
	return ""
}

// Block handlers

func handleHeading(f *Formatter, t Token) string {
	f.closeBlocks()
	depth, heading, anchor := f.parseHeading(t)
	f.write(fmt.Sprintf("<h%d id=\"%s\">%s</h%d>\n", depth, escapeAttr(anchor), heading, depth))
	return ""
}

// parseHeading returns the depth, inline markup and unique anchor of a
// heading line.
func (f *Formatter) parseHeading(t Token) (int, string, string) {
	marks, _ := t.Group("hdepth")
	depth := len(marks)
	text, _ := t.Group("htext")
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, marks) {
		text = strings.TrimSpace(text[:len(text)-depth])
	}
	heading := f.RenderOneLiner(text)

	anchor, ok := t.Group("hanchor")
	if ok {
		anchor = anchor[1:]
	} else {
		anchor = anchorStrip.ReplaceAllString(plainText(heading), "")
		if r, _ := utf8.DecodeRuneInString(anchor); anchor == "" || unicode.IsDigit(r) || r == '.' || r == '-' {
			anchor = "a" + anchor
		}
	}
	base := anchor
	for i := 1; f.anchors[anchor]; i++ {
		anchor = base + strconv.Itoa(i)
	}
	f.anchors[anchor] = true
	return depth, heading, anchor
}

func handleListItem(f *Formatter, t Token) string {
	indent, _ := t.Group("ldepth")
	marker, _ := t.Group("lstart")
	f.inListItem = true
	kind, class, start := listStyle(marker)
	f.setListDepth(len(indent), kind, class, start)
	return ""
}

// handleIndent continues a list item when the indentation stays within
// its text column, and quotes the line otherwise.
func handleIndent(f *Formatter, t Token) string {
	depth := len(t.Match())
	if n := len(f.lists); n > 0 {
		top := f.lists[n-1]
		if depth < top.depth {
			for _, l := range f.lists {
				if depth > l.depth {
					f.inListItem = true
					f.setListDepth(depth, "", "", 0)
					return ""
				}
			}
		} else {
			slack := 2
			if top.kind == "ol" {
				slack = 3
			}
			if depth <= top.depth+slack {
				f.inListItem = true
				return ""
			}
		}
	}
	if !f.inDefList {
		f.setQuoteDepth(depth)
	}
	return ""
}

func handleDefinition(f *Formatter, t Token) string {
	var b strings.Builder
	if f.inDefList {
		b.WriteString(f.tags.flush())
		b.WriteString("</dd>")
	} else {
		f.closeTable()
		f.closeParagraph()
		b.WriteString(`<dl class="wiki">`)
	}
	match := t.Match()
	term := strings.TrimSpace(match[:strings.Index(match, "::")])
	b.WriteString("<dt>" + f.RenderOneLiner(term) + "</dt><dd>")
	f.inDefList = true
	return b.String()
}
