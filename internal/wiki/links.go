package wiki

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// LinkResolver renders links of one namespace. label is already escaped.
// Returning false hands the link to the intertrac and interwiki maps.
type LinkResolver interface {
	ResolveLink(f *Formatter, ns, target, match, label string) (string, bool)
}

// LinkResolverFunc adapts a function to LinkResolver.
type LinkResolverFunc func(f *Formatter, ns, target, match, label string) (string, bool)

// ResolveLink calls fn.
func (fn LinkResolverFunc) ResolveLink(f *Formatter, ns, target, match, label string) (string, bool) {
	return fn(f, ns, target, match, label)
}

var argSpecRe = regexp.MustCompile(`\$[1-9]`)

// MakeLink renders ns:target, trying the namespace resolver, mailto and
// //host links, then the intertrac and interwiki maps. Anything else is
// returned as escaped text.
func (f *Formatter) MakeLink(ns, target, match, label string) string {
	if r, ok := f.env.resolvers[ns]; ok {
		if out, ok := f.resolve(r, ns, target, match, label); ok {
			return out
		}
	}
	switch {
	case strings.EqualFold(ns, "mailto"):
		href := "mailto:" + target
		return `<a class="mail-link" href="` + escapeAttr(href) + `"><span class="icon">` + "\u200b" + `</span>` + label + `</a>`
	case strings.HasPrefix(target, "//"):
		if f.env.IsSafeScheme(ns) {
			return f.ExtLink(ns+":"+target, label, "")
		}
		return escapeHTML(match)
	}
	if out, ok := f.interTracLink(ns, target, label); ok {
		return out
	}
	if out, ok := f.interWikiLink(ns, target, label); ok {
		return out
	}
	return escapeHTML(match)
}

func (f *Formatter) resolve(r LinkResolver, ns, target, match, label string) (out string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			out, ok = recoverFailure(f.env.logger, "Link resolver "+ns, rec), true
		}
	}()
	return r.ResolveLink(f, ns, target, match, label)
}

// ExtLink renders a link leaving the site. Links under the project URL
// render as plain anchors.
func (f *Formatter) ExtLink(href, label, title string) string {
	var titleAttr string
	if title != "" {
		titleAttr = ` title="` + escapeAttr(title) + `"`
	}
	if f.env.projectURL != "" && strings.HasPrefix(href, f.env.projectURL) {
		return `<a href="` + escapeAttr(href) + `"` + titleAttr + `>` + label + `</a>`
	}
	return `<a class="ext-link" href="` + escapeAttr(href) + `"` + titleAttr + `><span class="icon">` +
		"\u200b" + `</span>` + label + `</a>`
}

func (f *Formatter) interTracLink(ns, target, label string) (string, bool) {
	alias, ok := f.env.interTrac[strings.ToLower(ns)]
	if !ok || alias.URL == "" {
		return "", false
	}
	name := alias.Title
	if name == "" {
		name = "Trac project " + ns
	}
	href := strings.TrimRight(alias.URL, "/") + "/intertrac/" + url.PathEscape(target)
	title := name
	if target != "" {
		title = target + " in " + name
	}
	return f.ExtLink(href, label, title), true
}

func (f *Formatter) interWikiLink(ns, target, label string) (string, bool) {
	entry, ok := f.env.interWiki[strings.ToLower(ns)]
	if !ok || entry.URL == "" {
		return "", false
	}
	path, suffix := splitQueryFragment(target)
	href, title := entry.URL, entry.Title
	maxArg := 0
	for _, m := range argSpecRe.FindAllString(href, -1) {
		if n := int(m[1] - '0'); n > maxArg {
			maxArg = n
		}
	}
	if maxArg > 0 {
		args := strings.SplitN(path, ":", maxArg)
		expand := func(m string) string {
			n := int(m[1] - '0')
			if n <= len(args) {
				return args[n-1]
			}
			return ""
		}
		href = argSpecRe.ReplaceAllStringFunc(href, expand)
		title = argSpecRe.ReplaceAllStringFunc(title, expand)
	} else {
		href += path
	}
	if title == "" {
		title = target + " in " + ns
	}
	return f.ExtLink(href+suffix, label, title), true
}

// splitQueryFragment separates "?query#fragment" from a link target.
func splitQueryFragment(target string) (path, suffix string) {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i], target[i:]
	}
	return target, ""
}

// Wiki pages

// resolveWikiLink renders wiki:Page links. Missing pages get a "?" and a
// nofollow link, or plain text when missing pages are ignored.
func resolveWikiLink(f *Formatter, ns, target, match, label string) (string, bool) {
	return f.wikiPageLink(target, label, false), true
}

func (f *Formatter) wikiPageLink(target, label string, camelCase bool) string {
	page, suffix := splitQueryFragment(target)
	var version string
	if at := strings.IndexByte(page, '@'); at >= 0 {
		page, version = page[:at], page[at+1:]
		if _, err := strconv.Atoi(version); err != nil {
			version = ""
		}
	}
	page = strings.TrimRight(page, "/")
	switch {
	case strings.HasPrefix(page, "/"):
		page = strings.TrimLeft(page, "/")
	case page == "." || page == ".." || strings.HasPrefix(page, "./") || strings.HasPrefix(page, "../"):
		page = resolveRelativePage(page, f.page)
	default:
		page = f.resolveScopedPage(page)
	}
	if page == "" {
		page = "WikiStart"
	}

	href := f.env.PageHref(page)
	if version != "" {
		href += "?version=" + version
		if strings.HasPrefix(suffix, "?") {
			suffix = "&" + suffix[1:]
		}
	}
	href += suffix

	if f.pageExists(page) {
		return `<a class="wiki" href="` + escapeAttr(href) + `">` + label + `</a>`
	}
	if f.env.ignoreMiss && camelCase {
		return label
	}
	return `<a class="missing wiki" href="` + escapeAttr(href) + `" rel="nofollow">` + label + `?</a>`
}

func (f *Formatter) pageExists(name string) bool {
	if f.env.pages == nil {
		return true
	}
	return f.env.pages.PageExists(name)
}

// resolveRelativePage resolves ./Name and ../Name against the current page.
func resolveRelativePage(name, current string) string {
	var base []string
	if current != "" {
		base = strings.Split(current, "/")
	}
	for _, comp := range strings.Split(name, "/") {
		switch comp {
		case ".", "":
		case "..":
			if len(base) > 0 {
				base = base[:len(base)-1]
			}
		default:
			base = append(base, comp)
		}
	}
	return strings.Join(base, "/")
}

// resolveScopedPage looks for name beside the current page, then beside
// each of its ancestors, before falling back to the top level.
func (f *Formatter) resolveScopedPage(name string) string {
	if f.page == "" || f.env.pages == nil {
		return name
	}
	parts := strings.Split(f.page, "/")
	for i := len(parts) - 1; i > 0; i-- {
		candidate := strings.Join(parts[:i], "/") + "/" + name
		if f.env.pages.PageExists(candidate) {
			return candidate
		}
	}
	return name
}
