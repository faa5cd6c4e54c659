package macros

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/alnah/go-wiki2html/internal/dateutil"
	"github.com/alnah/go-wiki2html/internal/wiki"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// Builtins returns the standard macros. A nil clock uses time.Now.
func Builtins(clock Clock) []Macro {
	if clock == nil {
		clock = time.Now
	}
	return []Macro{
		{
			Name: "PageOutline",
			Description: "Display a structural outline of the current page.\n\n" +
				"Arguments: depth range such as `2-3`, a title, `inline` " +
				"and `unnumbered`.",
			Expand: pageOutline,
		},
		{
			Name: "TitleIndex",
			Description: "Insert an alphabetic list of all wiki pages.\n\n" +
				"The first argument restricts the list to pages starting with " +
				"a prefix. `format=compact` renders a comma separated list.",
			Expand: titleIndex,
		},
		{
			Name: "MacroList",
			Description: "Display a list of all installed macros with their documentation.\n\n" +
				"An argument restricts the list to one macro, or to a prefix when it ends with `*`.",
			Expand: macroList,
		},
		{
			Name: "Timestamp",
			Description: "Insert the current date and time.\n\n" +
				"The argument is a layout such as `YYYY-MM-DD HH:mm` or a preset " +
				"(`iso`, `datetime`, `rfc3339`, `long`, `time`).",
			Inline: true,
			Expand: func(_ *wiki.Formatter, text string, _ map[string]string) (string, error) {
				stamp, err := dateutil.Format(text, clock())
				if err != nil {
					return "", wiki.NewMacroError("%v", err)
				}
				return "<b>" + html.EscapeString(stamp) + "</b>", nil
			},
		},
	}
}

// NewBuiltinRegistry returns a registry holding Builtins(clock).
func NewBuiltinRegistry(clock Clock) *Registry {
	r, err := NewRegistry(Builtins(clock)...)
	if err != nil {
		panic(err) // builtin names are unique
	}
	return r
}

func trimmedArgs(text string) ([]string, map[string]string) {
	args, kwargs := wiki.ParseArgs(text)
	for i, a := range args {
		args[i] = strings.TrimSpace(a)
	}
	for k, v := range kwargs {
		kwargs[k] = strings.TrimSpace(v)
	}
	return args, kwargs
}

// parseDepth reads "N" as 1..N and "N-M" as N..M.
func parseDepth(s string) (minDepth, maxDepth int, err error) {
	lo, hi, ranged := strings.Cut(s, "-")
	if !ranged {
		lo, hi = "1", s
	}
	if minDepth, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
		return 0, 0, wiki.NewMacroError("Invalid outline depth %q", s)
	}
	if maxDepth, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
		return 0, 0, wiki.NewMacroError("Invalid outline depth %q", s)
	}
	return minDepth, maxDepth, nil
}

func pageOutline(f *wiki.Formatter, text string, _ map[string]string) (string, error) {
	args, _ := trimmedArgs(text)
	minDepth, maxDepth := 1, 6
	if len(args) > 0 && args[0] != "" {
		var err error
		if minDepth, maxDepth, err = parseDepth(args[0]); err != nil {
			return "", err
		}
	}
	var title string
	if len(args) > 1 {
		title = args[1]
	}
	class := "wiki-toc"
	for _, a := range args[min(2, len(args)):] {
		switch a {
		case "inline":
			class += " inline"
		case "unnumbered":
			class += " unnumbered"
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="` + class + `">` + "\n")
	if title != "" {
		b.WriteString("<h4>" + html.EscapeString(title) + "</h4>\n")
	}
	b.WriteString(f.RenderOutline(f.Source(), minDepth, maxDepth))
	b.WriteString("</div>\n")
	return b.String(), nil
}

func titleIndex(f *wiki.Formatter, text string, _ map[string]string) (string, error) {
	pages := f.Env().Pages()
	if pages == nil {
		return "", wiki.NewMacroError("No page index available")
	}
	args, kwargs := trimmedArgs(text)
	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}

	names := treeset.NewWithStringComparator()
	for _, name := range pages.PageNames() {
		if strings.HasPrefix(name, prefix) {
			names.Add(name)
		}
	}
	if names.Empty() {
		return `<p class="titleindex"><em>No pages found</em></p>`, nil
	}

	env := f.Env()
	link := func(name string) string {
		return `<a href="` + html.EscapeString(env.PageHref(name)) + `">` + html.EscapeString(name) + `</a>`
	}
	var b strings.Builder
	if kwargs["format"] == "compact" {
		b.WriteString(`<p class="titleindex">`)
		names.Each(func(i int, v any) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(link(v.(string)))
		})
		b.WriteString("</p>")
		return b.String(), nil
	}
	b.WriteString(`<ul class="titleindex">` + "\n")
	names.Each(func(_ int, v any) {
		b.WriteString("<li>" + link(v.(string)) + "</li>\n")
	})
	b.WriteString("</ul>\n")
	return b.String(), nil
}

func macroList(f *wiki.Formatter, text string, _ map[string]string) (string, error) {
	filter := strings.TrimSpace(text)
	matches := func(name string) bool {
		switch {
		case filter == "" || filter == "*":
			return true
		case strings.HasSuffix(filter, "*"):
			return strings.HasPrefix(name, strings.TrimSuffix(filter, "*"))
		default:
			return name == filter
		}
	}

	env := f.Env()
	var b strings.Builder
	for _, name := range env.MacroNames() {
		if !matches(name) {
			continue
		}
		b.WriteString("<dt><code>[[" + html.EscapeString(name) + "]]</code></dt>\n<dd>")
		provider, _ := env.Macro(name)
		var desc string
		if d, ok := provider.(wiki.MacroDescriber); ok {
			desc = d.MacroDescription(name)
		}
		if desc == "" {
			b.WriteString("<p><em>No documentation found</em></p>\n")
		} else {
			b.WriteString(f.RenderHTML(desc))
		}
		b.WriteString("</dd>\n")
	}
	if b.Len() == 0 {
		return "", wiki.NewMacroError("No macro matches %q", filter)
	}
	return `<dl class="wiki">` + "\n" + b.String() + "</dl>\n", nil
}
