package wiki

import (
	"strings"
)

type outlineEntry struct {
	depth  int
	anchor string
	text   string
}

// NewOutlineFormatter returns a Formatter rendering the heading outline of
// its input as nested ordered lists linking to the heading anchors.
func NewOutlineFormatter(env *Env, opts ...Option) *Formatter {
	return newFormatter(env, outlineFlavor, opts)
}

func outlineHeading(f *Formatter, t Token) string {
	depth, heading, anchor := f.parseHeading(t)
	f.outline = append(f.outline, outlineEntry{depth: depth, anchor: anchor, text: stripLinks(heading)})
	return ""
}

func formatOutline(f *Formatter, text string) string {
	f.run(text)
	return renderOutline(f.outline, f.outlineMin, f.outlineMax)
}

func indent(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("  ", n)
}

// renderOutline nests the headings between minDepth and maxDepth into
// ordered lists. Depths are clamped to 1..6 and swapped when inverted.
func renderOutline(entries []outlineEntry, minDepth, maxDepth int) string {
	if minDepth > maxDepth {
		minDepth, maxDepth = maxDepth, minDepth
	}
	maxDepth = min(6, maxDepth)
	minDepth = max(1, minDepth)

	var b strings.Builder
	current := minDepth - 1
	for _, e := range entries {
		if e.depth < minDepth || e.depth > maxDepth {
			continue
		}
		switch {
		case e.depth > current:
			for i := current; i < e.depth; i++ {
				b.WriteString(indent(2*i) + "<ol>\n" + indent(2*i+1) + "<li>\n")
			}
		case e.depth < current:
			for i := current - 1; i > e.depth-1; i-- {
				b.WriteString(indent(2*i+1) + "</li>\n" + indent(2*i) + "</ol>\n")
			}
			b.WriteString(indent(2*e.depth-1) + "</li>\n" + indent(2*e.depth-1) + "<li>\n")
		default:
			b.WriteString(indent(2*e.depth-1) + "</li>\n" + indent(2*e.depth-1) + "<li>\n")
		}
		current = e.depth
		b.WriteString(indent(2*e.depth) + `<a href="#` + escapeAttr(e.anchor) + `">` + e.text + "</a>\n")
	}
	for i := current - 1; i > minDepth-2; i-- {
		b.WriteString(indent(2*i+1) + "</li>\n" + indent(2*i) + "</ol>\n")
	}
	return b.String()
}
